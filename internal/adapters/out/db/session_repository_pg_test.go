package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/infra/database"
	"storefront/internal/infra/logging"

	sessiondom "storefront/internal/domain/session"
	scdom "storefront/internal/domain/storecontext"
)

type fakeRow struct {
	vals []any
	err  error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = f.vals[i].(string)
		case *[]byte:
			*p = f.vals[i].([]byte)
		case *time.Time:
			*p = f.vals[i].(time.Time)
		}
	}
	return nil
}

func TestScanSession(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	s, err := scanSession(fakeRow{vals: []any{
		"s1", "u1", "cart-1", "", []byte(`{"currency":"USD","country":"US","storeKey":"berlin"}`),
		now, now, now.Add(time.Hour),
	}})
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "cart-1", s.CartID)
	assert.Equal(t, scdom.Context{Currency: "USD", Country: "US", StoreKey: "berlin"}, s.Context)
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)

	_, err = scanSession(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = scanSession(fakeRow{vals: []any{"s1", "", "", "", []byte(`{`), now, now, now}})
	assert.Error(t, err)
}

func TestWrapPG(t *testing.T) {
	assert.NoError(t, wrapPG(nil))
	assert.ErrorIs(t, wrapPG(&pq.Error{Code: "42P01"}), ErrSchemaMissing)

	other := errors.New("connection reset")
	assert.Equal(t, other, wrapPG(other))
}

func TestSessionRepositoryPG_NilSafe(t *testing.T) {
	var r *SessionRepositoryPG
	_, err := r.GetByID(context.Background(), "s1")
	assert.Error(t, err)
	assert.Error(t, r.Upsert(context.Background(), &sessiondom.ShopperSession{ID: "s1"}))
}

// Runs against a real database when STOREFRONT_TEST_DATABASE_URL is set.
func TestSessionRepositoryPG_Integration(t *testing.T) {
	dsn := os.Getenv("STOREFRONT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_DATABASE_URL not set")
	}
	ctx := t.Context()
	conn, err := database.NewConnection(ctx, dsn, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewSessionRepositoryPG(conn.Client)
	require.NoError(t, repo.EnsureSchema(ctx))

	now := time.Now().UTC().Truncate(time.Millisecond)
	s, err := sessiondom.New("pg-it-1", "", scdom.Context{Currency: "EUR"}, now, time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, s))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), s.ID) })

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "EUR", got.Context.Currency)

	s.CartID = "cart-9"
	require.NoError(t, repo.Upsert(ctx, s))
	got, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "cart-9", got.CartID)

	n, err := repo.DeleteExpired(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	got, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
