// internal/adapters/out/db/session_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sessiondom "storefront/internal/domain/session"
	scdom "storefront/internal/domain/storecontext"
)

// ErrSchemaMissing is returned when storefront_sessions does not exist; run EnsureSchema.
var ErrSchemaMissing = errors.New("session_repository_pg: table storefront_sessions is missing")

const sessionSchema = `
CREATE TABLE IF NOT EXISTS storefront_sessions (
  id         TEXT PRIMARY KEY,
  uid        TEXT NOT NULL DEFAULT '',
  cart_id    TEXT NOT NULL DEFAULT '',
  order_id   TEXT NOT NULL DEFAULT '',
  context    JSONB NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS storefront_sessions_expires_at_idx ON storefront_sessions (expires_at);`

// SessionRepositoryPG is the PostgreSQL implementation of session.Repository,
// for deployments without Firestore.
type SessionRepositoryPG struct {
	DB Runner
}

var _ sessiondom.Repository = (*SessionRepositoryPG)(nil)

func NewSessionRepositoryPG(db *sql.DB) *SessionRepositoryPG {
	return &SessionRepositoryPG{DB: db}
}

// EnsureSchema creates the table and its expiry index when missing.
func (r *SessionRepositoryPG) EnsureSchema(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return errors.New("session_repository_pg: db is nil")
	}
	if _, err := r.DB.ExecContext(ctx, sessionSchema); err != nil {
		return fmt.Errorf("session_repository_pg: ensure schema: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the row does not exist.
func (r *SessionRepositoryPG) GetByID(ctx context.Context, id string) (*sessiondom.ShopperSession, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("session_repository_pg: db is nil")
	}
	sid := strings.TrimSpace(id)
	if sid == "" {
		return nil, errors.New("session_repository_pg: id is empty")
	}

	const q = `
SELECT id, uid, cart_id, order_id, context, created_at, updated_at, expires_at
FROM storefront_sessions
WHERE id = $1
LIMIT 1`
	s, err := scanSession(r.DB.QueryRowContext(ctx, q, sid))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, wrapPG(err)
	}
	return s, nil
}

func (r *SessionRepositoryPG) Upsert(ctx context.Context, s *sessiondom.ShopperSession) error {
	if r == nil || r.DB == nil {
		return errors.New("session_repository_pg: db is nil")
	}
	if s == nil {
		return errors.New("session_repository_pg: session is nil")
	}
	sid := strings.TrimSpace(s.ID)
	if sid == "" {
		return errors.New("session_repository_pg: Upsert requires session.ID")
	}
	rawCtx, err := json.Marshal(s.Context)
	if err != nil {
		return fmt.Errorf("session_repository_pg: encode context: %w", err)
	}

	const q = `
INSERT INTO storefront_sessions (id, uid, cart_id, order_id, context, created_at, updated_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
  uid        = EXCLUDED.uid,
  cart_id    = EXCLUDED.cart_id,
  order_id   = EXCLUDED.order_id,
  context    = EXCLUDED.context,
  updated_at = EXCLUDED.updated_at,
  expires_at = EXCLUDED.expires_at`
	_, err = r.DB.ExecContext(ctx, q,
		sid,
		strings.TrimSpace(s.UID),
		strings.TrimSpace(s.CartID),
		strings.TrimSpace(s.OrderID),
		rawCtx,
		s.CreatedAt.UTC(),
		s.UpdatedAt.UTC(),
		s.ExpiresAt.UTC(),
	)
	return wrapPG(err)
}

func (r *SessionRepositoryPG) Delete(ctx context.Context, id string) error {
	if r == nil || r.DB == nil {
		return errors.New("session_repository_pg: db is nil")
	}
	sid := strings.TrimSpace(id)
	if sid == "" {
		return errors.New("session_repository_pg: id is empty")
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM storefront_sessions WHERE id = $1`, sid)
	return wrapPG(err)
}

func (r *SessionRepositoryPG) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	if r == nil || r.DB == nil {
		return 0, errors.New("session_repository_pg: db is nil")
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM storefront_sessions WHERE expires_at < $1`, now.UTC())
	if err != nil {
		return 0, wrapPG(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func scanSession(row RowScanner) (*sessiondom.ShopperSession, error) {
	var (
		s      sessiondom.ShopperSession
		rawCtx []byte
	)
	if err := row.Scan(
		&s.ID, &s.UID, &s.CartID, &s.OrderID, &rawCtx,
		&s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt,
	); err != nil {
		return nil, err
	}
	if len(rawCtx) > 0 {
		var sc scdom.Context
		if err := json.Unmarshal(rawCtx, &sc); err != nil {
			return nil, fmt.Errorf("session_repository_pg: decode context: %w", err)
		}
		s.Context = sc
	}
	return &s, nil
}

func wrapPG(err error) error {
	if err != nil && isUndefinedTable(err) {
		return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}
	return err
}
