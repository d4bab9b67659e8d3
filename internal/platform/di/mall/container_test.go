package mall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/memory"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/logging"
	shared "storefront/internal/platform/di/shared"
)

func TestNewSessionRepository(t *testing.T) {
	l := logging.Component(logging.Discard(), "test")
	infra := &shared.Infra{}

	repo, err := newSessionRepository(t.Context(), infra, &appcfg.Config{}, l)
	require.NoError(t, err)
	assert.IsType(t, &memory.SessionRepository{}, repo)

	repo, err = newSessionRepository(t.Context(), infra, &appcfg.Config{SessionStore: appcfg.SessionStoreMemory}, l)
	require.NoError(t, err)
	assert.IsType(t, &memory.SessionRepository{}, repo)

	_, err = newSessionRepository(t.Context(), infra, &appcfg.Config{SessionStore: appcfg.SessionStoreFirestore}, l)
	assert.Error(t, err)

	_, err = newSessionRepository(t.Context(), infra, &appcfg.Config{SessionStore: appcfg.SessionStorePostgres}, l)
	assert.Error(t, err)
}

func TestNewContainer_NilInfra(t *testing.T) {
	_, err := NewContainer(t.Context(), nil)
	assert.Error(t, err)

	_, err = NewContainer(t.Context(), &shared.Infra{})
	assert.Error(t, err)
}
