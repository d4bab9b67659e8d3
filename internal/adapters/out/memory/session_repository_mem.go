// internal/adapters/out/memory/session_repository_mem.go
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	sessiondom "storefront/internal/domain/session"
)

// SessionRepository keeps sessions in process memory.
// Used when Firestore is not configured (local dev) and in tests.
type SessionRepository struct {
	mu   sync.RWMutex
	data map[string]sessiondom.ShopperSession
}

var _ sessiondom.Repository = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{data: map[string]sessiondom.ShopperSession{}}
}

// GetByID returns a copy, or (nil, nil) when missing.
func (r *SessionRepository) GetByID(_ context.Context, id string) (*sessiondom.ShopperSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[strings.TrimSpace(id)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SessionRepository) Upsert(_ context.Context, s *sessiondom.ShopperSession) error {
	if s == nil || strings.TrimSpace(s.ID) == "" {
		return errors.New("memory: session id is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[strings.TrimSpace(s.ID)] = *s
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, strings.TrimSpace(id))
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.data {
		if s.Expired(now) {
			delete(r.data, id)
			n++
		}
	}
	return n, nil
}
