// internal/domain/session/repository_port.go
package session

import (
	"context"
	"time"
)

// Repository is a persistence port for ShopperSession.
//
// Storage (Firestore):
//   - collection: storefront_sessions
//   - docId: session id
//   - TTL policy on "expiresAt"
type Repository interface {
	// GetByID returns (nil, nil) when the session does not exist.
	GetByID(ctx context.Context, id string) (*ShopperSession, error)

	Upsert(ctx context.Context, s *ShopperSession) error

	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions whose expiresAt is before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
