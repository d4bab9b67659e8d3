// internal/domain/session/entity.go
package session

import (
	"errors"
	"strings"
	"time"

	scdom "storefront/internal/domain/storecontext"
)

var (
	ErrInvalidSession = errors.New("session: invalid")
)

// DefaultTTL is the inactivity window after which a session may be swept
// (Firestore TTL should be configured on expiresAt).
const DefaultTTL = 24 * time.Hour

// ShopperSession is what the storefront remembers between requests:
// the chosen store context and the ids of the current cart and order.
//
//   - ID is the session key (Firebase uid or an issued uuid)
//   - ExpiresAt is refreshed on every mutation
type ShopperSession struct {
	ID      string        `json:"id" firestore:"id"`
	UID     string        `json:"uid,omitempty" firestore:"uid"`
	CartID  string        `json:"cartId,omitempty" firestore:"cartId"`
	OrderID string        `json:"orderId,omitempty" firestore:"orderId"`
	Context scdom.Context `json:"context" firestore:"context"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// New creates a session with ctx as its starting store context.
func New(id, uid string, ctx scdom.Context, now time.Time, ttl time.Duration) (*ShopperSession, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &ShopperSession{
		ID:        strings.TrimSpace(id),
		UID:       strings.TrimSpace(uid),
		Context:   ctx,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if s.ID == "" {
		return nil, ErrInvalidSession
	}
	return s, nil
}

// WithContext switches the store context.
// A cart is priced in one context, so changing it drops the cart reference.
func (s *ShopperSession) WithContext(ctx scdom.Context, now time.Time, ttl time.Duration) {
	if s.Context != ctx {
		s.CartID = ""
	}
	s.Context = ctx
	s.touch(now, ttl)
}

func (s *ShopperSession) AttachCart(cartID string, now time.Time, ttl time.Duration) {
	s.CartID = strings.TrimSpace(cartID)
	s.touch(now, ttl)
}

// AttachOrder records a placed order; its cart is consumed.
func (s *ShopperSession) AttachOrder(orderID string, now time.Time, ttl time.Duration) {
	s.OrderID = strings.TrimSpace(orderID)
	s.CartID = ""
	s.touch(now, ttl)
}

// Expired reports whether the session is past its TTL at now.
func (s *ShopperSession) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}

func (s *ShopperSession) touch(now time.Time, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}
