// internal/application/usecase/session_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sessiondom "storefront/internal/domain/session"
	scdom "storefront/internal/domain/storecontext"
)

var (
	ErrSessionInvalidArgument = errors.New("session_usecase: invalid argument")
	ErrSessionNotFound        = errors.New("session_usecase: not found")
)

// SessionUsecase owns the shopper session lifecycle: resolve-or-create, store context
// changes and the cart/order ids the other usecases mirror into it.
type SessionUsecase struct {
	repo            sessiondom.Repository
	clock           Clock
	ttl             time.Duration
	defaultCurrency string
	newID           func() string
}

func NewSessionUsecase(repo sessiondom.Repository, ttl time.Duration, defaultCurrency string) *SessionUsecase {
	return NewSessionUsecaseWithClock(repo, ttl, defaultCurrency, nil)
}

// NewSessionUsecaseWithClock is useful for tests.
func NewSessionUsecaseWithClock(repo sessiondom.Repository, ttl time.Duration, defaultCurrency string, clock Clock) *SessionUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if ttl <= 0 {
		ttl = sessiondom.DefaultTTL
	}
	return &SessionUsecase{
		repo:            repo,
		clock:           clock,
		ttl:             ttl,
		defaultCurrency: strings.ToUpper(strings.TrimSpace(defaultCurrency)),
		newID:           uuid.NewString,
	}
}

// Resolve returns the live session for the request.
// A verified uid wins over the client supplied id; with neither, a new id is issued.
// Missing or expired sessions are recreated with the default context.
func (uc *SessionUsecase) Resolve(ctx context.Context, sessionID, uid string) (*sessiondom.ShopperSession, error) {
	uid = strings.TrimSpace(uid)
	key := uid
	if key == "" {
		key = strings.TrimSpace(sessionID)
	}
	if key == "" {
		key = uc.newID()
	}

	now := uc.clock.Now()
	if s, err := uc.repo.GetByID(ctx, key); err != nil {
		return nil, err
	} else if s != nil && !s.Expired(now) {
		return s, nil
	}

	s, err := sessiondom.New(key, uid, scdom.Context{}.WithDefaults(uc.defaultCurrency), now, uc.ttl)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get loads an existing session.
func (uc *SessionUsecase) Get(ctx context.Context, sessionID string) (*sessiondom.ShopperSession, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrSessionInvalidArgument
	}
	s, err := uc.repo.GetByID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Expired(uc.clock.Now()) {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Context returns the session's store context.
func (uc *SessionUsecase) Context(ctx context.Context, sessionID string) (scdom.Context, error) {
	s, err := uc.Get(ctx, sessionID)
	if err != nil {
		return scdom.Context{}, err
	}
	return s.Context.WithDefaults(uc.defaultCurrency), nil
}

// UpdateContext applies u to the session's context.
// A different context drops the session's cart (carts are priced in one context).
func (uc *SessionUsecase) UpdateContext(ctx context.Context, sessionID string, u scdom.Update) (scdom.Context, error) {
	s, err := uc.Get(ctx, sessionID)
	if err != nil {
		return scdom.Context{}, err
	}
	next, err := s.Context.Apply(u)
	if err != nil {
		return scdom.Context{}, err
	}
	next = next.WithDefaults(uc.defaultCurrency)

	s.WithContext(next, uc.clock.Now(), uc.ttl)
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return scdom.Context{}, err
	}
	return next, nil
}

// AttachCart remembers cartID as the session's current cart.
func (uc *SessionUsecase) AttachCart(ctx context.Context, s *sessiondom.ShopperSession, cartID string) error {
	if s == nil {
		return ErrSessionInvalidArgument
	}
	s.AttachCart(cartID, uc.clock.Now(), uc.ttl)
	return uc.repo.Upsert(ctx, s)
}

// AttachOrder remembers orderID and forgets the consumed cart.
func (uc *SessionUsecase) AttachOrder(ctx context.Context, s *sessiondom.ShopperSession, orderID string) error {
	if s == nil {
		return ErrSessionInvalidArgument
	}
	s.AttachOrder(orderID, uc.clock.Now(), uc.ttl)
	return uc.repo.Upsert(ctx, s)
}

// Sweep deletes expired sessions.
func (uc *SessionUsecase) Sweep(ctx context.Context) (int, error) {
	return uc.repo.DeleteExpired(ctx, uc.clock.Now())
}
