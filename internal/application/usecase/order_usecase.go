// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/infra/logging"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
)

// OrderUsecase places the session's cart and shows the resulting order.
type OrderUsecase struct {
	carts    cartdom.Repository
	orders   orderdom.Repository
	sessions *SessionUsecase

	listeners []orderdom.PlacedListener
	log       logrus.FieldLogger
}

func NewOrderUsecase(carts cartdom.Repository, orders orderdom.Repository, sessions *SessionUsecase) *OrderUsecase {
	return &OrderUsecase{carts: carts, orders: orders, sessions: sessions, log: logging.Discard()}
}

// WithListeners registers best-effort order placed hooks (confirmation mail, receipt archive).
// nil listeners are skipped.
func (u *OrderUsecase) WithListeners(log logrus.FieldLogger, ls ...orderdom.PlacedListener) *OrderUsecase {
	if log != nil {
		u.log = log
	}
	for _, l := range ls {
		if l != nil {
			u.listeners = append(u.listeners, l)
		}
	}
	return u
}

// =======================
// Commands
// =======================

// Place turns the current cart into an order. The cart version read here is sent
// along, so a cart changed in between is rejected with ErrConflict (no retry).
func (u *OrderUsecase) Place(ctx context.Context, sessionID string) (*orderdom.Order, error) {
	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.CartID) == "" {
		return nil, orderdom.ErrNoCart
	}

	c, err := u.carts.Get(ctx, s.CartID)
	if errors.Is(err, cartdom.ErrNotFound) {
		return nil, orderdom.ErrNoCart
	}
	if err != nil {
		return nil, err
	}
	if err := orderdom.CanPlace(c); err != nil {
		return nil, err
	}

	o, err := u.orders.Place(ctx, c.ID, c.Version)
	if err != nil {
		return nil, err
	}
	if err := u.sessions.AttachOrder(ctx, s, o.ID); err != nil {
		return nil, err
	}
	u.notifyPlaced(ctx, o)
	return o, nil
}

func (u *OrderUsecase) notifyPlaced(ctx context.Context, o *orderdom.Order) {
	email := EmailFromContext(ctx)
	for _, l := range u.listeners {
		if err := l.OrderPlaced(ctx, o, email); err != nil {
			u.log.WithError(err).WithField("order", o.ID).Warn("[order] placed listener failed")
		}
	}
}

// =======================
// Queries
// =======================

// Current returns the last order placed in this session.
func (u *OrderUsecase) Current(ctx context.Context, sessionID string) (*orderdom.Order, error) {
	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.OrderID) == "" {
		return nil, orderdom.ErrNoOrder
	}
	o, err := u.orders.Get(ctx, s.OrderID)
	if errors.Is(err, orderdom.ErrNotFound) {
		return nil, orderdom.ErrNoOrder
	}
	return o, err
}
