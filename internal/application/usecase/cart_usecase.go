// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
	sessiondom "storefront/internal/domain/session"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartNotFound        = errors.New("cart_usecase: not found")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CartUsecase coordinates cart operations for the session's current cart.
// The cart itself lives on the commerce platform; the session mirrors its id.
type CartUsecase struct {
	repo     cartdom.Repository
	sessions *SessionUsecase
}

func NewCartUsecase(repo cartdom.Repository, sessions *SessionUsecase) *CartUsecase {
	return &CartUsecase{repo: repo, sessions: sessions}
}

// Get returns the session's cart.
// If there is no cart (or it is gone on the platform), returns (nil, ErrCartNotFound).
func (uc *CartUsecase) Get(ctx context.Context, sessionID string) (*cartdom.Cart, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.current(ctx, s)
}

// AddItem adds qty of a variant, creating the cart in the session's context when needed.
func (uc *CartUsecase) AddItem(
	ctx context.Context,
	sessionID, productID, variantID string,
	qty int64,
	custom *cartdom.CustomFields,
) (*cartdom.Cart, error) {
	action, err := cartdom.NewAddLineItem(productID, variantID, qty, custom)
	if err != nil {
		return nil, err
	}

	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.Context.CanAddToCart() {
		return nil, cartdom.ErrCurrencyRequired
	}

	c, err := uc.current(ctx, s)
	if errors.Is(err, ErrCartNotFound) {
		c, err = uc.repo.Create(ctx, s.Context)
		if err != nil {
			return nil, err
		}
		if err := uc.sessions.AttachCart(ctx, s, c.ID); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return uc.repo.Update(ctx, c.ID, c.Version, action)
}

// ChangeQuantity moves a line item's quantity by delta (+1 / -1 from the cart page).
// Reaching zero removes the line item.
func (uc *CartUsecase) ChangeQuantity(ctx context.Context, sessionID, lineItemID string, delta int64) (*cartdom.Cart, error) {
	if strings.TrimSpace(lineItemID) == "" || delta == 0 {
		return nil, ErrCartInvalidArgument
	}
	c, err := uc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	li, err := c.FindLineItem(lineItemID)
	if err != nil {
		return nil, err
	}
	return uc.repo.Update(ctx, c.ID, c.Version, cartdom.ChangeQuantity(li, delta))
}

// RemoveItem drops a line item.
func (uc *CartUsecase) RemoveItem(ctx context.Context, sessionID, lineItemID string) (*cartdom.Cart, error) {
	if strings.TrimSpace(lineItemID) == "" {
		return nil, ErrCartInvalidArgument
	}
	c, err := uc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	li, err := c.FindLineItem(lineItemID)
	if err != nil {
		return nil, err
	}
	return uc.repo.Update(ctx, c.ID, c.Version, cartdom.RemoveLineItem{LineItemID: li.ID})
}

func (uc *CartUsecase) current(ctx context.Context, s *sessiondom.ShopperSession) (*cartdom.Cart, error) {
	if strings.TrimSpace(s.CartID) == "" {
		return nil, ErrCartNotFound
	}
	c, err := uc.repo.Get(ctx, s.CartID)
	if errors.Is(err, cartdom.ErrNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
