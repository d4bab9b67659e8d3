// internal/domain/cart/repository_port.go
package cart

import (
	"context"
	"errors"

	scdom "storefront/internal/domain/storecontext"
)

var ErrNotFound = errors.New("cart: not found")

// Repository is the platform cart API.
//
// Carts live on the commerce platform, not in our storage; the shopper session only
// remembers the cart id. Every update carries the version read last, and the
// platform rejects stale versions with 409.
type Repository interface {
	// Get returns ErrNotFound when the cart no longer exists (ordered, expired).
	Get(ctx context.Context, id string) (*Cart, error)

	// Create opens an empty cart priced in sc (currency, country, channel, group, store).
	Create(ctx context.Context, sc scdom.Context) (*Cart, error)

	Update(ctx context.Context, id string, version int64, actions ...Action) (*Cart, error)
}
