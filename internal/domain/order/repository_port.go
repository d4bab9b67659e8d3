// internal/domain/order/repository_port.go
package order

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("order: not found")
	ErrConflict = errors.New("order: conflict")
)

// Repository is the platform order API.
type Repository interface {
	// Place creates an order from cartID at cartVersion.
	// ErrConflict when the cart changed since it was read.
	Place(ctx context.Context, cartID string, cartVersion int64) (*Order, error)

	// Get returns the order with line item variants and discounts expanded.
	Get(ctx context.Context, id string) (*Order, error)
}
