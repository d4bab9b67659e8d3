// internal/domain/order/entity.go
package order

import (
	"errors"
	"time"

	cartdom "storefront/internal/domain/cart"
	vdom "storefront/internal/domain/variant"
)

var (
	ErrCartEmpty    = errors.New("order: cart has no line items")
	ErrNoCart       = errors.New("order: no current cart")
	ErrNoOrder      = errors.New("order: no current order")
	ErrInvalidOrder = errors.New("order: invalid")
)

// Order is a placed cart. Line items reuse the cart shape; the view expands
// each line item's variant and discount references.
type Order struct {
	ID          string              `json:"id"`
	Version     int64               `json:"version"`
	OrderNumber string              `json:"orderNumber,omitempty"`
	State       string              `json:"orderState"`
	Currency    string              `json:"currency"`
	LineItems   []cartdom.LineItem  `json:"lineItems"`
	TotalPrice  vdom.Money          `json:"totalPrice"`
	Discounts   map[string]Discount `json:"discounts,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// Discount is an expanded cart discount reference.
type Discount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TotalDiscount mirrors Cart.TotalDiscount.
func (o *Order) TotalDiscount() vdom.Money {
	if o == nil {
		return vdom.Money{}
	}
	c := cartdom.Cart{Currency: o.Currency, LineItems: o.LineItems, TotalPrice: o.TotalPrice}
	return c.TotalDiscount()
}

// CanPlace checks the cart before turning it into an order.
func CanPlace(c *cartdom.Cart) error {
	if c == nil {
		return ErrNoCart
	}
	if c.IsEmpty() {
		return ErrCartEmpty
	}
	return nil
}
