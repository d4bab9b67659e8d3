// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"

	vdom "storefront/internal/domain/variant"
)

var (
	ErrInvalidCart      = errors.New("cart: invalid")
	ErrLineItemNotFound = errors.New("cart: line item not found")
	ErrInvalidQuantity  = errors.New("cart: quantity must be >= 1")
	ErrCurrencyRequired = errors.New("cart: currency must be selected before adding to cart")
)

// PriceModeExternal marks line items whose price was set by the caller.
// Quantity changes must resend that price or the platform falls back to its own.
const PriceModeExternal = "ExternalPrice"

// IncludedDiscount is one discount's share of a discounted unit price.
type IncludedDiscount struct {
	DiscountID string     `json:"discountId"`
	Amount     vdom.Money `json:"amount"`
}

// DiscountedQuantity is a run of units sharing the same discounted price.
type DiscountedQuantity struct {
	Quantity          int64              `json:"quantity"`
	Value             vdom.Money         `json:"value"`
	IncludedDiscounts []IncludedDiscount `json:"includedDiscounts,omitempty"`
}

// LineItem is one product variant in a cart or order.
type LineItem struct {
	ID         string     `json:"id"`
	ProductID  string     `json:"productId"`
	VariantID  string     `json:"variantId"`
	SKU        string     `json:"sku,omitempty"`
	Name       string     `json:"name"`
	Quantity   int64      `json:"quantity"`
	PriceMode  string     `json:"priceMode,omitempty"`
	Price      vdom.Price `json:"price"`
	TotalPrice vdom.Money `json:"totalPrice"`

	DiscountedPerQuantity []DiscountedQuantity `json:"discountedPricePerQuantity,omitempty"`
}

// Discount is the total discount applied to the line item.
func (li LineItem) Discount() int64 {
	var total int64
	for _, d := range li.DiscountedPerQuantity {
		for _, inc := range d.IncludedDiscounts {
			total += inc.Amount.CentAmount * d.Quantity
		}
	}
	return total
}

// Cart is the platform cart as the storefront sees it.
// Version is the optimistic concurrency token required by every update.
type Cart struct {
	ID         string     `json:"id"`
	Version    int64      `json:"version"`
	Currency   string     `json:"currency"`
	Country    string     `json:"country,omitempty"`
	State      string     `json:"cartState,omitempty"`
	LineItems  []LineItem `json:"lineItems"`
	TotalPrice vdom.Money `json:"totalPrice"`
}

// FindLineItem returns the line item with id.
func (c *Cart) FindLineItem(id string) (LineItem, error) {
	if c == nil {
		return LineItem{}, ErrInvalidCart
	}
	id = strings.TrimSpace(id)
	for _, li := range c.LineItems {
		if li.ID == id {
			return li, nil
		}
	}
	return LineItem{}, ErrLineItemNotFound
}

// TotalDiscount sums included discounts across every line item, in the cart currency.
func (c *Cart) TotalDiscount() vdom.Money {
	if c == nil {
		return vdom.Money{}
	}
	out := vdom.Money{CurrencyCode: c.Currency, FractionDigits: c.TotalPrice.FractionDigits}
	for _, li := range c.LineItems {
		out.CentAmount += li.Discount()
	}
	if out.FractionDigits == 0 && len(c.LineItems) > 0 {
		out.FractionDigits = c.LineItems[0].Price.Value.FractionDigits
	}
	return out
}

// TotalQuantity is the number of units across line items.
func (c *Cart) TotalQuantity() int64 {
	if c == nil {
		return 0
	}
	var n int64
	for _, li := range c.LineItems {
		n += li.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool { return c == nil || len(c.LineItems) == 0 }
