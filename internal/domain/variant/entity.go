// internal/domain/variant/entity.go
package variant

import (
	"errors"
	"strings"
)

var (
	ErrProductIDRequired    = errors.New("variant: productId is required")
	ErrVariationIDRequired  = errors.New("variant: variantId is required")
	ErrProductMismatch      = errors.New("variant: variant.productId mismatch")
	ErrDuplicateVariationID = errors.New("variant: duplicate variant id")
	ErrEmptySelection       = errors.New("variant: selection has no values")
	ErrVariantNotInMatrix   = errors.New("variant: variant not in matrix")
	ErrNoRecovery           = errors.New("variant: no recovery variant offered")
)

// ==========================
// Types
// ==========================

// Money is an amount in minor units.
type Money struct {
	CurrencyCode   string `json:"currencyCode"`
	CentAmount     int64  `json:"centAmount"`
	FractionDigits int    `json:"fractionDigits"`
}

// Price is the price selected for the current store context.
type Price struct {
	ID         string `json:"id,omitempty"`
	Value      Money  `json:"value"`
	Discounted *Money `json:"discounted,omitempty"`
	DiscountID string `json:"discountId,omitempty"`
}

// Effective is the amount a shopper pays.
func (p Price) Effective() Money {
	if p.Discounted != nil {
		return *p.Discounted
	}
	return p.Value
}

type Image struct {
	URL    string `json:"url"`
	Label  string `json:"label,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Availability is a stock record. AvailableQuantity nil means the quantity is not tracked.
type Availability struct {
	IsOnStock         bool   `json:"isOnStock"`
	AvailableQuantity *int64 `json:"availableQuantity,omitempty"`
}

// Variant is one concrete sellable configuration of a product.
type Variant struct {
	ProductID    string
	ID           string
	SKU          string
	Key          string
	Name         string
	Description  string
	Attributes   map[Axis]AxisValue
	Availability *Availability
	Price        *Price
	Images       []Image
}

// ==========================
// Behavior
// ==========================

// Value returns the variant's value on axis (zero value when unassigned).
func (v Variant) Value(axis Axis) AxisValue {
	if v.Attributes == nil {
		return AxisValue{}
	}
	return v.Attributes[axis]
}

// Has reports whether the variant assigns a non-empty value to axis.
func (v Variant) Has(axis Axis) bool {
	return !v.Value(axis).IsZero()
}

// InStock applies the stock rule: tracked quantity > 0, otherwise the stock flag.
// No record at all means unknown, which counts as available.
func (v Variant) InStock() bool {
	a := v.Availability
	if a == nil {
		return true
	}
	if a.AvailableQuantity != nil {
		return *a.AvailableQuantity > 0
	}
	return a.IsOnStock
}

// SameAs compares identity (product + variant id).
func (v Variant) SameAs(o Variant) bool {
	return v.ProductID == o.ProductID && v.ID == o.ID
}

func (v Variant) validate() error {
	if strings.TrimSpace(v.ProductID) == "" {
		return ErrProductIDRequired
	}
	if strings.TrimSpace(v.ID) == "" {
		return ErrVariationIDRequired
	}
	return nil
}

// assignedAxes counts the non-empty attribute values.
func (v Variant) assignedAxes() int {
	n := 0
	for _, val := range v.Attributes {
		if !val.IsZero() {
			n++
		}
	}
	return n
}

// Quantity is a helper for building availability records.
func Quantity(n int64) *int64 { return &n }
