// internal/domain/cart/actions.go
package cart

import (
	"strings"

	vdom "storefront/internal/domain/variant"
)

// Action is one cart update action. Adapters serialize it with its Name.
type Action interface {
	Name() string
}

// CustomFields attaches a custom type to a new line item.
type CustomFields struct {
	TypeKey string            `json:"typeKey"`
	Fields  map[string]string `json:"fields"`
}

func (c *CustomFields) valid() bool {
	return c != nil && strings.TrimSpace(c.TypeKey) != "" && len(c.Fields) > 0
}

type AddLineItem struct {
	ProductID string
	VariantID string
	Quantity  int64
	Custom    *CustomFields
}

func (AddLineItem) Name() string { return "addLineItem" }

type ChangeLineItemQuantity struct {
	LineItemID string
	Quantity   int64
	// ExternalPrice is resent for ExternalPrice line items.
	ExternalPrice *vdom.Money
}

func (ChangeLineItemQuantity) Name() string { return "changeLineItemQuantity" }

type RemoveLineItem struct {
	LineItemID string
}

func (RemoveLineItem) Name() string { return "removeLineItem" }

// NewAddLineItem validates an add request. Custom fields are dropped unless complete.
func NewAddLineItem(productID, variantID string, qty int64, custom *CustomFields) (AddLineItem, error) {
	pid := strings.TrimSpace(productID)
	vid := strings.TrimSpace(variantID)
	if pid == "" || vid == "" {
		return AddLineItem{}, ErrInvalidCart
	}
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return AddLineItem{}, ErrInvalidQuantity
	}
	a := AddLineItem{ProductID: pid, VariantID: vid, Quantity: qty}
	if custom.valid() {
		a.Custom = custom
	}
	return a, nil
}

// ChangeQuantity builds the action that moves li by delta units.
// Reaching zero removes the line item.
func ChangeQuantity(li LineItem, delta int64) Action {
	next := li.Quantity + delta
	if next <= 0 {
		return RemoveLineItem{LineItemID: li.ID}
	}
	a := ChangeLineItemQuantity{LineItemID: li.ID, Quantity: next}
	if li.PriceMode == PriceModeExternal {
		p := li.Price.Value
		a.ExternalPrice = &p
	}
	return a
}
