// internal/application/query/mall/dto/cart_dto.go
package dto

import (
	"sort"
	"time"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
	vdom "storefront/internal/domain/variant"
)

// CartDTO is the response shape for the cart screen.
type CartDTO struct {
	ID            string        `json:"id"`
	Version       int64         `json:"version"`
	Currency      string        `json:"currency"`
	Country       string        `json:"country,omitempty"`
	LineItems     []LineItemDTO `json:"lineItems"`
	TotalPrice    MoneyDTO      `json:"totalPrice"`
	TotalDiscount MoneyDTO      `json:"totalDiscount"`
	TotalQuantity int64         `json:"totalQuantity"`
}

type LineItemDTO struct {
	ID         string   `json:"id"`
	ProductID  string   `json:"productId"`
	VariantID  string   `json:"variantId"`
	SKU        string   `json:"sku,omitempty"`
	Name       string   `json:"name"`
	Quantity   int64    `json:"quantity"`
	PriceMode  string   `json:"priceMode,omitempty"`
	Price      PriceDTO `json:"price"`
	TotalPrice MoneyDTO `json:"totalPrice"`
	// Discount is the total of included discounts on this line.
	Discount MoneyDTO `json:"discount"`
}

func lineItems(items []cartdom.LineItem, currency string) []LineItemDTO {
	out := make([]LineItemDTO, 0, len(items))
	for _, li := range items {
		p := li.Price
		out = append(out, LineItemDTO{
			ID:         li.ID,
			ProductID:  li.ProductID,
			VariantID:  li.VariantID,
			SKU:        li.SKU,
			Name:       li.Name,
			Quantity:   li.Quantity,
			PriceMode:  li.PriceMode,
			Price:      *Price(&p),
			TotalPrice: Money(li.TotalPrice),
			Discount: Money(vdom.Money{
				CurrencyCode:   currency,
				CentAmount:     li.Discount(),
				FractionDigits: li.TotalPrice.FractionDigits,
			}),
		})
	}
	return out
}

func Cart(c *cartdom.Cart) CartDTO {
	if c == nil {
		return CartDTO{LineItems: []LineItemDTO{}}
	}
	return CartDTO{
		ID:            c.ID,
		Version:       c.Version,
		Currency:      c.Currency,
		Country:       c.Country,
		LineItems:     lineItems(c.LineItems, c.Currency),
		TotalPrice:    Money(c.TotalPrice),
		TotalDiscount: Money(c.TotalDiscount()),
		TotalQuantity: c.TotalQuantity(),
	}
}

// OrderDTO is the order confirmation view.
type OrderDTO struct {
	ID            string              `json:"id"`
	OrderNumber   string              `json:"orderNumber,omitempty"`
	State         string              `json:"orderState"`
	Currency      string              `json:"currency"`
	LineItems     []LineItemDTO       `json:"lineItems"`
	TotalPrice    MoneyDTO            `json:"totalPrice"`
	TotalDiscount MoneyDTO            `json:"totalDiscount"`
	Discounts     []orderdom.Discount `json:"discounts,omitempty"`
	CreatedAt     *time.Time          `json:"createdAt,omitempty"`
}

func Order(o *orderdom.Order) OrderDTO {
	if o == nil {
		return OrderDTO{LineItems: []LineItemDTO{}}
	}
	out := OrderDTO{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		State:         o.State,
		Currency:      o.Currency,
		LineItems:     lineItems(o.LineItems, o.Currency),
		TotalPrice:    Money(o.TotalPrice),
		TotalDiscount: Money(o.TotalDiscount()),
	}
	for _, d := range o.Discounts {
		out.Discounts = append(out.Discounts, d)
	}
	sort.Slice(out.Discounts, func(i, j int) bool { return out.Discounts[i].ID < out.Discounts[j].ID })
	if !o.CreatedAt.IsZero() {
		t := o.CreatedAt
		out.CreatedAt = &t
	}
	return out
}
