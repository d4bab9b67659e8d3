// internal/application/query/mall/dto/catalog_dto.go
package dto

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	vdom "storefront/internal/domain/variant"
)

// ============================================================
// Money / Price
// ============================================================

// MoneyDTO keeps the platform's minor units and adds a decimal amount for display.
type MoneyDTO struct {
	CurrencyCode   string          `json:"currencyCode"`
	CentAmount     int64           `json:"centAmount"`
	FractionDigits int             `json:"fractionDigits"`
	Amount         decimal.Decimal `json:"amount"`
	Formatted      string          `json:"formatted"`
}

func Money(m vdom.Money) MoneyDTO {
	amt := decimal.New(m.CentAmount, -int32(m.FractionDigits))
	f := amt.StringFixed(int32(m.FractionDigits))
	if m.CurrencyCode != "" {
		f = m.CurrencyCode + " " + f
	}
	return MoneyDTO{
		CurrencyCode:   m.CurrencyCode,
		CentAmount:     m.CentAmount,
		FractionDigits: m.FractionDigits,
		Amount:         amt,
		Formatted:      f,
	}
}

type PriceDTO struct {
	Value      MoneyDTO  `json:"value"`
	Discounted *MoneyDTO `json:"discounted,omitempty"`
	Effective  MoneyDTO  `json:"effective"`
	DiscountID string    `json:"discountId,omitempty"`
}

func Price(p *vdom.Price) *PriceDTO {
	if p == nil {
		return nil
	}
	out := &PriceDTO{
		Value:      Money(p.Value),
		Effective:  Money(p.Effective()),
		DiscountID: p.DiscountID,
	}
	if p.Discounted != nil {
		d := Money(*p.Discounted)
		out.Discounted = &d
	}
	return out
}

// ============================================================
// Variant
// ============================================================

type AxisValueDTO struct {
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Label string `json:"label"`
}

func AxisValue(v vdom.AxisValue) AxisValueDTO {
	return AxisValueDTO{Kind: v.Kind().String(), Key: v.Identity(), Label: v.Label()}
}

type VariantDTO struct {
	ProductID         string                  `json:"productId"`
	ID                string                  `json:"id"`
	SKU               string                  `json:"sku,omitempty"`
	Key               string                  `json:"key,omitempty"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description,omitempty"`
	Attributes        map[string]AxisValueDTO `json:"attributes"`
	InStock           bool                    `json:"inStock"`
	AvailableQuantity *int64                  `json:"availableQuantity,omitempty"`
	Price             *PriceDTO               `json:"price,omitempty"`
	Images            []vdom.Image            `json:"images,omitempty"`
}

func Variant(v vdom.Variant) VariantDTO {
	out := VariantDTO{
		ProductID:   v.ProductID,
		ID:          v.ID,
		SKU:         v.SKU,
		Key:         v.Key,
		Name:        v.Name,
		Description: v.Description,
		Attributes:  make(map[string]AxisValueDTO, len(v.Attributes)),
		InStock:     v.InStock(),
		Price:       Price(v.Price),
		Images:      v.Images,
	}
	for axis, val := range v.Attributes {
		if !val.IsZero() {
			out.Attributes[axis.String()] = AxisValue(val)
		}
	}
	if v.Availability != nil {
		out.AvailableQuantity = v.Availability.AvailableQuantity
	}
	return out
}

func Variants(vs []vdom.Variant) []VariantDTO {
	out := make([]VariantDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, Variant(v))
	}
	return out
}

// ============================================================
// Catalog listing
// ============================================================

// CatalogItemDTO is one product tile: its first variant stands for the product.
type CatalogItemDTO struct {
	ProductID      string     `json:"productId"`
	Name           string     `json:"name"`
	Representative VariantDTO `json:"representative"`
	VariantCount   int        `json:"variantCount"`
	// AxisSummary lists the distinct values per axis across the product's variants.
	AxisSummary map[string][]string `json:"axisSummary,omitempty"`
}

type CatalogDTO struct {
	Search string           `json:"search,omitempty"`
	Items  []CatalogItemDTO `json:"items"`
	Total  int              `json:"total"`
}

// SortedLabels returns the labels in set, sorted.
func SortedLabels(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if strings.TrimSpace(k) != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
