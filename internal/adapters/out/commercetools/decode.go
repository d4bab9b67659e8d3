// internal/adapters/out/commercetools/decode.go
package commercetools

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

// decoder turns platform JSON into domain values. Attribute values are tagged here,
// once: objects carrying a "key" become Enumerated, everything else Text, unless the
// product type declares the axis as an enum (plain-string keys). Number-typed
// attributes become numeric Text so predicates can send them unquoted.
type decoder struct {
	locale     string
	selectable map[vdom.Axis]int // axis -> configured position
}

func newDecoder(locale string, axes []string) decoder {
	d := decoder{locale: strings.TrimSpace(locale), selectable: map[vdom.Axis]int{}}
	if d.locale == "" {
		d.locale = "en"
	}
	for _, a := range axes {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := d.selectable[vdom.Axis(a)]; !ok {
			d.selectable[vdom.Axis(a)] = len(d.selectable)
		}
	}
	return d
}

// localized picks the shopper locale, then "en", then any value.
func (d decoder) localized(r gjson.Result) string {
	if !r.Exists() {
		return ""
	}
	if r.Type == gjson.String {
		return r.String()
	}
	if !r.IsObject() {
		return r.String()
	}
	var exact, en, first string
	r.ForEach(func(k, v gjson.Result) bool {
		s := v.String()
		if s == "" {
			return true
		}
		switch k.String() {
		case d.locale:
			exact = s
		case "en":
			en = s
		}
		if first == "" {
			first = s
		}
		return true
	})
	switch {
	case exact != "":
		return exact
	case en != "":
		return en
	}
	return first
}

func variantID(r gjson.Result) string {
	if v := r.Get("id.variantId"); v.Exists() {
		return v.String()
	}
	if v := r.Get("variantId"); v.Exists() {
		return v.String()
	}
	return r.Get("id").String()
}

func productID(r gjson.Result) string {
	if v := r.Get("product.id"); v.Exists() {
		return v.String()
	}
	return r.Get("productId").String()
}

func money(r gjson.Result) vdom.Money {
	return vdom.Money{
		CurrencyCode:   r.Get("currencyCode").String(),
		CentAmount:     r.Get("centAmount").Int(),
		FractionDigits: int(r.Get("fractionDigits").Int()),
	}
}

func (d decoder) price(r gjson.Result) *vdom.Price {
	if !r.Exists() || !r.Get("value").Exists() {
		return nil
	}
	p := &vdom.Price{ID: r.Get("id").String(), Value: money(r.Get("value"))}
	if disc := r.Get("discounted"); disc.Exists() {
		m := money(disc.Get("value"))
		p.Discounted = &m
		p.DiscountID = disc.Get("discount.id").String()
	}
	return p
}

// availability projects the record onto channelID when the variant carries a
// per-channel entry for it.
func availability(r gjson.Result, channelID string) *vdom.Availability {
	if !r.Exists() {
		return nil
	}
	if channelID != "" {
		var ch gjson.Result
		r.Get("channels").ForEach(func(k, v gjson.Result) bool {
			if k.String() == channelID {
				ch = v
				return false
			}
			return true
		})
		if ch.Exists() {
			r = ch
		}
	}
	a := &vdom.Availability{IsOnStock: r.Get("isOnStock").Bool()}
	if q := r.Get("availableQuantity"); q.Exists() {
		a.AvailableQuantity = vdom.Quantity(q.Int())
	}
	return a
}

func (d decoder) images(r gjson.Result) []vdom.Image {
	var out []vdom.Image
	r.ForEach(func(_, img gjson.Result) bool {
		out = append(out, vdom.Image{
			URL:    img.Get("url").String(),
			Label:  img.Get("label").String(),
			Width:  int(img.Get("dimensions.w").Int()),
			Height: int(img.Get("dimensions.h").Int()),
		})
		return true
	})
	return out
}

// axisValue tags one raw attribute value.
func (d decoder) axisValue(raw gjson.Result, def *vdom.AxisDefinition) vdom.AxisValue {
	switch {
	case raw.IsObject() && raw.Get("key").Exists():
		key := raw.Get("key").String()
		label := d.localized(raw.Get("label"))
		if label == "" && def != nil {
			label = def.Label(key)
		}
		return vdom.Enumerated(key, label)
	case def != nil && def.Kind == vdom.KindEnumerated:
		key := raw.String()
		return vdom.Enumerated(key, def.Label(key))
	case raw.IsObject():
		// ltext
		return vdom.Text(d.localized(raw))
	case def != nil && def.Numeric:
		return vdom.Number(raw.String())
	case raw.Type == gjson.Number && def == nil:
		return vdom.Number(raw.Raw)
	case raw.Type == gjson.Number:
		// declared as text: keep the literal form ("8", "8.5")
		return vdom.Text(raw.Raw)
	default:
		return vdom.Text(raw.String())
	}
}

// variant decodes one standalone variant projection.
func (d decoder) variant(r gjson.Result, defs map[vdom.Axis]vdom.AxisDefinition, sc scdom.Context) vdom.Variant {
	v := vdom.Variant{
		ProductID:   productID(r),
		ID:          variantID(r),
		SKU:         r.Get("sku").String(),
		Key:         r.Get("key").String(),
		Name:        d.localized(r.Get("name")),
		Description: d.localized(r.Get("description")),
		Attributes:  map[vdom.Axis]vdom.AxisValue{},
	}

	r.Get("attributes").ForEach(func(_, a gjson.Result) bool {
		axis := vdom.Axis(a.Get("name").String())
		if _, ok := d.selectable[axis]; !ok {
			if _, declared := defs[axis]; !declared {
				return true
			}
		}
		var def *vdom.AxisDefinition
		if dd, ok := defs[axis]; ok {
			def = &dd
		}
		if val := d.axisValue(a.Get("value"), def); !val.IsZero() {
			v.Attributes[axis] = val
		}
		return true
	})

	v.Price = d.price(r.Get("price"))
	if v.Price == nil {
		v.Price = d.price(r.Get("currentPrice"))
	}
	v.Images = d.images(r.Get("images"))
	v.Availability = availability(r.Get("availability"), sc.ChannelID)
	return v
}

// axisDefinitions reads the selectable axes declared by a product type, in the
// configured axis order.
func (d decoder) axisDefinitions(pt gjson.Result) []vdom.AxisDefinition {
	out := make([]vdom.AxisDefinition, len(d.selectable))
	found := make([]bool, len(out))
	pt.Get("attributes").ForEach(func(_, a gjson.Result) bool {
		name := vdom.Axis(a.Get("name").String())
		idx, ok := d.selectable[name]
		if !ok {
			return true
		}
		def := vdom.AxisDefinition{Name: name, Kind: vdom.KindText}
		typ := a.Get("type")
		if typ.Get("name").String() == "set" {
			typ = typ.Get("elementType")
		}
		switch typ.Get("name").String() {
		case "number":
			def.Numeric = true
		case "enum", "lenum":
			def.Kind = vdom.KindEnumerated
			typ.Get("values").ForEach(func(_, o gjson.Result) bool {
				key := o.Get("key").String()
				label := d.localized(o.Get("label"))
				if label == "" {
					label = key
				}
				def.Options = append(def.Options, vdom.EnumOption{Key: key, Label: label})
				return true
			})
		}
		out[idx] = def
		found[idx] = true
		return true
	})

	defs := make([]vdom.AxisDefinition, 0, len(out))
	for i, def := range out {
		if found[i] {
			defs = append(defs, def)
		}
	}
	return defs
}

func defsByAxis(defs []vdom.AxisDefinition) map[vdom.Axis]vdom.AxisDefinition {
	m := make(map[vdom.Axis]vdom.AxisDefinition, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return m
}

// ==========================
// Cart / Order
// ==========================

func (d decoder) lineItem(r gjson.Result) cartdom.LineItem {
	li := cartdom.LineItem{
		ID:         r.Get("id").String(),
		ProductID:  r.Get("productId").String(),
		VariantID:  r.Get("variant.id").String(),
		SKU:        r.Get("variant.sku").String(),
		Name:       d.localized(r.Get("name")),
		Quantity:   r.Get("quantity").Int(),
		PriceMode:  r.Get("priceMode").String(),
		TotalPrice: money(r.Get("totalPrice")),
	}
	if p := d.price(r.Get("price")); p != nil {
		li.Price = *p
	}
	if li.Name == "" {
		li.Name = li.ProductID
	}
	r.Get("discountedPricePerQuantity").ForEach(func(_, dq gjson.Result) bool {
		q := cartdom.DiscountedQuantity{
			Quantity: dq.Get("quantity").Int(),
			Value:    money(dq.Get("discountedPrice.value")),
		}
		dq.Get("discountedPrice.includedDiscounts").ForEach(func(_, inc gjson.Result) bool {
			q.IncludedDiscounts = append(q.IncludedDiscounts, cartdom.IncludedDiscount{
				DiscountID: inc.Get("discount.id").String(),
				Amount:     money(inc.Get("discountedAmount")),
			})
			return true
		})
		li.DiscountedPerQuantity = append(li.DiscountedPerQuantity, q)
		return true
	})
	return li
}

func (d decoder) lineItems(r gjson.Result) []cartdom.LineItem {
	out := []cartdom.LineItem{}
	r.ForEach(func(_, li gjson.Result) bool {
		out = append(out, d.lineItem(li))
		return true
	})
	return out
}

func (d decoder) cart(r gjson.Result) *cartdom.Cart {
	total := money(r.Get("totalPrice"))
	return &cartdom.Cart{
		ID:         r.Get("id").String(),
		Version:    r.Get("version").Int(),
		Currency:   total.CurrencyCode,
		Country:    r.Get("country").String(),
		State:      r.Get("cartState").String(),
		LineItems:  d.lineItems(r.Get("lineItems")),
		TotalPrice: total,
	}
}

func (d decoder) order(r gjson.Result) *orderdom.Order {
	total := money(r.Get("totalPrice"))
	o := &orderdom.Order{
		ID:          r.Get("id").String(),
		Version:     r.Get("version").Int(),
		OrderNumber: r.Get("orderNumber").String(),
		State:       r.Get("orderState").String(),
		Currency:    total.CurrencyCode,
		LineItems:   d.lineItems(r.Get("lineItems")),
		TotalPrice:  total,
	}
	if t, err := time.Parse(time.RFC3339, r.Get("createdAt").String()); err == nil {
		o.CreatedAt = t
	}

	// expanded discount references
	r.Get("lineItems.#.discountedPricePerQuantity.#.discountedPrice.includedDiscounts.#.discount").ForEach(func(_, lvl1 gjson.Result) bool {
		lvl1.ForEach(func(_, lvl2 gjson.Result) bool {
			lvl2.ForEach(func(_, ref gjson.Result) bool {
				id := ref.Get("id").String()
				if id == "" || !ref.Get("obj").Exists() {
					return true
				}
				if o.Discounts == nil {
					o.Discounts = map[string]orderdom.Discount{}
				}
				o.Discounts[id] = orderdom.Discount{ID: id, Name: d.localized(ref.Get("obj.name"))}
				return true
			})
			return true
		})
		return true
	})
	return o
}
