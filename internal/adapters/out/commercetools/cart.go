// internal/adapters/out/commercetools/cart.go
package commercetools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
	scdom "storefront/internal/domain/storecontext"
)

const (
	epCarts  = "carts"
	epOrders = "orders"
)

// order view expands
var orderExpand = []string{
	"lineItems[*].variant",
	"lineItems[*].discountedPricePerQuantity[*].discountedPrice.includedDiscounts[*].discount",
}

// CartRepository implements cart.Repository against the platform cart endpoints.
type CartRepository struct {
	c   *Client
	dec decoder
}

// OrderRepository implements order.Repository.
type OrderRepository struct {
	c   *Client
	dec decoder
}

var (
	_ cartdom.Repository  = (*CartRepository)(nil)
	_ orderdom.Repository = (*OrderRepository)(nil)
)

func NewCartRepository(c *Client, locale string) *CartRepository {
	return &CartRepository{c: c, dec: newDecoder(locale, nil)}
}

func NewOrderRepository(c *Client, locale string) *OrderRepository {
	return &OrderRepository{c: c, dec: newDecoder(locale, nil)}
}

// ==========================
// cart.Repository
// ==========================

func (r *CartRepository) Get(ctx context.Context, id string) (*cartdom.Cart, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, cartdom.ErrNotFound
	}
	body, err := r.c.get(ctx, epCarts, "carts/"+url.PathEscape(id), nil)
	if IsNotFound(err) {
		return nil, cartdom.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.dec.cart(body), nil
}

type resourceRef struct {
	TypeID string `json:"typeId"`
	ID     string `json:"id,omitempty"`
	Key    string `json:"key,omitempty"`
}

type cartDraft struct {
	Currency            string       `json:"currency"`
	Country             string       `json:"country,omitempty"`
	DistributionChannel *resourceRef `json:"distributionChannel,omitempty"`
	CustomerGroup       *resourceRef `json:"customerGroup,omitempty"`
	Store               *resourceRef `json:"store,omitempty"`
}

func (r *CartRepository) Create(ctx context.Context, sc scdom.Context) (*cartdom.Cart, error) {
	if !sc.CanAddToCart() {
		return nil, cartdom.ErrCurrencyRequired
	}
	d := cartDraft{Currency: sc.Currency, Country: sc.Country}
	if sc.ChannelID != "" {
		d.DistributionChannel = &resourceRef{TypeID: "channel", ID: sc.ChannelID}
	}
	if sc.CustomerGroupID != "" {
		d.CustomerGroup = &resourceRef{TypeID: "customer-group", ID: sc.CustomerGroupID}
	}
	if sc.StoreKey != "" {
		d.Store = &resourceRef{TypeID: "store", Key: sc.StoreKey}
	}
	body, err := r.c.post(ctx, epCarts, "carts", nil, d)
	if err != nil {
		return nil, err
	}
	return r.dec.cart(body), nil
}

func (r *CartRepository) Update(ctx context.Context, id string, version int64, actions ...cartdom.Action) (*cartdom.Cart, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, cartdom.ErrNotFound
	}
	encoded := make([]map[string]any, 0, len(actions))
	for _, a := range actions {
		m, err := encodeAction(a)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, m)
	}
	body, err := r.c.post(ctx, epCarts, "carts/"+url.PathEscape(id), nil, map[string]any{
		"version": version,
		"actions": encoded,
	})
	if IsNotFound(err) {
		return nil, cartdom.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.dec.cart(body), nil
}

func encodeAction(a cartdom.Action) (map[string]any, error) {
	m := map[string]any{"action": a.Name()}
	switch act := a.(type) {
	case cartdom.AddLineItem:
		vid, err := strconv.Atoi(act.VariantID)
		if err != nil {
			return nil, fmt.Errorf("commercetools: variant id %q is not numeric: %w", act.VariantID, err)
		}
		m["productId"] = act.ProductID
		m["variantId"] = vid
		m["quantity"] = act.Quantity
		if act.Custom != nil {
			m["custom"] = map[string]any{
				"type":   resourceRef{TypeID: "type", Key: act.Custom.TypeKey},
				"fields": act.Custom.Fields,
			}
		}
	case cartdom.ChangeLineItemQuantity:
		m["lineItemId"] = act.LineItemID
		m["quantity"] = act.Quantity
		if act.ExternalPrice != nil {
			m["externalPrice"] = map[string]any{
				"currencyCode":   act.ExternalPrice.CurrencyCode,
				"centAmount":     act.ExternalPrice.CentAmount,
				"fractionDigits": act.ExternalPrice.FractionDigits,
			}
		}
	case cartdom.RemoveLineItem:
		m["lineItemId"] = act.LineItemID
	default:
		return nil, fmt.Errorf("commercetools: unsupported cart action %s", a.Name())
	}
	return m, nil
}

// ==========================
// order.Repository
// ==========================

func (r *OrderRepository) Place(ctx context.Context, cartID string, cartVersion int64) (*orderdom.Order, error) {
	body, err := r.c.post(ctx, epOrders, "orders", expandQuery(), map[string]any{
		"cart":    resourceRef{TypeID: "cart", ID: strings.TrimSpace(cartID)},
		"version": cartVersion,
	})
	if IsConflict(err) {
		return nil, fmt.Errorf("%w: %v", orderdom.ErrConflict, err)
	}
	if err != nil {
		return nil, err
	}
	return r.dec.order(body), nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, orderdom.ErrNotFound
	}
	body, err := r.c.get(ctx, epOrders, "orders/"+url.PathEscape(id), expandQuery())
	if IsNotFound(err) {
		return nil, orderdom.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.dec.order(body), nil
}

func expandQuery() url.Values {
	q := url.Values{}
	for _, e := range orderExpand {
		q.Add("expand", e)
	}
	return q
}
