package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

// ------------------------------------------------------------
// catalog
// ------------------------------------------------------------

var colorDef = vdom.AxisDefinition{
	Name: vdom.AxisColor,
	Kind: vdom.KindEnumerated,
	Options: []vdom.EnumOption{
		{Key: "red", Label: "Red"},
		{Key: "blue", Label: "Blue"},
	},
}

func mkVariant(id, color, size string, qty int64) vdom.Variant {
	return vdom.Variant{
		ProductID: "p1",
		ID:        id,
		Name:      "Shirt",
		Attributes: map[vdom.Axis]vdom.AxisValue{
			vdom.AxisColor: vdom.Enumerated(color, ""),
			vdom.AxisSize:  vdom.Text(size),
		},
		Availability: &vdom.Availability{IsOnStock: qty > 0, AvailableQuantity: vdom.Quantity(qty)},
		Price:        &vdom.Price{Value: vdom.Money{CurrencyCode: "EUR", CentAmount: 1999, FractionDigits: 2}},
	}
}

// red/8 sold out, red/9 in stock, blue/8 in stock.
func shirtMatrix(t *testing.T) *vdom.Matrix {
	t.Helper()
	m, err := vdom.NewMatrix("p1", []vdom.Variant{
		mkVariant("1", "red", "8", 0),
		mkVariant("2", "red", "9", 3),
		mkVariant("3", "blue", "8", 5),
	}, []vdom.AxisDefinition{{Name: vdom.AxisSize, Kind: vdom.KindText}, colorDef}, vdom.NewOrdering("en"))
	require.NoError(t, err)
	return m
}

type fakeCatalog struct {
	m *vdom.Matrix

	mu       sync.Mutex
	lookups  int
	gate     func(n int, c vdom.Criteria)
	err      error
	contexts []scdom.Context
}

var _ vdom.CatalogPort = (*fakeCatalog)(nil)

func (f *fakeCatalog) LookupVariant(_ context.Context, sc scdom.Context, c vdom.Criteria) (vdom.Variant, error) {
	f.mu.Lock()
	f.lookups++
	n, gate, err := f.lookups, f.gate, f.err
	f.contexts = append(f.contexts, sc)
	f.mu.Unlock()

	if gate != nil {
		gate(n, c)
	}
	if err != nil {
		return vdom.Variant{}, err
	}
	v, ok, err := f.m.FindExact(c.Axes)
	if err != nil {
		return vdom.Variant{}, err
	}
	if !ok {
		return vdom.Variant{}, vdom.ErrNotFound
	}
	return v, nil
}

func (f *fakeCatalog) LookupVariantMatrix(_ context.Context, _ scdom.Context, productID string) (*vdom.Matrix, error) {
	if productID != f.m.ProductID() {
		return nil, vdom.ErrNotFound
	}
	return f.m, nil
}

func (f *fakeCatalog) LookupProductAxisDefinitions(context.Context, string) ([]vdom.AxisDefinition, error) {
	return nil, nil
}

// ------------------------------------------------------------
// carts / orders
// ------------------------------------------------------------

type fakeCarts struct {
	mu      sync.Mutex
	seq     int
	carts   map[string]*cartdom.Cart
	actions []cartdom.Action
}

func newFakeCarts() *fakeCarts { return &fakeCarts{carts: map[string]*cartdom.Cart{}} }

func (f *fakeCarts) Get(_ context.Context, id string) (*cartdom.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[id]
	if !ok {
		return nil, cartdom.ErrNotFound
	}
	cp := *c
	cp.LineItems = append([]cartdom.LineItem(nil), c.LineItems...)
	return &cp, nil
}

func (f *fakeCarts) Create(_ context.Context, sc scdom.Context) (*cartdom.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c := &cartdom.Cart{ID: fmt.Sprintf("cart-%d", f.seq), Version: 1, Currency: sc.Currency, Country: sc.Country}
	f.carts[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeCarts) Update(ctx context.Context, id string, version int64, actions ...cartdom.Action) (*cartdom.Cart, error) {
	f.mu.Lock()
	c, ok := f.carts[id]
	if !ok {
		f.mu.Unlock()
		return nil, cartdom.ErrNotFound
	}
	if c.Version != version {
		f.mu.Unlock()
		return nil, orderdom.ErrConflict
	}
	for _, a := range actions {
		f.actions = append(f.actions, a)
		switch a := a.(type) {
		case cartdom.AddLineItem:
			f.seq++
			c.LineItems = append(c.LineItems, cartdom.LineItem{
				ID: fmt.Sprintf("li-%d", f.seq), ProductID: a.ProductID, VariantID: a.VariantID, Quantity: a.Quantity,
			})
		case cartdom.ChangeLineItemQuantity:
			for i := range c.LineItems {
				if c.LineItems[i].ID == a.LineItemID {
					c.LineItems[i].Quantity = a.Quantity
				}
			}
		case cartdom.RemoveLineItem:
			kept := c.LineItems[:0]
			for _, li := range c.LineItems {
				if li.ID != a.LineItemID {
					kept = append(kept, li)
				}
			}
			c.LineItems = kept
		}
	}
	c.Version++
	f.mu.Unlock()
	return f.Get(ctx, id)
}

type fakeOrders struct {
	carts  *fakeCarts
	orders map[string]*orderdom.Order
}

func (f *fakeOrders) Place(ctx context.Context, cartID string, version int64) (*orderdom.Order, error) {
	c, err := f.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.Version != version {
		return nil, orderdom.ErrConflict
	}
	o := &orderdom.Order{ID: "order-" + strings.TrimPrefix(cartID, "cart-"), Currency: c.Currency, LineItems: c.LineItems}
	if f.orders == nil {
		f.orders = map[string]*orderdom.Order{}
	}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrders) Get(_ context.Context, id string) (*orderdom.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, orderdom.ErrNotFound
	}
	return o, nil
}
