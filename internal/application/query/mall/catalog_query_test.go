package mall

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

type fakeListing struct {
	got vdom.ListingQuery
	sc  scdom.Context
	vs  []vdom.Variant
	err error
}

func (f *fakeListing) SearchVariants(_ context.Context, sc scdom.Context, q vdom.ListingQuery) ([]vdom.Variant, error) {
	f.got, f.sc = q, sc
	return f.vs, f.err
}

func variant(pid, id, color string) vdom.Variant {
	return vdom.Variant{
		ProductID:  pid,
		ID:         id,
		Name:       "name-" + pid,
		Attributes: map[vdom.Axis]vdom.AxisValue{vdom.AxisColor: vdom.Enumerated(color, color)},
		Price:      &vdom.Price{Value: vdom.Money{CurrencyCode: "EUR", CentAmount: 1050, FractionDigits: 2}},
	}
}

func TestCatalogQuery_GroupsByProduct(t *testing.T) {
	l := &fakeListing{vs: []vdom.Variant{
		variant("p2", "1", "red"),
		variant("p1", "1", "blue"),
		variant("p2", "2", "green"),
		variant("p2", "3", "red"),
	}}
	q := NewCatalogQuery(l)
	sc := scdom.Context{Currency: "EUR"}

	out, err := q.List(t.Context(), sc, "  shirt ")
	require.NoError(t, err)
	assert.Equal(t, "shirt", l.got.Search)
	assert.Equal(t, defaultCatalogLimit, l.got.Limit)
	assert.Equal(t, sc, l.sc)

	require.Equal(t, 2, out.Total)
	assert.Equal(t, "p2", out.Items[0].ProductID, "first appearance order")
	assert.Equal(t, "1", out.Items[0].Representative.ID)
	assert.Equal(t, 3, out.Items[0].VariantCount)
	assert.Equal(t, []string{"green", "red"}, out.Items[0].AxisSummary["color"])
	assert.Equal(t, 1, out.Items[1].VariantCount)
	assert.Equal(t, "EUR 10.50", out.Items[1].Representative.Price.Effective.Formatted)
}

func TestCatalogQuery_Errors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewCatalogQuery(&fakeListing{err: boom}).List(t.Context(), scdom.Context{}, "")
	assert.ErrorIs(t, err, boom)

	_, err = (&CatalogQuery{}).List(t.Context(), scdom.Context{}, "")
	assert.Error(t, err)

	out, err := NewCatalogQuery(&fakeListing{}).List(t.Context(), scdom.Context{}, "")
	require.NoError(t, err)
	assert.NotNil(t, out.Items)
	assert.Zero(t, out.Total)
}

type fakeOptions struct{}

func (fakeOptions) ListStores(context.Context) ([]scdom.Option, error) {
	return []scdom.Option{{Key: "berlin", Name: "Berlin"}}, nil
}
func (fakeOptions) ListDistributionChannels(context.Context) ([]scdom.Option, error) {
	return []scdom.Option{{ID: "ch-1", Name: "Warehouse"}}, nil
}
func (fakeOptions) ListCustomerGroups(context.Context) ([]scdom.Option, error) {
	return nil, errors.New("forbidden")
}
func (fakeOptions) ListCurrencies(context.Context) ([]string, error) { return []string{"EUR", "USD"}, nil }
func (fakeOptions) ListCountries(context.Context) ([]string, error)  { return []string{"DE", "US"}, nil }

func TestContextOptionsQuery(t *testing.T) {
	q := NewContextOptionsQuery(fakeOptions{})
	ctx := t.Context()

	out, err := q.List(ctx, "Stores")
	require.NoError(t, err)
	assert.Equal(t, OptionStores, out.Kind)
	assert.Equal(t, "berlin", out.Options[0].Key)

	out, err = q.List(ctx, OptionChannels)
	require.NoError(t, err)
	assert.Equal(t, "ch-1", out.Options[0].ID)

	out, err = q.List(ctx, OptionCurrencies)
	require.NoError(t, err)
	assert.Equal(t, []string{"EUR", "USD"}, out.Codes)

	out, err = q.List(ctx, OptionCountries)
	require.NoError(t, err)
	assert.Equal(t, []string{"DE", "US"}, out.Codes)

	_, err = q.List(ctx, OptionCustomerGroups)
	assert.Error(t, err)

	_, err = q.List(ctx, "planets")
	assert.ErrorIs(t, err, ErrUnknownOptionKind)
}
