package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vdom "storefront/internal/domain/variant"
)

func TestMoney(t *testing.T) {
	m := Money(vdom.Money{CurrencyCode: "JPY", CentAmount: 1200, FractionDigits: 0})
	assert.Equal(t, "JPY 1200", m.Formatted)

	m = Money(vdom.Money{CurrencyCode: "EUR", CentAmount: 5, FractionDigits: 2})
	assert.Equal(t, "EUR 0.05", m.Formatted)
	assert.Equal(t, "0.05", m.Amount.String())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"amount":"0.05"`)
}

func TestVariant(t *testing.T) {
	disc := vdom.Money{CurrencyCode: "EUR", CentAmount: 800, FractionDigits: 2}
	v := Variant(vdom.Variant{
		ProductID: "p1",
		ID:        "2",
		Attributes: map[vdom.Axis]vdom.AxisValue{
			vdom.AxisColor: vdom.Enumerated("red", "Rot"),
			vdom.AxisSize:  {},
		},
		Availability: &vdom.Availability{AvailableQuantity: vdom.Quantity(0)},
		Price: &vdom.Price{
			Value:      vdom.Money{CurrencyCode: "EUR", CentAmount: 1000, FractionDigits: 2},
			Discounted: &disc,
		},
	})
	assert.False(t, v.InStock)
	require.NotNil(t, v.AvailableQuantity)
	assert.Equal(t, AxisValueDTO{Kind: "enumerated", Key: "red", Label: "Rot"}, v.Attributes["color"])
	assert.NotContains(t, v.Attributes, "size")
	assert.Equal(t, int64(800), v.Price.Effective.CentAmount)
	assert.Equal(t, int64(1000), v.Price.Value.CentAmount)

	assert.Nil(t, Price(nil))
}
