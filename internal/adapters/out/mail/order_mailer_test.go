package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/infra/logging"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
	vdom "storefront/internal/domain/variant"
)

func eur(c int64) vdom.Money { return vdom.Money{CurrencyCode: "EUR", CentAmount: c, FractionDigits: 2} }

func sampleOrder() *orderdom.Order {
	return &orderdom.Order{
		ID:          "o-1",
		OrderNumber: "1001",
		Currency:    "EUR",
		LineItems: []cartdom.LineItem{
			{ID: "li-1", Name: "Shirt", SKU: "SKU-1", Quantity: 2, TotalPrice: eur(3998)},
		},
		TotalPrice: eur(3998),
	}
}

type captured struct {
	from, to, subject, text, html string
	calls                         int
}

func (c *captured) Send(_ context.Context, from, to, subject, text, html string) error {
	c.calls++
	c.from, c.to, c.subject, c.text, c.html = from, to, subject, text, html
	return nil
}

func TestOrderMailer(t *testing.T) {
	client := &captured{}
	m := NewOrderMailer(client, "shop@example.com", logging.Discard())

	require.NoError(t, m.OrderPlaced(t.Context(), sampleOrder(), ""))
	assert.Zero(t, client.calls, "anonymous buyer gets no mail")

	require.NoError(t, m.OrderPlaced(t.Context(), sampleOrder(), "buyer@example.com"))
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "buyer@example.com", client.to)
	assert.Equal(t, "Your order 1001", client.subject)
	assert.Contains(t, client.text, "2 x Shirt (SKU-1)")
	assert.Contains(t, client.text, "EUR 39.98")
	assert.Contains(t, client.html, "<pre>")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "EUR 10.50", formatMoney(eur(1050)))
	assert.Equal(t, "JPY 1200", formatMoney(vdom.Money{CurrencyCode: "JPY", CentAmount: 1200}))
}

func TestSendGridClient_Send(t *testing.T) {
	var (
		auth string
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sendEndpoint, r.URL.Path)
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewSendGridClient("SG.key", logging.Discard())
	c.host = srv.URL
	require.NoError(t, c.Send(t.Context(), "shop@example.com", "buyer@example.com", "Your order 1001", "text", "<pre>text</pre>"))
	assert.Equal(t, "Bearer SG.key", auth)
	assert.Equal(t, "Your order 1001", body["subject"])
}

func TestSendGridClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"forbidden"}]}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewSendGridClient("SG.key", nil)
	c.host = srv.URL
	assert.ErrorContains(t, c.Send(t.Context(), "a@example.com", "b@example.com", "s", "t", "h"), "status=403")

	assert.Error(t, NewSendGridClient("", nil).Send(t.Context(), "a@example.com", "b@example.com", "s", "t", "h"))
	assert.Error(t, c.Send(t.Context(), "", "b@example.com", "s", "t", "h"))
}

func TestNewOrderMailerWithSendGrid(t *testing.T) {
	_, ok := NewOrderMailerWithSendGrid("", "shop@example.com", nil)
	assert.False(t, ok)
	m, ok := NewOrderMailerWithSendGrid("SG.key", "shop@example.com", nil)
	assert.True(t, ok)
	assert.NotNil(t, m)
}
