// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	orderdom "storefront/internal/domain/order"
	vdom "storefront/internal/domain/variant"
)

// EmailClient は実際のメール送信クライアント（SendGrid など）を抽象化したインターフェースです。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, text, html string) error
}

// OrderMailer sends the order confirmation to the signed-in buyer.
// Anonymous shoppers have no address and get no mail.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
	log         logrus.FieldLogger
}

var _ orderdom.PlacedListener = (*OrderMailer)(nil)

func NewOrderMailer(client EmailClient, fromAddress string, log logrus.FieldLogger) *OrderMailer {
	return &OrderMailer{client: client, fromAddress: strings.TrimSpace(fromAddress), log: log}
}

func (m *OrderMailer) OrderPlaced(ctx context.Context, o *orderdom.Order, buyerEmail string) error {
	to := strings.TrimSpace(buyerEmail)
	if m == nil || m.client == nil || o == nil || to == "" {
		return nil
	}
	subject, body := confirmationMessage(o)
	return m.client.Send(ctx, m.fromAddress, to, subject, body, "<pre>"+html.EscapeString(body)+"</pre>")
}

// confirmationMessage renders a plain text summary:
//
//	Order 1001
//	2 x Shirt (SKU-1)   EUR 39.98
//	Total               EUR 39.98
func confirmationMessage(o *orderdom.Order) (subject, body string) {
	ref := strings.TrimSpace(o.OrderNumber)
	if ref == "" {
		ref = o.ID
	}
	subject = fmt.Sprintf("Your order %s", ref)

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order.\n\nOrder %s\n\n", ref)
	for _, li := range o.LineItems {
		name := li.Name
		if li.SKU != "" {
			name = fmt.Sprintf("%s (%s)", name, li.SKU)
		}
		fmt.Fprintf(&b, "%d x %-40s %s\n", li.Quantity, name, formatMoney(li.TotalPrice))
	}
	if d := o.TotalDiscount(); d.CentAmount > 0 {
		fmt.Fprintf(&b, "%-44s -%s\n", "Discount", formatMoney(d))
	}
	fmt.Fprintf(&b, "%-44s %s\n", "Total", formatMoney(o.TotalPrice))
	return subject, b.String()
}

func formatMoney(m vdom.Money) string {
	fd := int32(m.FractionDigits)
	return m.CurrencyCode + " " + decimal.New(m.CentAmount, -fd).StringFixed(fd)
}
