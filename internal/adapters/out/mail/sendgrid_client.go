// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

const sendEndpoint = "/v3/mail/send"

// SendGridClient implements EmailClient.
type SendGridClient struct {
	apiKey string
	// host is empty for https://api.sendgrid.com; tests point it at httptest.
	host string
	log  logrus.FieldLogger
}

func NewSendGridClient(apiKey string, log logrus.FieldLogger) *SendGridClient {
	return &SendGridClient{apiKey: strings.TrimSpace(apiKey), log: log}
}

// Send sends one mail with a text and an html part. No retry on failure.
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, text, html string) error {
	if c == nil || c.apiKey == "" {
		return errors.New("sendgrid: api key is empty")
	}
	if strings.TrimSpace(from) == "" {
		return errors.New("sendgrid: from address is empty")
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("sendgrid: to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("Storefront", from),
		subject,
		sgmail.NewEmail("", to),
		text,
		html,
	)

	req := sendgrid.GetRequest(c.apiKey, sendEndpoint, c.host)
	req.Method = "POST"
	req.Body = sgmail.GetRequestBody(message)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: send error: %w", err)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: send failed: status=%d body=%s", res.StatusCode, res.Body)
	}

	if c.log != nil {
		c.log.WithFields(logrus.Fields{"status": res.StatusCode, "subject": subject}).Info("[sendgrid] mail sent")
	}
	return nil
}
