// internal/adapters/out/mail/sendgrid_wire.go
package mail

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// NewOrderMailerWithSendGrid は SendGrid を使った OrderMailer を生成します。
// apiKey / fromAddr のどちらかが空なら (nil, false): 確認メールは送らない。
//
// - SENDGRID_API_KEY : SendGrid の API キー
// - SENDGRID_FROM    : 送信元メールアドレス
func NewOrderMailerWithSendGrid(apiKey, fromAddr string, log logrus.FieldLogger) (*OrderMailer, bool) {
	apiKey, fromAddr = strings.TrimSpace(apiKey), strings.TrimSpace(fromAddr)
	if apiKey == "" || fromAddr == "" {
		if log != nil {
			log.Info("[mail] SENDGRID_API_KEY or SENDGRID_FROM empty: order confirmation mail disabled")
		}
		return nil, false
	}

	mailer := NewOrderMailer(NewSendGridClient(apiKey, log), fromAddr, log)
	if log != nil {
		log.WithField("from", fromAddr).Info("[mail] order confirmation mail enabled")
	}
	return mailer, true
}
