package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun delivers storefront mail through the Mailgun API.
type Mailgun struct {
	client  *mg.MailgunImpl
	sender  string
	replyTo string
}

// NewMailgun builds a sender for domain. replyTo may be empty.
func NewMailgun(domain, apiKey, sender, replyTo string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender, replyTo: replyTo}
}

// Send returns the Mailgun message id.
func (m *Mailgun) Send(ctx context.Context, msg Message) (string, error) {
	out := m.client.NewMessage(m.sender, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	if m.replyTo != "" {
		out.SetReplyTo(m.replyTo)
	}
	if msg.Tag != "" {
		if err := out.AddTag(msg.Tag); err != nil {
			return "", err
		}
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, id, err := m.client.Send(c, out)
	return id, err
}
