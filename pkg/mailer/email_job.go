package mailer

import (
	"errors"

	"github.com/oksasatya/crateyy/pkg/mailer/templates"
)

var (
	ErrNoRecipient = errors.New("email job has no recipient")
	ErrNoContent   = errors.New("email job has neither a template nor a subject")
)

// EmailJob is the JSON payload the API puts on the email queue. Storefront
// jobs name a Template and carry its Data; Subject with Text/HTML is kept for
// one-off messages.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewTemplateJob queues a storefront email such as templates.Welcome.
func NewTemplateJob(to, template string, data templates.EmailData) EmailJob {
	return EmailJob{To: to, Template: template, Data: templates.ToMap(data)}
}

func (j EmailJob) Validate() error {
	if j.To == "" {
		return ErrNoRecipient
	}
	if j.Template == "" && j.Subject == "" {
		return ErrNoContent
	}
	return nil
}

// Message is a rendered email ready for a Sender.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
	// Tag groups deliveries in the provider's analytics; templated jobs use
	// the template name.
	Tag string
}

// Render validates the job and expands its template, if any.
func (j EmailJob) Render() (Message, error) {
	if err := j.Validate(); err != nil {
		return Message{}, err
	}
	if j.Template == "" {
		return Message{To: j.To, Subject: j.Subject, Text: j.Text, HTML: j.HTML}, nil
	}
	subject, text, html, err := templates.Render(j.Template, j.Data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: j.To, Subject: subject, Text: text, HTML: html, Tag: j.Template}, nil
}
