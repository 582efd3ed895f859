package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

const (
	Welcome      = "welcome"
	OrderCreated = "order_created"
)

// EmailData is the data every storefront email template can reference.
type EmailData struct {
	Name      string `json:"Name"`
	Email     string `json:"Email"`
	StoreName string `json:"StoreName"`

	// order_created
	OrderID  string `json:"OrderID,omitempty"`
	Amount   string `json:"Amount,omitempty"`
	Currency string `json:"Currency,omitempty"`
}

// ToMap converts EmailData to the generic map carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	m := map[string]any{
		"Name":      d.Name,
		"Email":     d.Email,
		"StoreName": d.StoreName,
	}
	if d.OrderID != "" {
		m["OrderID"] = d.OrderID
		m["Amount"] = d.Amount
		m["Currency"] = d.Currency
	}
	return m
}

type tmpl struct {
	subject string
	text    string
	html    string
}

var registry = map[string]tmpl{
	Welcome: {
		subject: "Welcome to {{.StoreName}}",
		text: `Hi {{.Name}},

Your {{.StoreName}} account ({{.Email}}) is ready. New drops land every week.

- {{.StoreName}}`,
		html: `<p>Hi {{.Name}},</p>
<p>Your <strong>{{.StoreName}}</strong> account ({{.Email}}) is ready. New drops land every week.</p>
<p>- {{.StoreName}}</p>`,
	},
	OrderCreated: {
		subject: "{{.StoreName}} order {{.OrderID}} received",
		text: `Hi {{.Name}},

We received your order {{.OrderID}} for {{.Currency}} {{.Amount}}. You will get another email once payment is confirmed.

- {{.StoreName}}`,
		html: `<p>Hi {{.Name}},</p>
<p>We received your order <code>{{.OrderID}}</code> for <strong>{{.Currency}} {{.Amount}}</strong>.
You will get another email once payment is confirmed.</p>
<p>- {{.StoreName}}</p>`,
	},
}

// Render executes the named template and returns subject, text and HTML bodies.
func Render(name string, data map[string]any) (string, string, string, error) {
	t, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	subject, err := execText(name+":subject", t.subject, data)
	if err != nil {
		return "", "", "", err
	}
	text, err := execText(name+":text", t.text, data)
	if err != nil {
		return "", "", "", err
	}
	h, err := htmpl.New(name + ":html").Option("missingkey=zero").Parse(t.html)
	if err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err := h.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}

func execText(name, src string, data map[string]any) (string, error) {
	t, err := texttpl.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
