package mailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/crateyy/pkg/mailer/templates"
)

func TestEmailJob_Validate(t *testing.T) {
	require.ErrorIs(t, EmailJob{Template: templates.Welcome}.Validate(), ErrNoRecipient)
	require.ErrorIs(t, EmailJob{To: "a@x.io"}.Validate(), ErrNoContent)
	require.NoError(t, EmailJob{To: "a@x.io", Subject: "hi"}.Validate())
}

func TestEmailJob_RenderTemplateSurvivesQueue(t *testing.T) {
	job := NewTemplateJob("asha@x.io", templates.OrderCreated, templates.EmailData{
		Name: "Asha", StoreName: "Crateyy", OrderID: "order_9", Amount: "80.00", Currency: "INR",
	})
	b, err := json.Marshal(job)
	require.NoError(t, err)

	var decoded EmailJob
	require.NoError(t, json.Unmarshal(b, &decoded))
	msg, err := decoded.Render()
	require.NoError(t, err)
	require.Equal(t, "asha@x.io", msg.To)
	require.Equal(t, templates.OrderCreated, msg.Tag)
	require.Contains(t, msg.Text, "order_9")
}

func TestEmailJob_RenderUnknownTemplate(t *testing.T) {
	_, err := EmailJob{To: "a@x.io", Template: "nope"}.Render()
	require.Error(t, err)
}
