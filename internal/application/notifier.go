package application

import (
	"context"
	"expvar"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/mailer"
	"github.com/oksasatya/crateyy/pkg/mailer/templates"
)

var emailJobsPublished = expvar.NewInt("email_jobs_published")

// JobPublisher puts a JSON job on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier queues transactional emails. A nil Notifier or one without a
// publisher silently does nothing; mail is never on the request's critical path.
type Notifier struct {
	Publisher JobPublisher
	StoreName string
	Logger    *logrus.Logger
}

func NewNotifier(pub JobPublisher, storeName string, logger *logrus.Logger) *Notifier {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Notifier{Publisher: pub, StoreName: storeName, Logger: logger}
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if n == nil {
		return
	}
	n.publish(ctx, u.Email, templates.Welcome, templates.EmailData{
		Name:      u.Name,
		Email:     u.Email,
		StoreName: n.StoreName,
	})
}

func (n *Notifier) OrderCreated(ctx context.Context, u *entity.User, orderID, amount, currency string) {
	if n == nil {
		return
	}
	n.publish(ctx, u.Email, templates.OrderCreated, templates.EmailData{
		Name:      u.Name,
		Email:     u.Email,
		StoreName: n.StoreName,
		OrderID:   orderID,
		Amount:    amount,
		Currency:  currency,
	})
}

func (n *Notifier) publish(ctx context.Context, to, tmpl string, data templates.EmailData) {
	if n.Publisher == nil || to == "" {
		return
	}
	job := mailer.NewTemplateJob(to, tmpl, data)
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.Publisher.PublishJSON(c, job); err != nil {
		n.Logger.WithError(err).WithFields(logrus.Fields{"to": to, "template": tmpl}).Warn("publish email job failed")
		return
	}
	emailJobsPublished.Add(1)
}
