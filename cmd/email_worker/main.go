package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/config"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/mailer"
)

const prefetch = 16

// Sender delivers one rendered email and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer q.Close()

	msgs, err := q.Consume(prefetch)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender, cfg.MailgunReplyTo)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handle(context.Background(), mg, msg, logger)
		}
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down")
	if !drain(q.StopConsuming, done, 10*time.Second) {
		logger.Warn("in-flight emails did not finish before shutdown")
	}
}

// drain stops intake and waits for the consumer loop to finish, giving up
// after timeout.
func drain(stopIntake func(), done <-chan struct{}, timeout time.Duration) bool {
	stopIntake()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// handle renders and sends one job. Malformed jobs are dropped; send failures
// are requeued.
func handle(ctx context.Context, s Sender, d amqp.Delivery, logger *logrus.Logger) {
	msg, err := render(d.Body)
	if err != nil {
		logger.WithError(err).Warn("dropping email job")
		_ = d.Nack(false, false)
		return
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	id, err := s.Send(c, msg)
	if err != nil {
		logger.WithError(err).WithField("to", msg.To).Error("send failed, requeueing")
		_ = d.Nack(false, true)
		return
	}
	logger.WithFields(logrus.Fields{"to": msg.To, "tag": msg.Tag, "message_id": id}).Info("email sent")
	_ = d.Ack(false)
}

func render(body []byte) (mailer.Message, error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return mailer.Message{}, err
	}
	return job.Render()
}
