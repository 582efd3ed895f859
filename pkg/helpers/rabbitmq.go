package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitQueue wraps an AMQP channel bound to one durable queue. The API
// publishes email jobs through it and the email worker consumes from it.
type RabbitQueue struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	Queue    string
	consumer string
}

func NewRabbitQueue(url, queue string) (*RabbitQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitQueue{conn: conn, ch: ch, Queue: queue}, nil
}

func (q *RabbitQueue) Close() {
	if q == nil {
		return
	}
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}

// Healthy reports a closed connection; the API keeps running without mail.
func (q *RabbitQueue) Healthy() error {
	if q == nil || q.conn == nil || q.conn.IsClosed() {
		return amqp.ErrClosed
	}
	return nil
}

// PublishJSON publishes a persistent JSON message on the queue.
func (q *RabbitQueue) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return q.ch.PublishWithContext(ctx,
		"",      // default exchange
		q.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}

// Consume starts manual-ack delivery with the given prefetch.
func (q *RabbitQueue) Consume(prefetch int) (<-chan amqp.Delivery, error) {
	if err := q.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	q.consumer = q.Queue + "-worker"
	return q.ch.Consume(q.Queue, q.consumer, false, false, false, false, nil)
}

// StopConsuming cancels the consumer. The broker stops sending and the
// deliveries channel closes once buffered messages are drained.
func (q *RabbitQueue) StopConsuming() {
	if q == nil || q.ch == nil || q.consumer == "" {
		return
	}
	_ = q.ch.Cancel(q.consumer, false)
}
