package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"
)

// AMQPQueue publishes and consumes JSON messages on durable queues named after
// the topic. Handlers receive the raw message body as []byte.
type AMQPQueue struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
	logger   *slog.Logger
}

func DialAMQP(url string, logger *slog.Logger) (*AMQPQueue, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &AMQPQueue{conn: conn, ch: ch, declared: map[string]bool{}, logger: logger}, nil
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	// amqp.Channel is not safe for concurrent publishing.
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish("", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Subscribe consumes topic with manual acks. A failed message is requeued once
// and dropped if it fails again.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	if err := q.declare(topic); err != nil {
		q.mu.Unlock()
		return err
	}
	if err := q.ch.Qos(1, 0, false); err != nil {
		q.mu.Unlock()
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			settle(d, handler(d.Body), q.logger)
		}
		q.logger.Info("consumer stopped", "topic", topic)
	}()
	return nil
}

func settle(d amqp.Delivery, err error, logger *slog.Logger) {
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			logger.Error("ack failed", "error", ackErr)
		}
		return
	}
	requeue := !d.Redelivered
	logger.Warn("message handling failed", "requeue", requeue, "error", err)
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		logger.Error("nack failed", "error", nackErr)
	}
}

// NotifyClose reports broker-side connection loss.
func (q *AMQPQueue) NotifyClose() <-chan *amqp.Error {
	return q.conn.NotifyClose(make(chan *amqp.Error, 1))
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}
