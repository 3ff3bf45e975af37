package queue

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultActivityTopic carries activity events between services and the recorder.
const DefaultActivityTopic = "campaign_activity"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers in-process with retry and linear backoff.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	wg       sync.WaitGroup

	MaxRetries int
	Backoff    time.Duration
	Logger     *slog.Logger
}

func NewInMemoryQueue(logger *slog.Logger) *InMemoryQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
		Logger:     logger,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish hands payload to every subscriber of topic on its own goroutine.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{Topic: topic, Payload: payload, MaxRetries: q.MaxRetries}
		q.wg.Add(1)
		go func(h func(payload any) error) {
			defer q.wg.Done()
			q.processJob(h, job)
		}(handler)
	}
	return nil
}

func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for {
		err := handler(job.Payload)
		if err == nil {
			return
		}

		job.RetryCount++
		q.Logger.Warn("job failed", "topic", job.Topic, "attempt", job.RetryCount, "max_retries", job.MaxRetries, "error", err)
		if job.RetryCount > job.MaxRetries {
			q.Logger.Error("job permanently failed", "topic", job.Topic, "attempts", job.RetryCount)
			return
		}
		time.Sleep(time.Duration(job.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Drain blocks until every in-flight job has finished.
func (q *InMemoryQueue) Drain() {
	q.wg.Wait()
}
