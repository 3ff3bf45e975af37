package queue

import (
	"context"
	"log/slog"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

// ActivityPublisher puts activity events on a queue. Publish failures are
// logged and never returned to the caller.
type ActivityPublisher struct {
	Queue  Queue
	Topic  string
	Logger *slog.Logger
}

func (p *ActivityPublisher) Emit(ctx context.Context, event model.ActivityEvent) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	topic := p.Topic
	if topic == "" {
		topic = DefaultActivityTopic
	}
	if err := p.Queue.Publish(topic, event); err != nil {
		logger.WarnContext(ctx, "failed to publish activity", "type", event.Type, "subject_id", event.SubjectID, "error", err)
	}
}

// StartActivitySubscriber registers handler for activity events on q.
func StartActivitySubscriber(q Queue, topic string, handler func(payload any) error, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if topic == "" {
		topic = DefaultActivityTopic
	}
	if err := q.Subscribe(topic, handler); err != nil {
		return err
	}
	logger.Info("activity subscriber started", "topic", topic)
	return nil
}
