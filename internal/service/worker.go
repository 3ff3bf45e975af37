package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

// ActivityStore defines the methods the worker needs
type ActivityStore interface {
	Insert(ctx context.Context, e *model.ActivityEvent) error
}

// ActivityWorker records activity events taken off a queue.
type ActivityWorker struct {
	Store   ActivityStore
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewActivityWorker(store ActivityStore, logger *slog.Logger) *ActivityWorker {
	return &ActivityWorker{Store: store, Timeout: 5 * time.Second, Logger: resolveLogger(logger)}
}

// Handle accepts an event published in-process or the JSON body of a broker
// message. Undecodable payloads are dropped without retry.
func (w *ActivityWorker) Handle(payload any) error {
	var event model.ActivityEvent
	switch p := payload.(type) {
	case model.ActivityEvent:
		event = p
	case *model.ActivityEvent:
		event = *p
	case []byte:
		if err := json.Unmarshal(p, &event); err != nil {
			resolveLogger(w.Logger).Warn("dropping malformed activity payload", "error", err)
			return nil
		}
	default:
		resolveLogger(w.Logger).Warn("dropping activity payload of unexpected type", "type", fmt.Sprintf("%T", payload))
		return nil
	}
	if event.Type == "" {
		resolveLogger(w.Logger).Warn("dropping activity payload without type")
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := w.Store.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record activity %s: %w", event.Type, err)
	}
	return nil
}
