package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/unclebandit/campaign-access-backend/internal/access"
	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
)

// Emitter records activity after a successful mutation. Implementations must
// not block the request on delivery.
type Emitter interface {
	Emit(ctx context.Context, event model.ActivityEvent)
}

func resolveLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

func emit(ctx context.Context, e Emitter, typ string, actor *model.User, subject string, detail map[string]any) {
	if e == nil {
		return
	}
	event := model.ActivityEvent{
		Type:       typ,
		SubjectID:  subject,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
	if actor != nil {
		event.ActorID = actor.ID
	}
	e.Emit(ctx, event)
}

func requireAdmin(identity *model.User) error {
	if !access.CanMutate(identity) {
		return appErrors.Forbidden("Access denied. Admins only.")
	}
	return nil
}
