package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

type ActivityRepositoryInterface interface {
	Insert(ctx context.Context, e *model.ActivityEvent) error
	Latest(ctx context.Context, limit int) ([]*model.ActivityEvent, error)
}

type ActivityRepository struct {
	DB *sql.DB
}

func (r *ActivityRepository) Insert(ctx context.Context, e *model.ActivityEvent) error {
	detail := e.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode activity detail: %w", err)
	}
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO activity_log (type, actor_id, subject_id, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		e.Type, e.ActorID, e.SubjectID, string(raw), e.OccurredAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Latest(ctx context.Context, limit int) ([]*model.ActivityEvent, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, type, actor_id, subject_id, detail, occurred_at
		FROM activity_log ORDER BY occurred_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	events := []*model.ActivityEvent{}
	for rows.Next() {
		e := &model.ActivityEvent{}
		var raw []byte
		if err := rows.Scan(&e.ID, &e.Type, &e.ActorID, &e.SubjectID, &raw, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Detail); err != nil {
				return nil, fmt.Errorf("decode activity detail: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
