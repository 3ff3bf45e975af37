package service

import (
	"context"

	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/repository"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

type ActivityService struct {
	ActivityRepo repository.ActivityRepositoryInterface
}

// Latest returns the most recent events. limit is clamped to [1, 200] and
// defaults to 50.
func (s *ActivityService) Latest(ctx context.Context, identity *model.User, limit int) ([]*model.ActivityEvent, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	return s.ActivityRepo.Latest(ctx, limit)
}
