package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/unclebandit/campaign-access-backend/internal/auth"
	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/repository"
	"github.com/unclebandit/campaign-access-backend/internal/validate"
)

type UserService struct {
	UserRepo     repository.UserRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	FrontendURL  string
	Events       Emitter
	Logger       *slog.Logger
}

// GrantUpdate changes a viewer's grant. Nil fields keep their stored value.
type GrantUpdate struct {
	CampaignIDs      *[]string         `json:"campaignIds"`
	ViewAllCampaigns *bool             `json:"viewAllCampaigns"`
	VisibleFields    *[]model.FieldKey `json:"visibleFields"`
}

// ProfileUpdate changes identity attributes. Nil fields keep their value.
type ProfileUpdate struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	IsActive         *bool   `json:"isActive"`
	ViewAllCampaigns *bool   `json:"viewAllCampaigns"`
}

type ShareableLink struct {
	User          model.Profile `json:"user"`
	ShareableLink string        `json:"shareableLink"`
	Note          string        `json:"note"`
}

// AvailableFields lists the field catalog for grant editing.
func (s *UserService) AvailableFields() []model.FieldDescriptor {
	return model.FieldCatalog()
}

// List returns every viewer, newest first.
func (s *UserService) List(ctx context.Context, identity *model.User) ([]*model.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return s.UserRepo.ListViewers(ctx)
}

func (s *UserService) detail(ctx context.Context, u *model.User) (*model.UserDetail, error) {
	summaries, err := s.CampaignRepo.Summaries(ctx, u.AllowedCampaigns)
	if err != nil {
		return nil, err
	}
	return &model.UserDetail{User: u, Campaigns: summaries}, nil
}

// Get returns an identity with summaries of its allowlisted campaigns.
func (s *UserService) Get(ctx context.Context, identity *model.User, id string) (*model.UserDetail, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, u)
}

func (s *UserService) UpdateProfile(ctx context.Context, identity *model.User, id string, in ProfileUpdate) (*model.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = auth.NormalizeEmail(*in.Email)
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.ViewAllCampaigns != nil {
		u.ViewAllCampaigns = *in.ViewAllCampaigns
	}
	if err := validate.Struct(struct {
		Name  string `json:"name" validate:"required,max=200"`
		Email string `json:"email" validate:"required,email"`
	}{u.Name, u.Email}); err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityUserUpdated, identity, u.ID, nil)
	return u, nil
}

// UpdateGrant applies a partial grant change to a viewer.
func (s *UserService) UpdateGrant(ctx context.Context, identity *model.User, id string, in GrantUpdate) (*model.UserDetail, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleViewer {
		return nil, appErrors.Validation("Can only assign campaigns to viewers")
	}

	if in.CampaignIDs != nil {
		ids := make([]string, 0, len(*in.CampaignIDs))
		for _, cid := range *in.CampaignIDs {
			parsed, err := uuid.Parse(cid)
			if err != nil {
				return nil, appErrors.Validation("Invalid campaign id: " + cid)
			}
			ids = append(ids, parsed.String())
		}
		u.AllowedCampaigns = ids
	}
	if in.ViewAllCampaigns != nil {
		u.ViewAllCampaigns = *in.ViewAllCampaigns
	}
	if in.VisibleFields != nil {
		fields := make([]model.FieldKey, 0, len(*in.VisibleFields))
		for _, k := range *in.VisibleFields {
			if !k.Valid() {
				return nil, appErrors.Validation("Unknown field: " + string(k))
			}
			fields = append(fields, k)
		}
		u.VisibleFields = fields
	}

	if err := s.UserRepo.UpdateGrant(ctx, u); err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityGrantUpdated, identity, u.ID, map[string]any{
		"campaigns":        len(u.AllowedCampaigns),
		"viewAllCampaigns": u.ViewAllCampaigns,
		"visibleFields":    len(u.EffectiveVisibleFields()),
	})
	return s.detail(ctx, u)
}

// Delete removes the identity only; records it created keep a null creator.
func (s *UserService) Delete(ctx context.Context, identity *model.User, id string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("user deleted", "user_id", id, "actor_id", identity.ID)
	emit(ctx, s.Events, model.ActivityUserDeleted, identity, id, nil)
	return nil
}

// ShareableLink returns the viewer login link for a viewer.
func (s *UserService) ShareableLink(ctx context.Context, identity *model.User, id string) (*ShareableLink, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil && appErrors.KindOf(err) != appErrors.KindNotFound {
		return nil, err
	}
	if u == nil || u.Role != model.RoleViewer {
		return nil, appErrors.NotFound("Viewer not found")
	}
	return &ShareableLink{
		User:          u.Profile(),
		ShareableLink: strings.TrimRight(s.FrontendURL, "/") + "/viewer",
		Note:          "Share this link. The viewer must login with their credentials.",
	}, nil
}
