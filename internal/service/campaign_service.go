// internal/service/campaign_service.go
package service

import (
	"context"
	"log/slog"

	"github.com/unclebandit/campaign-access-backend/internal/access"
	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/repository"
	"github.com/unclebandit/campaign-access-backend/internal/validate"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Events       Emitter
	Logger       *slog.Logger
}

// CampaignInput is a create or partial-update payload. Nil fields are left
// untouched.
type CampaignInput struct {
	Name           *string         `json:"name"`
	Status         *string         `json:"status"`
	Delivery       *string         `json:"delivery"`
	Actions        *string         `json:"actions"`
	Results        *string         `json:"results"`
	CostPerResult  *string         `json:"costPerResult"`
	Budget         *string         `json:"budget"`
	AmountSpent    *string         `json:"amountSpent"`
	Impressions    *string         `json:"impressions"`
	Reach          *string         `json:"reach"`
	EndDate        *string         `json:"endDate"`
	Active         *bool           `json:"active"`
	Objective      *string         `json:"objective"`
	BidStrategy    *string         `json:"bidStrategy"`
	DailyBudget    *string         `json:"dailyBudget"`
	LifetimeBudget *string         `json:"lifetimeBudget"`
	StartDate      *string         `json:"startDate"`
	TargetAudience *string         `json:"targetAudience"`
	Placement      *string         `json:"placement"`
	CustomFields   *map[string]any `json:"customFields"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ApplyTo merges the provided fields into c.
func (in CampaignInput) ApplyTo(c *model.Campaign) {
	setString(&c.Name, in.Name)
	setString(&c.Status, in.Status)
	setString(&c.Delivery, in.Delivery)
	setString(&c.Actions, in.Actions)
	setString(&c.Results, in.Results)
	setString(&c.CostPerResult, in.CostPerResult)
	setString(&c.Budget, in.Budget)
	setString(&c.AmountSpent, in.AmountSpent)
	setString(&c.Impressions, in.Impressions)
	setString(&c.Reach, in.Reach)
	setString(&c.EndDate, in.EndDate)
	setString(&c.Objective, in.Objective)
	setString(&c.BidStrategy, in.BidStrategy)
	setString(&c.DailyBudget, in.DailyBudget)
	setString(&c.LifetimeBudget, in.LifetimeBudget)
	setString(&c.StartDate, in.StartDate)
	setString(&c.TargetAudience, in.TargetAudience)
	setString(&c.Placement, in.Placement)
	if in.Active != nil {
		c.Active = *in.Active
	}
	if in.CustomFields != nil {
		c.CustomFields = model.CustomValues(*in.CustomFields).Clone()
	}
}

// List returns the campaigns visible to identity, projected to its fields.
func (s *CampaignService) List(ctx context.Context, identity *model.User) ([]access.CampaignView, error) {
	scope := access.CampaignScope(identity)
	if scope.Empty() {
		return []access.CampaignView{}, nil
	}
	campaigns, err := s.CampaignRepo.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return access.ProjectAll(campaigns, access.FieldProjection(identity)), nil
}

// Get returns one campaign. A campaign outside the identity's scope is
// Forbidden, not NotFound.
func (s *CampaignService) Get(ctx context.Context, identity *model.User, id string) (access.CampaignView, error) {
	scope := access.CampaignScope(identity)
	c, err := s.CampaignRepo.GetByID(ctx, id)
	if err != nil {
		return access.CampaignView{}, err
	}
	if !scope.Contains(c.ID) {
		return access.CampaignView{}, appErrors.Forbidden("Access denied to this campaign")
	}
	return access.Project(c, access.FieldProjection(identity)), nil
}

func (s *CampaignService) Create(ctx context.Context, identity *model.User, in CampaignInput) (*model.Campaign, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	c := model.NewCampaign()
	in.ApplyTo(c)
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	resolveLogger(s.Logger).Info("campaign created", "campaign_id", c.ID, "actor_id", identity.ID)
	emit(ctx, s.Events, model.ActivityCampaignCreated, identity, c.ID, map[string]any{"name": c.Name})
	return c, nil
}

// Update applies a partial update and re-validates the merged record.
func (s *CampaignService) Update(ctx context.Context, identity *model.User, id string, in CampaignInput) (*model.Campaign, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	c, err := s.CampaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(c)
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	if err := s.CampaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityCampaignUpdated, identity, c.ID, nil)
	return c, nil
}

func (s *CampaignService) Delete(ctx context.Context, identity *model.User, id string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	if err := s.CampaignRepo.Delete(ctx, id); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("campaign deleted", "campaign_id", id, "actor_id", identity.ID)
	emit(ctx, s.Events, model.ActivityCampaignDeleted, identity, id, nil)
	return nil
}

// Duplicate stores a copy of id named with the copy suffix.
func (s *CampaignService) Duplicate(ctx context.Context, identity *model.User, id string) (*model.Campaign, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	orig, err := s.CampaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := orig.Duplicate()
	if err := s.CampaignRepo.Create(ctx, dup); err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityCampaignDuplicated, identity, dup.ID, map[string]any{"source": orig.ID})
	return dup, nil
}

// ToggleActive flips only the active flag.
func (s *CampaignService) ToggleActive(ctx context.Context, identity *model.User, id string) (*model.Campaign, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	c, err := s.CampaignRepo.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityCampaignToggled, identity, c.ID, map[string]any{"active": c.Active})
	return c, nil
}
