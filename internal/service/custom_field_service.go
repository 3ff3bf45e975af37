package service

import (
	"context"
	"log/slog"
	"strings"

	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/repository"
	"github.com/unclebandit/campaign-access-backend/internal/validate"
)

type CustomFieldService struct {
	FieldRepo repository.CustomFieldRepositoryInterface
	Events    Emitter
	Logger    *slog.Logger
}

// CustomFieldInput is a create or partial-update payload.
type CustomFieldInput struct {
	Name        *string   `json:"name"`
	Label       *string   `json:"label"`
	Type        *string   `json:"type"`
	Required    *bool     `json:"required"`
	Placeholder *string   `json:"placeholder"`
	Description *string   `json:"description"`
	Options     *[]string `json:"options"`
	IsActive    *bool     `json:"isActive"`
}

func (in CustomFieldInput) applyTo(f *model.CustomField) {
	if in.Name != nil {
		f.Name = strings.TrimSpace(*in.Name)
	}
	if in.Label != nil {
		f.Label = strings.TrimSpace(*in.Label)
	}
	setString(&f.Type, in.Type)
	setString(&f.Placeholder, in.Placeholder)
	setString(&f.Description, in.Description)
	if in.Required != nil {
		f.Required = *in.Required
	}
	if in.Options != nil {
		f.Options = append([]string{}, *in.Options...)
	}
	if in.IsActive != nil {
		f.IsActive = *in.IsActive
	}
}

func validateCustomField(f *model.CustomField) error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	if f.Type == model.CustomFieldSelect && len(f.Options) == 0 {
		return appErrors.Validation("Validation error: select fields need at least one option")
	}
	return nil
}

// List returns active fields, newest first.
func (s *CustomFieldService) List(ctx context.Context, identity *model.User) ([]*model.CustomField, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return s.FieldRepo.ListActive(ctx)
}

func (s *CustomFieldService) Get(ctx context.Context, identity *model.User, id string) (*model.CustomField, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return s.FieldRepo.GetByID(ctx, id)
}

func (s *CustomFieldService) Create(ctx context.Context, identity *model.User, in CustomFieldInput) (*model.CustomField, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	f := &model.CustomField{Type: model.CustomFieldText, Options: []string{}, IsActive: true}
	in.applyTo(f)
	if err := validateCustomField(f); err != nil {
		return nil, err
	}
	if err := s.FieldRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityFieldCreated, identity, f.ID, map[string]any{"name": f.Name})
	return f, nil
}

func (s *CustomFieldService) Update(ctx context.Context, identity *model.User, id string, in CustomFieldInput) (*model.CustomField, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	f, err := s.FieldRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(f)
	if err := validateCustomField(f); err != nil {
		return nil, err
	}
	if err := s.FieldRepo.Update(ctx, f); err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityFieldUpdated, identity, f.ID, nil)
	return f, nil
}

// Delete removes the definition only; stored campaign values are kept.
func (s *CustomFieldService) Delete(ctx context.Context, identity *model.User, id string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	if err := s.FieldRepo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.Events, model.ActivityFieldDeleted, identity, id, nil)
	return nil
}
