package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
)

type CustomFieldRepositoryInterface interface {
	ListActive(ctx context.Context) ([]*model.CustomField, error)
	GetByID(ctx context.Context, id string) (*model.CustomField, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, f *model.CustomField) error
	Update(ctx context.Context, f *model.CustomField) error
	Delete(ctx context.Context, id string) error
}

type CustomFieldRepository struct {
	DB *sql.DB
}

const customFieldColumns = `id, name, label, type, required, placeholder, description, options, is_active,
	created_at, updated_at`

func errFieldNameTaken() error {
	return appErrors.Conflict("A field with this name already exists")
}

func scanCustomField(row scanner) (*model.CustomField, error) {
	f := &model.CustomField{}
	var options pq.StringArray
	err := row.Scan(&f.ID, &f.Name, &f.Label, &f.Type, &f.Required, &f.Placeholder, &f.Description,
		&options, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.Options = []string(options)
	if f.Options == nil {
		f.Options = []string{}
	}
	return f, nil
}

func (r *CustomFieldRepository) ListActive(ctx context.Context) ([]*model.CustomField, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+customFieldColumns+` FROM custom_fields WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list custom fields: %w", err)
	}
	defer rows.Close()

	fields := []*model.CustomField{}
	for rows.Next() {
		f, err := scanCustomField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan custom field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (r *CustomFieldRepository) GetByID(ctx context.Context, id string) (*model.CustomField, error) {
	if !validID(id) {
		return nil, appErrors.NewCustomFieldNotFound(id)
	}
	f, err := scanCustomField(r.DB.QueryRowContext(ctx,
		`SELECT `+customFieldColumns+` FROM custom_fields WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCustomFieldNotFound(id)
		}
		return nil, fmt.Errorf("get custom field: %w", err)
	}
	return f, nil
}

func (r *CustomFieldRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM custom_fields WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("custom field exists: %w", err)
	}
	return exists, nil
}

func (r *CustomFieldRepository) Create(ctx context.Context, f *model.CustomField) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO custom_fields (name, label, type, required, placeholder, description, options, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		f.Name, f.Label, f.Type, f.Required, f.Placeholder, f.Description, pq.Array(f.Options), f.IsActive,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errFieldNameTaken()
		}
		return fmt.Errorf("create custom field: %w", err)
	}
	return nil
}

func (r *CustomFieldRepository) Update(ctx context.Context, f *model.CustomField) error {
	if !validID(f.ID) {
		return appErrors.NewCustomFieldNotFound(f.ID)
	}
	err := r.DB.QueryRowContext(ctx, `
		UPDATE custom_fields SET name=$1, label=$2, type=$3, required=$4, placeholder=$5, description=$6,
			options=$7, is_active=$8, updated_at=NOW()
		WHERE id=$9
		RETURNING updated_at`,
		f.Name, f.Label, f.Type, f.Required, f.Placeholder, f.Description, pq.Array(f.Options), f.IsActive, f.ID,
	).Scan(&f.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.NewCustomFieldNotFound(f.ID)
	case isUniqueViolation(err):
		return errFieldNameTaken()
	}
	return fmt.Errorf("update custom field: %w", err)
}

func (r *CustomFieldRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return appErrors.NewCustomFieldNotFound(id)
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM custom_fields WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete custom field: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete custom field: %w", err)
	}
	if n == 0 {
		return appErrors.NewCustomFieldNotFound(id)
	}
	return nil
}
