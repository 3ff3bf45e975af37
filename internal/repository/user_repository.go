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

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *model.User) error
	CreateBootstrapAdmin(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListViewers(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	UpdateGrant(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int, error)
}

type UserRepository struct {
	DB *sql.DB
}

// bootstrapLockKey serialises concurrent setup-admin calls.
const bootstrapLockKey = 726354001

const userColumns = `id, name, email, password_hash, role, allowed_campaigns, view_all_campaigns,
	visible_fields, is_active, created_by, created_at, updated_at`

func errEmailTaken() error { return appErrors.Conflict("Email already registered") }

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanUser(row scanner) (*model.User, error) {
	u := &model.User{}
	var allowed pq.StringArray
	var visible pq.StringArray
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &allowed, &u.ViewAllCampaigns,
		&visible, &u.IsActive, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.AllowedCampaigns = []string(allowed)
	if u.AllowedCampaigns == nil {
		u.AllowedCampaigns = []string{}
	}
	u.VisibleFields = toFieldKeys(visible)
	return u, nil
}

// toFieldKeys keeps NULL (unset) distinct from an empty list.
func toFieldKeys(a pq.StringArray) []model.FieldKey {
	if a == nil {
		return nil
	}
	out := make([]model.FieldKey, len(a))
	for i, k := range a {
		out[i] = model.FieldKey(k)
	}
	return out
}

func fromFieldKeys(keys []model.FieldKey) pq.StringArray {
	if keys == nil {
		return nil
	}
	out := make(pq.StringArray, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func allowlist(ids []string) pq.StringArray {
	if ids == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(ids)
}

func insertUser(ctx context.Context, q queryer, u *model.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, allowed_campaigns, view_all_campaigns,
			visible_fields, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role, allowlist(u.AllowedCampaigns),
		u.ViewAllCampaigns, fromFieldKeys(u.VisibleFields), u.IsActive, u.CreatedBy,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errEmailTaken()
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return insertUser(ctx, r.DB, u)
}

// CreateBootstrapAdmin inserts u as an admin only while no admin exists.
// The advisory lock makes the check and the insert atomic across callers.
func (r *UserRepository) CreateBootstrapAdmin(ctx context.Context, u *model.User) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bootstrap: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockKey); err != nil {
		return fmt.Errorf("bootstrap lock: %w", err)
	}

	var admins int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&admins); err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return appErrors.NewAdminExists()
	}

	u.Role = model.RoleAdmin
	if err := insertUser(ctx, tx, u); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !validID(id) {
		return nil, appErrors.NewUserNotFound(id)
	}
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewUserNotFound(id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewUserNotFound(email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ListViewers(ctx context.Context) ([]*model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = 'viewer' ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	if !validID(u.ID) {
		return appErrors.NewUserNotFound(u.ID)
	}
	err := r.DB.QueryRowContext(ctx, `
		UPDATE users SET name=$1, email=$2, is_active=$3, view_all_campaigns=$4, updated_at=NOW()
		WHERE id=$5
		RETURNING updated_at`,
		u.Name, u.Email, u.IsActive, u.ViewAllCampaigns, u.ID,
	).Scan(&u.UpdatedAt)
	return userWriteErr(err, u.ID, "update user")
}

func (r *UserRepository) UpdateGrant(ctx context.Context, u *model.User) error {
	if !validID(u.ID) {
		return appErrors.NewUserNotFound(u.ID)
	}
	err := r.DB.QueryRowContext(ctx, `
		UPDATE users SET allowed_campaigns=$1, view_all_campaigns=$2, visible_fields=$3, updated_at=NOW()
		WHERE id=$4
		RETURNING updated_at`,
		allowlist(u.AllowedCampaigns), u.ViewAllCampaigns, fromFieldKeys(u.VisibleFields), u.ID,
	).Scan(&u.UpdatedAt)
	return userWriteErr(err, u.ID, "update grant")
}

func userWriteErr(err error, id, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.NewUserNotFound(id)
	case isUniqueViolation(err):
		return errEmailTaken()
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return appErrors.NewUserNotFound(id)
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete user: %w", err)
	} else if n == 0 {
		return appErrors.NewUserNotFound(id)
	}
	return nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}
