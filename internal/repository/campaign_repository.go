package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/unclebandit/campaign-access-backend/internal/access"
	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	List(ctx context.Context, scope access.Scope) ([]*model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	Create(ctx context.Context, c *model.Campaign) error
	Update(ctx context.Context, c *model.Campaign) error
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*model.Campaign, error)
	Summaries(ctx context.Context, ids []string) ([]model.CampaignSummary, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, status, delivery, actions, results, cost_per_result, budget,
	amount_spent, impressions, reach, end_date, active, objective, bid_strategy, daily_budget,
	lifetime_budget, start_date, target_audience, placement, custom_fields, created_at, updated_at`

func scanCampaign(row scanner) (*model.Campaign, error) {
	c := &model.Campaign{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Status, &c.Delivery, &c.Actions, &c.Results, &c.CostPerResult, &c.Budget,
		&c.AmountSpent, &c.Impressions, &c.Reach, &c.EndDate, &c.Active, &c.Objective, &c.BidStrategy,
		&c.DailyBudget, &c.LifetimeBudget, &c.StartDate, &c.TargetAudience, &c.Placement,
		&c.CustomFields, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// scopeFilter turns a scope into a WHERE clause. skip is true when the scope
// cannot match any row and the query should not run at all.
func scopeFilter(scope access.Scope) (clause string, args []any, skip bool) {
	if !scope.Filtered() {
		return "", nil, false
	}
	if scope.Empty() {
		return "", nil, true
	}
	ids := make([]string, 0, len(scope.IDs()))
	for _, id := range scope.IDs() {
		// Malformed ids would abort the uuid[] cast; they can never match.
		if validID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", nil, true
	}
	return " WHERE id = ANY($1::uuid[])", []any{pq.Array(ids)}, false
}

func (r *CampaignRepository) List(ctx context.Context, scope access.Scope) ([]*model.Campaign, error) {
	clause, args, skip := scopeFilter(scope)
	if skip {
		return []*model.Campaign{}, nil
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns` + clause + ` ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	if !validID(id) {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	query := `
		INSERT INTO campaigns (name, status, delivery, actions, results, cost_per_result, budget,
			amount_spent, impressions, reach, end_date, active, objective, bid_strategy, daily_budget,
			lifetime_budget, start_date, target_audience, placement, custom_fields)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.Name, c.Status, c.Delivery, c.Actions, c.Results, c.CostPerResult, c.Budget,
		c.AmountSpent, c.Impressions, c.Reach, c.EndDate, c.Active, c.Objective, c.BidStrategy,
		c.DailyBudget, c.LifetimeBudget, c.StartDate, c.TargetAudience, c.Placement, c.CustomFields,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// Update writes every column of c. Callers merge partial input first.
func (r *CampaignRepository) Update(ctx context.Context, c *model.Campaign) error {
	if !validID(c.ID) {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	query := `
		UPDATE campaigns SET name=$1, status=$2, delivery=$3, actions=$4, results=$5,
			cost_per_result=$6, budget=$7, amount_spent=$8, impressions=$9, reach=$10, end_date=$11,
			active=$12, objective=$13, bid_strategy=$14, daily_budget=$15, lifetime_budget=$16,
			start_date=$17, target_audience=$18, placement=$19, custom_fields=$20, updated_at=NOW()
		WHERE id=$21
		RETURNING updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.Name, c.Status, c.Delivery, c.Actions, c.Results, c.CostPerResult, c.Budget,
		c.AmountSpent, c.Impressions, c.Reach, c.EndDate, c.Active, c.Objective, c.BidStrategy,
		c.DailyBudget, c.LifetimeBudget, c.StartDate, c.TargetAudience, c.Placement, c.CustomFields,
		c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NewCampaignNotFound(c.ID)
		}
		return fmt.Errorf("update campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return appErrors.NewCampaignNotFound(id)
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

// ToggleActive flips the active flag in a single statement.
func (r *CampaignRepository) ToggleActive(ctx context.Context, id string) (*model.Campaign, error) {
	if !validID(id) {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	row := r.DB.QueryRowContext(ctx,
		`UPDATE campaigns SET active = NOT active, updated_at = NOW() WHERE id = $1 RETURNING `+campaignColumns, id)
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, fmt.Errorf("toggle campaign: %w", err)
	}
	return c, nil
}

// Summaries returns the short form of the given campaigns, newest first.
// Unknown ids are skipped.
func (r *CampaignRepository) Summaries(ctx context.Context, ids []string) ([]model.CampaignSummary, error) {
	clause, args, skip := scopeFilter(access.AllowlistScope(ids))
	if skip {
		return []model.CampaignSummary{}, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, status, delivery FROM campaigns`+clause+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("campaign summaries: %w", err)
	}
	defer rows.Close()

	out := []model.CampaignSummary{}
	for rows.Next() {
		var s model.CampaignSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Status, &s.Delivery); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
