// internal/model/campaign.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// CopySuffix is appended to the name of a duplicated campaign.
const CopySuffix = " (Copy)"

type Campaign struct {
	ID             string       `db:"id" json:"id"`
	Name           string       `db:"name" json:"name" validate:"required"`
	Status         string       `db:"status" json:"status" validate:"oneof=draft active scheduled paused completed"`
	Delivery       string       `db:"delivery" json:"delivery"`
	Actions        string       `db:"actions" json:"actions"`
	Results        string       `db:"results" json:"results"`
	CostPerResult  string       `db:"cost_per_result" json:"costPerResult"`
	Budget         string       `db:"budget" json:"budget"`
	AmountSpent    string       `db:"amount_spent" json:"amountSpent"`
	Impressions    string       `db:"impressions" json:"impressions"`
	Reach          string       `db:"reach" json:"reach"`
	EndDate        string       `db:"end_date" json:"endDate"`
	Active         bool         `db:"active" json:"active"`
	Objective      string       `db:"objective" json:"objective" validate:"required,oneof=awareness traffic engagement leads sales app_promotion"`
	BidStrategy    string       `db:"bid_strategy" json:"bidStrategy" validate:"oneof=lowest_cost cost_cap bid_cap highest_value"`
	DailyBudget    string       `db:"daily_budget" json:"dailyBudget"`
	LifetimeBudget string       `db:"lifetime_budget" json:"lifetimeBudget"`
	StartDate      string       `db:"start_date" json:"startDate"`
	TargetAudience string       `db:"target_audience" json:"targetAudience"`
	Placement      string       `db:"placement" json:"placement" validate:"oneof=automatic manual facebook_only instagram_only"`
	CustomFields   CustomValues `db:"custom_fields" json:"customFields"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}

// NewCampaign returns a campaign carrying the documented defaults.
func NewCampaign() *Campaign {
	return &Campaign{
		Status:        CampaignStatusDraft,
		Delivery:      "In draft",
		Results:       "—",
		CostPerResult: "—",
		Budget:        "Using ad set budget",
		AmountSpent:   "$0.00",
		Impressions:   "—",
		Reach:         "—",
		EndDate:       "Ongoing",
		BidStrategy:   "lowest_cost",
		Placement:     "automatic",
		CustomFields:  CustomValues{},
	}
}

// Duplicate copies every attribute except identity and timestamps.
func (c *Campaign) Duplicate() *Campaign {
	cp := *c
	cp.ID = ""
	cp.CreatedAt = time.Time{}
	cp.UpdatedAt = time.Time{}
	cp.Name = c.Name + CopySuffix
	cp.CustomFields = c.CustomFields.Clone()
	return &cp
}

// FieldValue returns the value of a catalog field.
func (c *Campaign) FieldValue(key FieldKey) (any, bool) {
	switch key {
	case FieldName:
		return c.Name, true
	case FieldDelivery:
		return c.Delivery, true
	case FieldStatus:
		return c.Status, true
	case FieldActions:
		return c.Actions, true
	case FieldResults:
		return c.Results, true
	case FieldCostPerResult:
		return c.CostPerResult, true
	case FieldBudget:
		return c.Budget, true
	case FieldAmountSpent:
		return c.AmountSpent, true
	case FieldImpressions:
		return c.Impressions, true
	case FieldReach:
		return c.Reach, true
	case FieldEndDate:
		return c.EndDate, true
	case FieldActive:
		return c.Active, true
	}
	return nil, false
}

// CampaignSummary is the short form shown next to a viewer's grant.
type CampaignSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Delivery string `json:"delivery"`
}

// CustomValues holds values keyed by custom field name, stored as JSONB.
type CustomValues map[string]any

func (v CustomValues) Clone() CustomValues {
	out := make(CustomValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

func (v CustomValues) Value() (driver.Value, error) {
	if v == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (v *CustomValues) Scan(src any) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		*v = CustomValues{}
		return nil
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	default:
		return fmt.Errorf("custom values: unsupported type %T", src)
	}
	out := CustomValues{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("custom values: %w", err)
	}
	*v = out
	return nil
}
