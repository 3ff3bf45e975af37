// internal/model/user.go
package model

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// User is an authenticated identity. AllowedCampaigns, ViewAllCampaigns and
// VisibleFields form the viewer's grant and are ignored for admins.
type User struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Role             Role       `db:"role" json:"role"`
	AllowedCampaigns []string   `db:"allowed_campaigns" json:"allowedCampaigns"`
	ViewAllCampaigns bool       `db:"view_all_campaigns" json:"viewAllCampaigns"`
	VisibleFields    []FieldKey `db:"visible_fields" json:"visibleFields"`
	IsActive         bool       `db:"is_active" json:"isActive"`
	CreatedBy        *string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// EffectiveVisibleFields falls back to the full catalog when the grant has
// never been set.
func (u *User) EffectiveVisibleFields() []FieldKey {
	if u.VisibleFields == nil {
		return DefaultVisibleFields()
	}
	out := make([]FieldKey, len(u.VisibleFields))
	copy(out, u.VisibleFields)
	return out
}

// Profile is the password-free payload returned by the auth endpoints.
type Profile struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             Role       `json:"role"`
	AllowedCampaigns []string   `json:"allowedCampaigns"`
	ViewAllCampaigns bool       `json:"viewAllCampaigns"`
	VisibleFields    []FieldKey `json:"visibleFields"`
}

func (u *User) Profile() Profile {
	allowed := u.AllowedCampaigns
	if allowed == nil {
		allowed = []string{}
	}
	return Profile{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		AllowedCampaigns: allowed,
		ViewAllCampaigns: u.ViewAllCampaigns,
		VisibleFields:    u.EffectiveVisibleFields(),
	}
}

// UserDetail is a user together with summaries of the campaigns it may see.
type UserDetail struct {
	*User
	Campaigns []CampaignSummary `json:"campaigns"`
}
