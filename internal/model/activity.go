// internal/model/activity.go
package model

import "time"

// Activity event types.
const (
	ActivityAdminBootstrapped  = "admin.bootstrapped"
	ActivityUserRegistered     = "user.registered"
	ActivityUserUpdated        = "user.updated"
	ActivityUserDeleted        = "user.deleted"
	ActivityGrantUpdated       = "grant.updated"
	ActivityCampaignCreated    = "campaign.created"
	ActivityCampaignUpdated    = "campaign.updated"
	ActivityCampaignDeleted    = "campaign.deleted"
	ActivityCampaignDuplicated = "campaign.duplicated"
	ActivityCampaignToggled    = "campaign.toggled"
	ActivityFieldCreated       = "custom_field.created"
	ActivityFieldUpdated       = "custom_field.updated"
	ActivityFieldDeleted       = "custom_field.deleted"
	ActivityContentSaved       = "content.saved"
	ActivityLinksUpdated       = "content.links_updated"
	ActivityMediaDeleted       = "content.media_deleted"
)

// ActivityEvent records one successful mutation.
type ActivityEvent struct {
	ID         int64          `db:"id" json:"id,omitempty"`
	Type       string         `db:"type" json:"type"`
	ActorID    string         `db:"actor_id" json:"actorId"`
	SubjectID  string         `db:"subject_id" json:"subjectId"`
	Detail     map[string]any `db:"detail" json:"detail,omitempty"`
	OccurredAt time.Time      `db:"occurred_at" json:"occurredAt"`
}
