package access

import (
	"encoding/json"
	"slices"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

// Projection is the set of campaign fields an identity may see.
type Projection struct {
	full bool
	keys []model.FieldKey
}

// FullProjection exposes the whole record, including non-catalog attributes.
func FullProjection() Projection {
	return Projection{full: true, keys: model.DefaultVisibleFields()}
}

// FieldsProjection exposes only the given catalog keys. Unknown keys are
// dropped.
func FieldsProjection(keys []model.FieldKey) Projection {
	out := make([]model.FieldKey, 0, len(keys))
	for _, k := range keys {
		if k.Valid() && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return Projection{keys: out}
}

// FieldProjection returns all known fields for admins and the viewer's
// visible fields otherwise, defaulting to the catalog when unset.
func FieldProjection(identity *model.User) Projection {
	if identity.IsAdmin() {
		return FullProjection()
	}
	if identity == nil || identity.Role != model.RoleViewer {
		return Projection{}
	}
	return FieldsProjection(identity.EffectiveVisibleFields())
}

func (p Projection) Full() bool { return p.full }

func (p Projection) Keys() []model.FieldKey { return slices.Clone(p.keys) }

func (p Projection) Has(key model.FieldKey) bool {
	return slices.Contains(p.keys, key)
}

// CampaignView is a campaign serialised through a projection.
type CampaignView struct {
	campaign   *model.Campaign
	projection Projection
}

func Project(c *model.Campaign, p Projection) CampaignView {
	return CampaignView{campaign: c, projection: p}
}

func ProjectAll(cs []*model.Campaign, p Projection) []CampaignView {
	out := make([]CampaignView, 0, len(cs))
	for _, c := range cs {
		out = append(out, Project(c, p))
	}
	return out
}

func (v CampaignView) Campaign() *model.Campaign { return v.campaign }

// Fields returns the serialisable field map: id, timestamps and the visible
// catalog keys for restricted projections.
func (v CampaignView) Fields() map[string]any {
	out := map[string]any{
		"id":        v.campaign.ID,
		"createdAt": v.campaign.CreatedAt,
		"updatedAt": v.campaign.UpdatedAt,
	}
	for _, key := range v.projection.keys {
		if val, ok := v.campaign.FieldValue(key); ok {
			out[string(key)] = val
		}
	}
	return out
}

func (v CampaignView) MarshalJSON() ([]byte, error) {
	if v.projection.full {
		return json.Marshal(v.campaign)
	}
	return json.Marshal(v.Fields())
}
