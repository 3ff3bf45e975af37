// Package access decides, per identity and per request, which campaigns and
// which campaign fields are visible or mutable.
//
// Every decision is computed from the identity passed in; nothing is cached
// between requests, so grant changes apply to the next request.
package access

import (
	"slices"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

// ScopeKind tags the variant held by a Scope.
type ScopeKind int

const (
	// Unrestricted is the admin scope.
	Unrestricted ScopeKind = iota + 1
	// All is a viewer with the view-all override.
	All
	// Allowlist is a viewer limited to explicit campaign ids.
	Allowlist
)

func (k ScopeKind) String() string {
	switch k {
	case Unrestricted:
		return "unrestricted"
	case All:
		return "all"
	case Allowlist:
		return "allowlist"
	}
	return "unknown"
}

// Scope is the campaign visibility for one request. The zero value is an
// empty allowlist and grants nothing.
type Scope struct {
	kind ScopeKind
	ids  []string
}

func UnrestrictedScope() Scope { return Scope{kind: Unrestricted} }
func AllScope() Scope { return Scope{kind: All} }

// AllowlistScope copies ids and drops duplicates and blanks.
func AllowlistScope(ids []string) Scope {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return Scope{kind: Allowlist, ids: out}
}

func (s Scope) Kind() ScopeKind {
	if s.kind == 0 {
		return Allowlist
	}
	return s.kind
}

// IDs returns a copy of the allowlist; nil for the other variants.
func (s Scope) IDs() []string {
	if s.Kind() != Allowlist {
		return nil
	}
	return slices.Clone(s.ids)
}

// Empty reports whether the scope can match no campaign at all. Callers must
// short-circuit instead of issuing a query with an empty filter.
func (s Scope) Empty() bool {
	return s.Kind() == Allowlist && len(s.ids) == 0
}

// Filtered reports whether the store query needs an id filter.
func (s Scope) Filtered() bool {
	return s.Kind() == Allowlist
}

func (s Scope) Contains(id string) bool {
	switch s.Kind() {
	case Unrestricted, All:
		return true
	}
	return slices.Contains(s.ids, id)
}

// CampaignScope computes the campaign scope of identity. viewAllCampaigns
// wins over the allowlist; the two are never merged.
func CampaignScope(identity *model.User) Scope {
	if identity == nil {
		return Scope{}
	}
	switch identity.Role {
	case model.RoleAdmin:
		return UnrestrictedScope()
	case model.RoleViewer:
		if identity.ViewAllCampaigns {
			return AllScope()
		}
		return AllowlistScope(identity.AllowedCampaigns)
	}
	return Scope{}
}

// CanAccessCampaign gates single-record reads.
func CanAccessCampaign(identity *model.User, campaignID string) bool {
	return CampaignScope(identity).Contains(campaignID)
}

// CanMutate is true only for admins; viewers are read-only everywhere.
func CanMutate(identity *model.User) bool {
	return identity.IsAdmin()
}
