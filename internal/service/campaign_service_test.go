package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/service"
)

func strPtr(s string) *string { return &s }

func newCampaignService() (*service.CampaignService, *MockCampaignRepo, *RecordingEmitter) {
	repo := NewMockCampaignRepo()
	events := &RecordingEmitter{}
	return &service.CampaignService{CampaignRepo: repo, Events: events}, repo, events
}

func TestListEmptyAllowlistSkipsStore(t *testing.T) {
	svc, repo, _ := newCampaignService()
	repo.seed("A")
	before := repo.Calls()

	views, err := svc.List(context.Background(), viewerUser(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected no campaigns, got %d", len(views))
	}
	if repo.Calls() != before {
		t.Fatalf("expected zero store calls, got %d", repo.Calls()-before)
	}
}

func TestListScopes(t *testing.T) {
	svc, repo, _ := newCampaignService()
	a := repo.seed("A")
	b := repo.seed("B")
	repo.seed("C")
	ctx := context.Background()

	all, _ := svc.List(ctx, adminUser())
	if len(all) != 3 {
		t.Fatalf("admin should see 3 campaigns, got %d", len(all))
	}
	if all[0].Campaign().Name != "C" {
		t.Errorf("expected newest first, got %s", all[0].Campaign().Name)
	}

	viewAll, _ := svc.List(ctx, viewerUser(true))
	if len(viewAll) != 3 {
		t.Fatalf("view-all viewer should see 3 campaigns, got %d", len(viewAll))
	}

	limited, _ := svc.List(ctx, viewerUser(false, a.ID, b.ID))
	if len(limited) != 2 {
		t.Fatalf("allowlisted viewer should see 2 campaigns, got %d", len(limited))
	}
}

func TestListProjectsVisibleFields(t *testing.T) {
	svc, repo, _ := newCampaignService()
	c := repo.seed("A")
	v := viewerUser(false, c.ID)
	v.VisibleFields = []model.FieldKey{model.FieldName, model.FieldStatus}

	views, err := svc.List(context.Background(), v)
	if err != nil || len(views) != 1 {
		t.Fatalf("expected one view, got %d (%v)", len(views), err)
	}
	raw, _ := json.Marshal(views[0])
	var got map[string]any
	_ = json.Unmarshal(raw, &got)
	if len(got) != 5 {
		t.Errorf("expected id, timestamps, name and status only, got %v", got)
	}
	if _, ok := got["budget"]; ok {
		t.Errorf("budget must be hidden")
	}
}

func TestGetForbiddenVersusNotFound(t *testing.T) {
	svc, repo, _ := newCampaignService()
	a := repo.seed("A")
	b := repo.seed("B")
	c := repo.seed("C")
	v := viewerUser(false, a.ID, b.ID)
	ctx := context.Background()

	if _, err := svc.Get(ctx, v, a.ID); err != nil {
		t.Fatalf("allowlisted campaign should be readable: %v", err)
	}

	_, err := svc.Get(ctx, v, c.ID)
	appErr, ok := appErrors.As(err)
	if !ok || appErr.Kind.HTTPStatus() != 403 || appErr.Message != "Access denied to this campaign" {
		t.Fatalf("expected 403, got %v", err)
	}

	_, err = svc.Get(ctx, v, uuid.NewString())
	if !errors.Is(err, appErrors.ErrNotFound) {
		t.Fatalf("expected not found for a missing campaign, got %v", err)
	}
}

func TestCreateAppliesDefaultsAndValidates(t *testing.T) {
	svc, _, events := newCampaignService()
	ctx := context.Background()

	c, err := svc.Create(ctx, adminUser(), service.CampaignInput{Name: strPtr("Launch"), Objective: strPtr("sales")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != "draft" || c.Delivery != "In draft" || c.AmountSpent != "$0.00" || c.Active {
		t.Errorf("defaults not applied: %+v", c)
	}
	if got := events.Types(); len(got) != 1 || got[0] != model.ActivityCampaignCreated {
		t.Errorf("expected created event, got %v", got)
	}

	_, err = svc.Create(ctx, adminUser(), service.CampaignInput{Name: strPtr("NoObjective")})
	if !errors.Is(err, appErrors.ErrValidation) {
		t.Errorf("expected validation error without objective, got %v", err)
	}

	_, err = svc.Create(ctx, adminUser(), service.CampaignInput{Name: strPtr("X"), Objective: strPtr("sales"), Status: strPtr("archived")})
	if !errors.Is(err, appErrors.ErrValidation) {
		t.Errorf("expected validation error for bad status, got %v", err)
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	svc, repo, _ := newCampaignService()
	c := repo.seed("A")
	v := viewerUser(true)
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["create"] = svc.Create(ctx, v, service.CampaignInput{Name: strPtr("X"), Objective: strPtr("sales")})
	_, checks["update"] = svc.Update(ctx, v, c.ID, service.CampaignInput{Name: strPtr("Y")})
	checks["delete"] = svc.Delete(ctx, v, c.ID)
	_, checks["duplicate"] = svc.Duplicate(ctx, v, c.ID)
	_, checks["toggle"] = svc.ToggleActive(ctx, v, c.ID)

	for op, err := range checks {
		if !errors.Is(err, appErrors.ErrForbidden) {
			t.Errorf("%s: expected forbidden, got %v", op, err)
		}
	}
}

func TestUpdateIsPartial(t *testing.T) {
	svc, repo, _ := newCampaignService()
	c := repo.seed("A")
	ctx := context.Background()

	got, err := svc.Update(ctx, adminUser(), c.ID, service.CampaignInput{Budget: strPtr("$500")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Budget != "$500" || got.Name != "A" || got.Objective != "traffic" {
		t.Errorf("unexpected record after partial update: %+v", got)
	}

	_, err = svc.Update(ctx, adminUser(), c.ID, service.CampaignInput{Name: strPtr("")})
	if !errors.Is(err, appErrors.ErrValidation) {
		t.Errorf("clearing the name must fail validation, got %v", err)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	svc, repo, _ := newCampaignService()
	c := repo.seed("A")
	ctx := context.Background()
	admin := adminUser()

	first, err := svc.ToggleActive(ctx, admin, c.ID)
	if err != nil || first.Active != !c.Active {
		t.Fatalf("first toggle: %+v (%v)", first, err)
	}
	second, err := svc.ToggleActive(ctx, admin, c.ID)
	if err != nil || second.Active != c.Active {
		t.Fatalf("second toggle should restore active, got %+v (%v)", second, err)
	}
	if second.Status != c.Status || second.Name != c.Name {
		t.Errorf("toggle must only change active")
	}
}

func TestDuplicate(t *testing.T) {
	svc, repo, _ := newCampaignService()
	orig := repo.seed("Launch")
	orig.Budget = "$10"
	orig.CustomFields = model.CustomValues{"region": "EU"}
	_ = repo.Update(context.Background(), orig)

	dup, err := svc.Duplicate(context.Background(), adminUser(), orig.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == orig.ID || dup.ID == "" {
		t.Errorf("duplicate needs a fresh id")
	}
	if dup.Name != "Launch (Copy)" {
		t.Errorf("expected copy suffix, got %q", dup.Name)
	}

	a, b := *orig, *dup
	a.ID, b.ID = "", ""
	a.Name, b.Name = "", ""
	a.CreatedAt = b.CreatedAt
	a.UpdatedAt = b.UpdatedAt
	ra, _ := json.Marshal(a)
	rb, _ := json.Marshal(b)
	if string(ra) != string(rb) {
		t.Errorf("duplicate differs beyond id, timestamps and name:\n%s\n%s", ra, rb)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc, _, events := newCampaignService()
	err := svc.Delete(context.Background(), adminUser(), uuid.NewString())
	if !errors.Is(err, appErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(events.Types()) != 0 {
		t.Errorf("failed mutations must not emit activity")
	}
}
