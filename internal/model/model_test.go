package model_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

func TestDuplicateKeepsEverythingButIdentity(t *testing.T) {
	orig := model.NewCampaign()
	orig.ID = "c1"
	orig.Name = "Spring Sale"
	orig.Objective = "sales"
	orig.Active = true
	orig.Budget = "$500"
	orig.CustomFields = model.CustomValues{"region": "EU"}
	orig.CreatedAt = time.Now()
	orig.UpdatedAt = time.Now()

	dup := orig.Duplicate()

	if dup.ID != "" || !dup.CreatedAt.IsZero() || !dup.UpdatedAt.IsZero() {
		t.Fatalf("identity and timestamps must be cleared, got %+v", dup)
	}
	if dup.Name != "Spring Sale (Copy)" {
		t.Errorf("unexpected name %q", dup.Name)
	}

	// Every other field must match.
	a, b := *orig, *dup
	a.ID, a.CreatedAt, a.UpdatedAt, a.Name = "", time.Time{}, time.Time{}, ""
	b.Name = ""
	if !reflect.DeepEqual(a, b) {
		t.Errorf("duplicate differs:\n%+v\n%+v", a, b)
	}

	dup.CustomFields["region"] = "US"
	if orig.CustomFields["region"] != "EU" {
		t.Error("custom fields must be deep copied")
	}
}

func TestFieldValueCoversCatalog(t *testing.T) {
	c := model.NewCampaign()
	for _, key := range model.DefaultVisibleFields() {
		if _, ok := c.FieldValue(key); !ok {
			t.Errorf("catalog key %q has no value accessor", key)
		}
	}
	if _, ok := c.FieldValue("objective"); ok {
		t.Error("objective is not a catalog key")
	}
	if len(model.FieldCatalog()) != 12 {
		t.Errorf("expected 12 catalog entries, got %d", len(model.FieldCatalog()))
	}
}

func TestEffectiveVisibleFields(t *testing.T) {
	u := &model.User{Role: model.RoleViewer}
	if got := u.EffectiveVisibleFields(); len(got) != 12 {
		t.Errorf("unset grant should default to full catalog, got %v", got)
	}

	u.VisibleFields = []model.FieldKey{}
	if got := u.EffectiveVisibleFields(); len(got) != 0 {
		t.Errorf("explicitly empty grant must stay empty, got %v", got)
	}

	u.VisibleFields = []model.FieldKey{model.FieldName, model.FieldStatus}
	p := u.Profile()
	if !reflect.DeepEqual(p.VisibleFields, []model.FieldKey{"name", "status"}) {
		t.Errorf("unexpected profile fields %v", p.VisibleFields)
	}
	if p.AllowedCampaigns == nil {
		t.Error("profile should never emit a null allowlist")
	}
}

func TestRemoveMedia(t *testing.T) {
	c := &model.CampaignContent{Media: model.MediaItems{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	item, ok := c.RemoveMedia("b")
	if !ok || item.ID != "b" {
		t.Fatalf("expected to remove b, got %+v %v", item, ok)
	}
	if len(c.Media) != 2 || c.Media[0].ID != "a" || c.Media[1].ID != "c" {
		t.Errorf("unexpected remaining media %+v", c.Media)
	}
	if _, ok := c.RemoveMedia("zzz"); ok {
		t.Error("unknown id should not be removed")
	}
}

func TestCustomValuesScan(t *testing.T) {
	var v model.CustomValues
	if err := v.Scan([]byte(`{"tier":"gold","score":3}`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if v["tier"] != "gold" {
		t.Errorf("unexpected values %v", v)
	}
	if err := v.Scan(nil); err != nil || v == nil || len(v) != 0 {
		t.Errorf("NULL should scan to an empty map, got %v %v", v, err)
	}
}
