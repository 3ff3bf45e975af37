package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

type MockFieldStore struct {
	names   map[string]bool
	created []*model.CustomField
}

func (m *MockFieldStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return m.names[name], nil
}

func (m *MockFieldStore) Create(ctx context.Context, f *model.CustomField) error {
	m.names[f.Name] = true
	m.created = append(m.created, f)
	return nil
}

type MockCampaignStore struct {
	created []*model.Campaign
}

func (m *MockCampaignStore) Create(ctx context.Context, c *model.Campaign) error {
	m.created = append(m.created, c)
	return nil
}

func TestSeedFixturesFile(t *testing.T) {
	fx, err := loadFixtures(filepath.Join("..", "..", "seed", "fixtures.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fields := &MockFieldStore{names: map[string]bool{"agency": true}}
	campaigns := &MockCampaignStore{}

	r, err := seed(context.Background(), fx, fields, campaigns, slog.Default())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if r.SkippedFields != 1 || r.Fields != len(fx.CustomFields)-1 {
		t.Errorf("expected existing field skipped, got %+v", r)
	}
	if r.Campaigns != len(fx.Campaigns) || len(campaigns.created) != len(fx.Campaigns) {
		t.Fatalf("expected every campaign inserted, got %+v", r)
	}

	last := campaigns.created[len(campaigns.created)-1]
	if last.Status != model.CampaignStatusDraft || last.Placement != "automatic" {
		t.Errorf("defaults not applied: %+v", last)
	}
	if campaigns.created[0].CustomFields["region"] != "EMEA" {
		t.Errorf("custom values not carried: %v", campaigns.created[0].CustomFields)
	}
}

func TestSeedRejectsInvalidCampaign(t *testing.T) {
	fx := Fixtures{Campaigns: []CampaignFixture{{Name: "No objective"}}}
	_, err := seed(context.Background(), fx, &MockFieldStore{names: map[string]bool{}}, &MockCampaignStore{}, slog.Default())
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadFixturesMissingFile(t *testing.T) {
	if _, err := loadFixtures(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("campaigns: [::"), 0o600)
	if _, err := loadFixtures(path); err == nil {
		t.Fatal("expected parse error")
	}
}
