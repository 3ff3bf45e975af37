package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/service"
)

type MockActivityStore struct {
	events []model.ActivityEvent
	err    error
}

func (m *MockActivityStore) Insert(ctx context.Context, e *model.ActivityEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *e)
	return nil
}

func TestActivityWorkerHandle(t *testing.T) {
	store := &MockActivityStore{}
	w := service.NewActivityWorker(store, nil)

	if err := w.Handle(model.ActivityEvent{Type: model.ActivityCampaignCreated, SubjectID: "c1"}); err != nil {
		t.Fatalf("in-process payload: %v", err)
	}
	body, _ := json.Marshal(model.ActivityEvent{Type: model.ActivityUserDeleted, SubjectID: "u1"})
	if err := w.Handle(body); err != nil {
		t.Fatalf("broker payload: %v", err)
	}
	if len(store.events) != 2 || store.events[1].SubjectID != "u1" || store.events[1].OccurredAt.IsZero() {
		t.Fatalf("unexpected events %+v", store.events)
	}

	// Garbage is dropped, not retried.
	for _, p := range []any{[]byte("{nope"), 42, model.ActivityEvent{}} {
		if err := w.Handle(p); err != nil {
			t.Errorf("expected %T to be dropped, got %v", p, err)
		}
	}
	if len(store.events) != 2 {
		t.Errorf("dropped payloads must not be stored")
	}
}

func TestActivityWorkerStoreFailureRetries(t *testing.T) {
	w := service.NewActivityWorker(&MockActivityStore{err: errors.New("db down")}, nil)
	if err := w.Handle(model.ActivityEvent{Type: model.ActivityCampaignDeleted}); err == nil {
		t.Fatal("store failures must surface so the queue can retry")
	}
}

type MockActivityRepo struct {
	limit int
}

func (m *MockActivityRepo) Insert(ctx context.Context, e *model.ActivityEvent) error { return nil }
func (m *MockActivityRepo) Latest(ctx context.Context, limit int) ([]*model.ActivityEvent, error) {
	m.limit = limit
	return []*model.ActivityEvent{}, nil
}

func TestActivityLatestClampsLimit(t *testing.T) {
	repo := &MockActivityRepo{}
	svc := &service.ActivityService{ActivityRepo: repo}
	ctx := context.Background()

	for in, want := range map[int]int{0: 50, -3: 50, 10: 10, 500: 200} {
		if _, err := svc.Latest(ctx, adminUser(), in); err != nil {
			t.Fatalf("latest: %v", err)
		}
		if repo.limit != want {
			t.Errorf("limit %d: expected %d, got %d", in, want, repo.limit)
		}
	}
	if _, err := svc.Latest(ctx, viewerUser(true), 10); err == nil {
		t.Error("viewers must not read activity")
	}
}
