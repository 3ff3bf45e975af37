package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/campaign-access-backend/internal/access"
	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/media"
	"github.com/unclebandit/campaign-access-backend/internal/model"
)

// MockCampaignRepo keeps campaigns in memory and counts store calls.
type MockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	calls     int
	clock     time.Time
}

func NewMockCampaignRepo() *MockCampaignRepo {
	return &MockCampaignRepo{campaigns: map[string]*model.Campaign{}, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *MockCampaignRepo) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockCampaignRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func clone(c *model.Campaign) *model.Campaign {
	cp := *c
	cp.CustomFields = c.CustomFields.Clone()
	return &cp
}

func (m *MockCampaignRepo) List(ctx context.Context, scope access.Scope) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if scope.Contains(c.ID) {
			out = append(out, clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return clone(c), nil
}

func (m *MockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	c.ID = uuid.NewString()
	c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	m.campaigns[c.ID] = clone(c)
	return nil
}

func (m *MockCampaignRepo) Update(ctx context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.campaigns[c.ID]; !ok {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	c.UpdatedAt = m.tick()
	m.campaigns[c.ID] = clone(c)
	return nil
}

func (m *MockCampaignRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.campaigns[id]; !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

func (m *MockCampaignRepo) ToggleActive(ctx context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	c.Active = !c.Active
	c.UpdatedAt = m.tick()
	return clone(c), nil
}

func (m *MockCampaignRepo) Summaries(ctx context.Context, ids []string) ([]model.CampaignSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []model.CampaignSummary{}
	for _, id := range ids {
		if c, ok := m.campaigns[id]; ok {
			out = append(out, model.CampaignSummary{ID: c.ID, Name: c.Name, Status: c.Status, Delivery: c.Delivery})
		}
	}
	return out, nil
}

// seed stores a valid campaign named name and returns it.
func (m *MockCampaignRepo) seed(name string) *model.Campaign {
	c := model.NewCampaign()
	c.Name = name
	c.Objective = "traffic"
	_ = m.Create(context.Background(), c)
	return c
}

type MockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewMockUserRepo(users ...*model.User) *MockUserRepo {
	m := &MockUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		cp := *u
		m.users[u.ID] = &cp
	}
	return m
}

func (m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return appErrors.Conflict("Email already registered")
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) CreateBootstrapAdmin(ctx context.Context, u *model.User) error {
	if n, _ := m.CountAdmins(ctx); n > 0 {
		return appErrors.NewAdminExists()
	}
	u.Role = model.RoleAdmin
	return m.Create(ctx, u)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, appErrors.NewUserNotFound(id)
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, appErrors.NewUserNotFound(email)
}

func (m *MockUserRepo) ListViewers(ctx context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.User{}
	for _, u := range m.users {
		if u.Role == model.RoleViewer {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[u.ID]
	if !ok {
		return appErrors.NewUserNotFound(u.ID)
	}
	stored.Name, stored.Email, stored.IsActive, stored.ViewAllCampaigns = u.Name, u.Email, u.IsActive, u.ViewAllCampaigns
	return nil
}

func (m *MockUserRepo) UpdateGrant(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[u.ID]
	if !ok {
		return appErrors.NewUserNotFound(u.ID)
	}
	stored.AllowedCampaigns = append([]string(nil), u.AllowedCampaigns...)
	stored.ViewAllCampaigns = u.ViewAllCampaigns
	if u.VisibleFields == nil {
		stored.VisibleFields = nil
	} else {
		stored.VisibleFields = append([]model.FieldKey{}, u.VisibleFields...)
	}
	return nil
}

func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return appErrors.NewUserNotFound(id)
	}
	delete(m.users, id)
	return nil
}

func (m *MockUserRepo) CountAdmins(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if u.Role == model.RoleAdmin {
			n++
		}
	}
	return n, nil
}

type MockFieldRepo struct {
	fields map[string]*model.CustomField
}

func NewMockFieldRepo() *MockFieldRepo {
	return &MockFieldRepo{fields: map[string]*model.CustomField{}}
}

func (m *MockFieldRepo) ListActive(ctx context.Context) ([]*model.CustomField, error) {
	out := []*model.CustomField{}
	for _, f := range m.fields {
		if f.IsActive {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockFieldRepo) GetByID(ctx context.Context, id string) (*model.CustomField, error) {
	f, ok := m.fields[id]
	if !ok {
		return nil, appErrors.NewCustomFieldNotFound(id)
	}
	cp := *f
	return &cp, nil
}

func (m *MockFieldRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, f := range m.fields {
		if f.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockFieldRepo) Create(ctx context.Context, f *model.CustomField) error {
	if exists, _ := m.ExistsByName(ctx, f.Name); exists {
		return appErrors.Conflict("A field with this name already exists")
	}
	f.ID = uuid.NewString()
	cp := *f
	m.fields[f.ID] = &cp
	return nil
}

func (m *MockFieldRepo) Update(ctx context.Context, f *model.CustomField) error {
	if _, ok := m.fields[f.ID]; !ok {
		return appErrors.NewCustomFieldNotFound(f.ID)
	}
	cp := *f
	m.fields[f.ID] = &cp
	return nil
}

func (m *MockFieldRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.fields[id]; !ok {
		return appErrors.NewCustomFieldNotFound(id)
	}
	delete(m.fields, id)
	return nil
}

type MockContentRepo struct {
	content map[string]*model.CampaignContent
	upserts int
}

func NewMockContentRepo() *MockContentRepo {
	return &MockContentRepo{content: map[string]*model.CampaignContent{}}
}

func (m *MockContentRepo) GetByCampaign(ctx context.Context, campaignID string) (*model.CampaignContent, error) {
	c, ok := m.content[campaignID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Media = append(model.MediaItems{}, c.Media...)
	return &cp, nil
}

func (m *MockContentRepo) Upsert(ctx context.Context, c *model.CampaignContent) error {
	m.upserts++
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	cp.Media = append(model.MediaItems{}, c.Media...)
	m.content[c.CampaignID] = &cp
	return nil
}

// MockBlobStore drains uploads and can fail on a given file.
type MockBlobStore struct {
	FailOn     string
	DestroyErr error
	uploads    []string
	destroyed  []string
}

func (m *MockBlobStore) Upload(ctx context.Context, r io.Reader, in media.UploadInput) (media.UploadResult, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return media.UploadResult{}, err
	}
	if in.Filename == m.FailOn {
		return media.UploadResult{}, errors.New("remote rejected file")
	}
	m.uploads = append(m.uploads, in.Filename)
	id := fmt.Sprintf("campaign_content/%s", in.Filename)
	return media.UploadResult{URL: "https://cdn.example.com/" + id, PublicID: id, Bytes: n}, nil
}

func (m *MockBlobStore) Destroy(ctx context.Context, publicID, resourceType string) error {
	m.destroyed = append(m.destroyed, publicID)
	return m.DestroyErr
}

type RecordingEmitter struct {
	mu     sync.Mutex
	events []model.ActivityEvent
}

func (r *RecordingEmitter) Emit(ctx context.Context, e model.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *RecordingEmitter) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func adminUser() *model.User {
	return &model.User{ID: uuid.NewString(), Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin, IsActive: true}
}

func viewerUser(viewAll bool, allowed ...string) *model.User {
	return &model.User{
		ID:               uuid.NewString(),
		Name:             "Viewer",
		Email:            "viewer@example.com",
		Role:             model.RoleViewer,
		AllowedCampaigns: allowed,
		ViewAllCampaigns: viewAll,
		IsActive:         true,
	}
}
