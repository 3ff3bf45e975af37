package controller_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/campaign-access-backend/internal/access"
	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*model.User{}} }

func (m *memUsers) put(u *model.User) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	m.users[u.ID] = &cp
	return u
}

func (m *memUsers) Create(ctx context.Context, u *model.User) error {
	if _, err := m.GetByEmail(ctx, u.Email); err == nil {
		return appErrors.Conflict("Email already registered")
	}
	u.ID = ""
	m.put(u)
	return nil
}

func (m *memUsers) CreateBootstrapAdmin(ctx context.Context, u *model.User) error {
	if n, _ := m.CountAdmins(ctx); n > 0 {
		return appErrors.NewAdminExists()
	}
	return m.Create(ctx, u)
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, appErrors.NewUserNotFound(id)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
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

func (m *memUsers) ListViewers(ctx context.Context) ([]*model.User, error) {
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

func (m *memUsers) UpdateProfile(ctx context.Context, u *model.User) error {
	if _, err := m.GetByID(ctx, u.ID); err != nil {
		return err
	}
	m.put(u)
	return nil
}

func (m *memUsers) UpdateGrant(ctx context.Context, u *model.User) error {
	return m.UpdateProfile(ctx, u)
}

func (m *memUsers) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return appErrors.NewUserNotFound(id)
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) CountAdmins(ctx context.Context) (int, error) {
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

type memCampaigns struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	clock     time.Time
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{campaigns: map[string]*model.Campaign{}, clock: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memCampaigns) seed(name string) *model.Campaign {
	c := model.NewCampaign()
	c.Name = name
	c.Objective = "awareness"
	_ = m.Create(context.Background(), c)
	return c
}

func (m *memCampaigns) List(ctx context.Context, scope access.Scope) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if scope.Contains(c.ID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memCampaigns) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *memCampaigns) Create(ctx context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = m.clock, m.clock
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *memCampaigns) Update(ctx context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[c.ID]; !ok {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *memCampaigns) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

func (m *memCampaigns) ToggleActive(ctx context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	c.Active = !c.Active
	cp := *c
	return &cp, nil
}

func (m *memCampaigns) Summaries(ctx context.Context, ids []string) ([]model.CampaignSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.CampaignSummary{}
	for _, id := range ids {
		if c, ok := m.campaigns[id]; ok {
			out = append(out, model.CampaignSummary{ID: c.ID, Name: c.Name, Status: c.Status, Delivery: c.Delivery})
		}
	}
	return out, nil
}
