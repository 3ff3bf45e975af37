package controller

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/campaign-access-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Logger          *slog.Logger
}

// List returns every campaign in the caller's scope, projected.
func (c *CampaignController) List(w http.ResponseWriter, r *http.Request) {
	views, err := c.CampaignService.List(r.Context(), Identity(r.Context()))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	list(w, len(views), views)
}

func (c *CampaignController) Get(w http.ResponseWriter, r *http.Request) {
	view, err := c.CampaignService.Get(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "", view)
}

func (c *CampaignController) Create(w http.ResponseWriter, r *http.Request) {
	var body service.CampaignInput
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	campaign, err := c.CampaignService.Create(r.Context(), Identity(r.Context()), body)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	created(w, "Campaign created successfully", campaign)
}

func (c *CampaignController) Update(w http.ResponseWriter, r *http.Request) {
	var body service.CampaignInput
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	campaign, err := c.CampaignService.Update(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"), body)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "Campaign updated successfully", campaign)
}

func (c *CampaignController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.CampaignService.Delete(r.Context(), Identity(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "Campaign deleted successfully", nil)
}

func (c *CampaignController) Duplicate(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.CampaignService.Duplicate(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	created(w, "Campaign duplicated successfully", campaign)
}

func (c *CampaignController) ToggleActive(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.CampaignService.ToggleActive(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	msg := "Campaign deactivated"
	if campaign.Active {
		msg = "Campaign activated"
	}
	ok(w, msg, campaign)
}
