package controller

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/service"
)

type ContentController struct {
	ContentService *service.ContentService
	// MaxBodyBytes caps a whole multipart request; zero disables the cap.
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// Get returns the campaign's content, or null data when none exists yet.
func (c *ContentController) Get(w http.ResponseWriter, r *http.Request) {
	content, err := c.ContentService.Get(r.Context(), Identity(r.Context()), chi.URLParam(r, "campaignId"))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	if content == nil {
		ok(w, "No content found", nil)
		return
	}
	ok(w, "", content)
}

// Upload streams a multipart batch of media plus optional link fields.
func (c *ContentController) Upload(w http.ResponseWriter, r *http.Request) {
	if c.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, c.MaxBodyBytes)
	}
	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, r, c.Logger, appErrors.Wrap(appErrors.KindValidation, "Expected a multipart/form-data body", err))
		return
	}
	content, err := c.ContentService.SaveUploads(r.Context(), Identity(r.Context()), chi.URLParam(r, "campaignId"), mr)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "Content uploaded successfully", content)
}

func (c *ContentController) UpdateLinks(w http.ResponseWriter, r *http.Request) {
	var body model.LinkUpdate
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	content, err := c.ContentService.UpdateLinks(r.Context(), Identity(r.Context()), chi.URLParam(r, "campaignId"), body)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "Links updated successfully", content)
}

func (c *ContentController) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	content, err := c.ContentService.DeleteMedia(r.Context(), Identity(r.Context()),
		chi.URLParam(r, "campaignId"), chi.URLParam(r, "mediaId"))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "Media deleted successfully", content)
}
