package controller

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/campaign-access-backend/internal/service"
)

type UserController struct {
	UserService *service.UserService
	Logger      *slog.Logger
}

// Fields lists the campaign fields a grant may expose.
func (c *UserController) Fields(w http.ResponseWriter, r *http.Request) {
	fields := c.UserService.AvailableFields()
	list(w, len(fields), fields)
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.UserService.List(r.Context(), Identity(r.Context()))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	list(w, len(users), users)
}

func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := c.UserService.Get(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "", detail)
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	var body service.ProfileUpdate
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	u, err := c.UserService.UpdateProfile(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"), body)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "User updated successfully", u)
}

// UpdateGrant replaces a viewer's campaigns, view-all flag and visible fields.
func (c *UserController) UpdateGrant(w http.ResponseWriter, r *http.Request) {
	var body service.GrantUpdate
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	detail, err := c.UserService.UpdateGrant(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"), body)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "Campaign access updated successfully", detail)
}

func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.UserService.Delete(r.Context(), Identity(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "User deleted successfully", nil)
}

func (c *UserController) ShareableLink(w http.ResponseWriter, r *http.Request) {
	link, err := c.UserService.ShareableLink(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "", link)
}

