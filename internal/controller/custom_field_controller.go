package controller

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/campaign-access-backend/internal/service"
)

type CustomFieldController struct {
	FieldService *service.CustomFieldService
	Logger       *slog.Logger
}

func (c *CustomFieldController) List(w http.ResponseWriter, r *http.Request) {
	fields, err := c.FieldService.List(r.Context(), Identity(r.Context()))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	list(w, len(fields), fields)
}

func (c *CustomFieldController) Get(w http.ResponseWriter, r *http.Request) {
	f, err := c.FieldService.Get(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "", f)
}

func (c *CustomFieldController) Create(w http.ResponseWriter, r *http.Request) {
	var body service.CustomFieldInput
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	f, err := c.FieldService.Create(r.Context(), Identity(r.Context()), body)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	created(w, "Custom field created successfully", f)
}

func (c *CustomFieldController) Update(w http.ResponseWriter, r *http.Request) {
	var body service.CustomFieldInput
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	f, err := c.FieldService.Update(r.Context(), Identity(r.Context()), chi.URLParam(r, "id"), body)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "Custom field updated successfully", f)
}

func (c *CustomFieldController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.FieldService.Delete(r.Context(), Identity(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	ok(w, "Custom field deleted successfully", nil)
}
