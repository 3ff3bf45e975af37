package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/unclebandit/campaign-access-backend/internal/service"
)

type ActivityController struct {
	ActivityService *service.ActivityService
	Logger          *slog.Logger
}

// Latest lists recent activity; ?limit is clamped by the service.
func (c *ActivityController) Latest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := c.ActivityService.Latest(r.Context(), Identity(r.Context()), limit)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	list(w, len(events), events)
}
