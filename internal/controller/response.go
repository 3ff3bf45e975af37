package controller

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
)

const maxJSONBody = 1 << 20

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Token   string `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func list(w http.ResponseWriter, n int, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Count: &n, Data: data})
}

// respondError maps err onto the envelope. Anything that is not a domain
// error is logged and reported as a generic server error.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	appErr, isApp := appErrors.As(err)
	if !isApp || appErr.Kind == appErrors.KindInternal {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		body := Response{Message: "Server error"}
		if isApp {
			body.Data = appErr.Data
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}
	body := Response{Message: appErr.Message, Data: appErr.Data}
	if appErr.Kind == appErrors.KindUpstream {
		logger.WarnContext(r.Context(), "upstream failure",
			"path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		if appErr.Cause != nil {
			body.Error = appErr.Cause.Error()
		}
	}
	writeJSON(w, appErr.Kind.HTTPStatus(), body)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return appErrors.Validation("Request body is required")
		}
		return appErrors.Wrap(appErrors.KindValidation, "Invalid request body", err)
	}
	return nil
}
