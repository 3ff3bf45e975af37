package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

type ctxKey struct{}

// Identifier resolves a bearer token to a fresh, active identity.
type Identifier interface {
	Identify(ctx context.Context, token string) (*model.User, error)
}

// Identity returns the identity attached by Protect.
func Identity(ctx context.Context) *model.User {
	u, _ := ctx.Value(ctxKey{}).(*model.User)
	return u
}

func WithIdentity(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Protect authenticates every request and reloads the identity so grant
// changes apply immediately.
func Protect(ids Identifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, Response{Message: "Not authorized, no token"})
				return
			}
			u, err := ids.Identify(r.Context(), token)
			if err != nil {
				respondError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), u)))
		})
	}
}

// AdminOnly must run after Protect.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Identity(r.Context()).IsAdmin() {
			writeJSON(w, http.StatusForbidden, Response{Message: "Access denied. Admins only."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
