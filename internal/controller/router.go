package controller

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth       *AuthController
	Campaigns  *CampaignController
	Users      *UserController
	Fields     *CustomFieldController
	Content    *ContentController
	Activity   *ActivityController
	Identifier Identifier
	CORSOrigin string
	Logger     *slog.Logger
}

func NewRouter(c Controllers) http.Handler {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	protect := Protect(c.Identifier, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{c.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Campaign Access API is running"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/setup-admin", c.Auth.SetupAdmin)
			r.Post("/login", c.Auth.Login)
			r.With(protect).Get("/me", c.Auth.Me)
			r.With(protect, AdminOnly).Post("/register", c.Auth.Register)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Use(protect)
			r.Get("/", c.Campaigns.List)
			r.Get("/{id}", c.Campaigns.Get)
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly)
				r.Post("/", c.Campaigns.Create)
				r.Put("/{id}", c.Campaigns.Update)
				r.Delete("/{id}", c.Campaigns.Delete)
				r.Post("/{id}/duplicate", c.Campaigns.Duplicate)
				r.Patch("/{id}/toggle", c.Campaigns.ToggleActive)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(protect, AdminOnly)
			r.Get("/fields", c.Users.Fields)
			r.Get("/", c.Users.List)
			r.Get("/{id}", c.Users.Get)
			r.Put("/{id}", c.Users.Update)
			r.Delete("/{id}", c.Users.Delete)
			r.Put("/{id}/campaigns", c.Users.UpdateGrant)
			r.Get("/{id}/shareable-link", c.Users.ShareableLink)
		})

		r.Route("/custom-fields", func(r chi.Router) {
			r.Use(protect, AdminOnly)
			r.Get("/", c.Fields.List)
			r.Post("/", c.Fields.Create)
			r.Get("/{id}", c.Fields.Get)
			r.Put("/{id}", c.Fields.Update)
			r.Delete("/{id}", c.Fields.Delete)
		})

		r.Route("/campaign-content/{campaignId}", func(r chi.Router) {
			r.Use(protect)
			r.Get("/", c.Content.Get)
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly)
				r.Post("/", c.Content.Upload)
				r.Put("/links", c.Content.UpdateLinks)
				r.Delete("/media/{mediaId}", c.Content.DeleteMedia)
			})
		})

		r.With(protect, AdminOnly).Get("/activity", c.Activity.Latest)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Response{Message: "Route not found"})
	})
	return r
}
