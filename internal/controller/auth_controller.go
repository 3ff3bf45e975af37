package controller

import (
	"log/slog"
	"net/http"

	"github.com/unclebandit/campaign-access-backend/internal/auth"
)

type AuthController struct {
	AuthService *auth.Service
	Logger      *slog.Logger
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetupAdmin creates the first admin and signs it in.
func (c *AuthController) SetupAdmin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	token, u, err := c.AuthService.BootstrapAdmin(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: "Admin created successfully", Token: token, Data: u.Profile()})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	token, u, err := c.AuthService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Token: token, Data: u.Profile()})
}

// Me returns the caller's profile as reloaded by Protect.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	ok(w, "", Identity(r.Context()).Profile())
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body auth.RegisterInput
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	u, err := c.AuthService.Register(r.Context(), Identity(r.Context()), body)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	created(w, "User registered successfully", u.Profile())
}
