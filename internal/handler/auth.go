// Package handler contains the HTTP layer: request parsing, cookie
// handling, and response writing. Business rules live in the service
// layer; handlers are the glue between it and HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/breakout-edge/internal/auth"
	"github.com/sakif/breakout-edge/internal/service"
)

// AuthHandler manages sign-in, sign-up, and sign-out for both surfaces.
//
// Each role gets its own identity cookie, so logging out as a user leaves
// an admin session intact and vice versa.
type AuthHandler struct {
	auths  *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auths *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auths: auths, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse tells the frontend who is signed in and where to go.
type sessionResponse struct {
	Username string `json:"username"`
	Redirect string `json:"redirect"`
}

// HandleLogin checks the submitted pair against the fixed user credential.
//
// HTTP: POST /api/auth/login
// Body: {"username": "...", "password": "..."}
//
// On success the user identity cookie is set and the client is pointed at
// the dashboard. Any failure is a 401 with the same non-specific message.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	token, err := h.auths.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetIdentityCookie(w, auth.RoleUser, token)
	writeJSON(w, http.StatusOK, sessionResponse{Username: req.Username, Redirect: "/dashboard"})
}

// HandleRegister signs the visitor up, which in this app means signing
// them straight in as whatever username they typed.
//
// HTTP: POST /api/auth/register
// Body: {"username": "...", "email": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	token, err := h.auths.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetIdentityCookie(w, auth.RoleUser, token)
	writeJSON(w, http.StatusCreated, sessionResponse{Username: req.Username, Redirect: "/dashboard"})
}

// HandleLogout clears the user identity cookie.
//
// HTTP: POST /api/auth/logout
//
// POST, not GET: logout changes state, and GETs get pre-fetched.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearIdentityCookie(w, auth.RoleUser)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the signed-in username.
//
// HTTP: GET /api/me
// Auth: user cookie required.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireUser, but don't panic if rewired.
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}

// HandleAdminLogin is HandleLogin against the fixed admin credential.
//
// HTTP: POST /api/auth/admin/login
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	token, err := h.auths.AdminLogin(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetIdentityCookie(w, auth.RoleAdmin, token)
	writeJSON(w, http.StatusOK, sessionResponse{Username: req.Username, Redirect: "/admin/dashboard"})
}

// HandleAdminLogout clears the admin identity cookie.
//
// HTTP: POST /api/auth/admin/logout
func (h *AuthHandler) HandleAdminLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearIdentityCookie(w, auth.RoleAdmin)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
