package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/washday/internal/auth"
	"github.com/sakif/washday/internal/service"
)

// AuthHandler exposes registration, login, logout, and the current-user
// endpoint. It owns the session cookie; the AuthService owns the rules.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates an account and logs it straight in.
//
// HTTP: POST /auth/register
// Body: {"username": "...", "email": "...", "password": "..."}
// 201 {"user": {...}} with the session cookie set, or 400 {"errors": {...}}.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"body": "invalid JSON body"},
		})
		return
	}

	result, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, map[string]any{"user": result.User.Public()})
}

// HandleLogin verifies credentials and establishes a session.
//
// HTTP: POST /auth/login
// 200 {"user": {...}} or 400 {"error": "Invalid credentials"}.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid credentials"})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, map[string]any{"user": result.User.Public()})
}

// HandleLogout clears the session cookie. Always succeeds, authenticated
// or not — logging out twice is fine.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// HandleCurrentUser returns the authenticated user's profile.
//
// HTTP: GET /auth/user (auth required)
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't assume.
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("current user lookup failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}

// setSessionCookie stores the JWT in an HttpOnly cookie. JavaScript can't
// read it, which keeps XSS from stealing the session. Secure should be
// enabled behind HTTPS in production.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
