package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/devhuddle/doubtboard/internal/auth"
	"github.com/devhuddle/doubtboard/internal/service"
)

// AuthHandler manages the GitHub OAuth login flow, logout and the
// current-user endpoint.
type AuthHandler struct {
	github *auth.GitHubProvider
	authSv *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(github *auth.GitHubProvider, authSv *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{github: github, authSv: authSv, logger: logger}
}

// HandleGitHubLogin redirects the browser to GitHub's authorization
// page.
//
// GET /auth/github/login
//
// The random state lands in a short-lived HttpOnly cookie; the callback
// checks it to make sure the flow started here and not on an attacker's
// page.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth login flow.
//
// GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	identity, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed",
			slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	result, err := h.authSv.Login(r.Context(), identity)
	if err != nil {
		h.logger.Error("auth callback: login failed",
			slog.String("subject", identity.Subject),
			slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	auth.SetTokenCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout revokes the current session and clears the cookie.
//
// POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := auth.SessionIDFromContext(r.Context()); ok {
		if err := h.authSv.Logout(r.Context(), sessionID); err != nil {
			h.logger.Error("logout failed",
				slog.String("sessionID", sessionID),
				slog.String("error", err.Error()))
		}
	}

	auth.ClearTokenCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// HandleCurrentUser returns the logged-in user's profile.
//
// GET /api/auth/user
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.authSv.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
