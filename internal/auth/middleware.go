package auth

import (
	"context"
	"net/http"

	"github.com/devhuddle/doubtboard/internal/repository"
)

// contextKey is unexported so only this package can read or write the
// identity values it stores in a request context.
type contextKey string

const (
	userIDKey    contextKey = "userID"
	sessionIDKey contextKey = "sessionID"
)

// cookieName is the HttpOnly cookie carrying the access token.
const cookieName = "token"

// RequireAuth guards protected routes. It reads the token cookie,
// verifies the signature, then confirms the session named in the token
// still exists. A deleted or expired session means the token is
// revoked, however valid its signature.
//
// On success the user and session IDs are stored in the request
// context; otherwise the chain stops with 401.
func RequireAuth(tokens *TokenService, sessions repository.SessionRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, sessionID, err := authenticate(r, tokens, sessions)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is present but
// never blocks the request. Handlers see an anonymous request when
// UserIDFromContext reports ("", false).
func OptionalAuth(tokens *TokenService, sessions repository.SessionRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, sessionID, err := authenticate(r, tokens, sessions); err == nil {
				ctx := context.WithValue(r.Context(), userIDKey, userID)
				ctx = context.WithValue(ctx, sessionIDKey, sessionID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user's ID, or ("", false)
// for an anonymous request.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// SessionIDFromContext returns the session behind the current login.
// Logout uses it to delete the right session row.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

func authenticate(r *http.Request, tokens *TokenService, sessions repository.SessionRepository) (userID, sessionID string, err error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", "", err
	}

	userID, sessionID, err = tokens.Validate(cookie.Value)
	if err != nil {
		return "", "", err
	}

	// The session lookup is the revocation check.
	if _, err := sessions.GetByID(r.Context(), sessionID); err != nil {
		return "", "", err
	}

	return userID, sessionID, nil
}

// SetTokenCookie writes the access token as an HttpOnly cookie so
// scripts on the page can never read it. maxAge mirrors the token
// lifetime.
func SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie expires the token cookie on logout.
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
