// Package auth covers the login machinery: the GitHub OAuth flow, JWT
// access tokens, and the middleware that guards protected routes.
//
// A login produces two things: a session row in the database and a
// signed JWT carried in an HttpOnly cookie. The token's "sub" claim is
// the user ID and its "jti" claim is the session ID. Validation checks
// the signature first and the session row second, so logging out
// (deleting the session) revokes the token even before it expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "doubtboard"

// TokenLifetime is how long an access token, and the session backing
// it, stays valid.
const TokenLifetime = 7 * 24 * time.Hour

// TokenService signs and verifies JWT access tokens with an HMAC
// secret. The same secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate creates a signed token for the user and the session backing
// the login. The session ID rides in the "jti" claim so validation can
// look the session up and logout can revoke it.
func (s *TokenService) Generate(userID, sessionID string) (string, error) {
	return s.GenerateWithDuration(userID, sessionID, TokenLifetime)
}

// GenerateWithDuration is Generate with a custom expiry, used by tests.
func (s *TokenService) GenerateWithDuration(userID, sessionID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the user ID
// and session ID it carries.
//
// The signing method is pinned to HS256; without that an attacker could
// present a token claiming the "none" algorithm.
func (s *TokenService) Validate(tokenStr string) (userID, sessionID string, err error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", errors.New("auth: token expired")
		}
		return "", "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", "", errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", "", errors.New("auth: token has no subject")
	}
	if c.ID == "" {
		return "", "", errors.New("auth: token has no session id")
	}

	return c.Subject, c.ID, nil
}
