package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pagesmith/pagesmith/internal/api/response"
)

// Auth verifies bearer tokens on mutation routes. Tokens are HS256 JWTs; the
// "sid" claim (falling back to "sub") becomes the staging session identity.
type Auth struct {
	secret []byte
}

// NewAuth creates an Auth middleware verifying against secret.
func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Authenticate validates the Bearer token and sets the session identity and
// subject in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearerToken(r)
		if raw == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid bearer token", nil)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid bearer token", nil)
			return
		}

		subject, _ := claims["sub"].(string)
		sessionID, _ := claims["sid"].(string)
		if sessionID == "" {
			sessionID = subject
		}
		if sessionID == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Token carries no session identity", nil)
			return
		}

		ctx := SetSessionID(r.Context(), sessionID)
		ctx = setSubject(ctx, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
