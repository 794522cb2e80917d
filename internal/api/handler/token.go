package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pagesmith/pagesmith/internal/api/response"
	"golang.org/x/crypto/bcrypt"
)

// NewTokenHandler returns the handler for POST /auth/token: exchange the
// admin password for a signed bearer token. Each token carries a fresh "sid"
// claim, so every login gets its own staging session.
func NewTokenHandler(secret, passwordHash string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if passwordHash == "" ||
			bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
			response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS",
				"Invalid credentials", nil)
			return
		}

		now := time.Now().UTC()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "admin",
			"sid": uuid.NewString(),
			"iat": now.Unix(),
			"exp": now.Add(ttl).Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}

		response.JSON(w, map[string]any{
			"token":      signed,
			"expires_at": now.Add(ttl).Format(time.RFC3339),
		})
	}
}
