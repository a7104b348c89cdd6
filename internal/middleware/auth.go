// Package middleware provides the HTTP middleware stack: Bearer-token
// auth, request logging and prometheus request metrics.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ihanakangas/jako/internal/auth"
)

// RequireAuth validates the Bearer token on every request before passing
// it on. Requests without a valid token get a 401 with a JSON envelope.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken.Error())
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			if err := jwtManager.Validate(parts[1]); err != nil {
				unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "unauthorized",
		"message": message,
	})
}
