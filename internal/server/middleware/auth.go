// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

// TokenValidator validates a bearer token and returns the subject it was
// issued to.
type TokenValidator interface {
	ValidateToken(token string) (subject string, err error)
}

type contextKey string

const subjectKey contextKey = "auth_subject"

// Subject returns the authenticated subject stored in the request context,
// or "" if the request was not authenticated.
func Subject(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}

// Auth returns middleware that requires a valid "Authorization: Bearer"
// token on every request. On success the token's subject is stored in the
// request context.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "missing or malformed Authorization header")
				return
			}

			subject, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"` + detail + `"}`))
}
