package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	subject string
	err     error
}

func (v *stubValidator) ValidateToken(token string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return v.subject, nil
}

func protected(validator TokenValidator) http.Handler {
	return Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Subject(r.Context())))
	}))
}

func TestAuth_ValidToken(t *testing.T) {
	handler := protected(&stubValidator{subject: "hiring-team"})

	req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hiring-team", rec.Body.String())
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := protected(&stubValidator{subject: "hiring-team"})

	req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization")
}

func TestAuth_MalformedHeader(t *testing.T) {
	handler := protected(&stubValidator{subject: "hiring-team"})

	for _, header := range []string{"Bearer", "Basic abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuth_CaseInsensitiveScheme(t *testing.T) {
	handler := protected(&stubValidator{subject: "hiring-team"})

	req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	req.Header.Set("Authorization", "bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := protected(&stubValidator{err: errors.New("expired")})

	req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired")
}

func TestSubject_Unset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, Subject(req.Context()))
}
