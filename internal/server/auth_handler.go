package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// tokenSubject is the subject claim on tokens issued via the API key
// exchange. There are no per-user accounts; every client with the key acts
// as the hiring team.
const tokenSubject = "hiring-team"

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// handleToken exchanges the configured API key for a bearer token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.jwtService == nil {
		s.errorResponse(w, http.StatusNotFound, "Authentication is not enabled.")
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(s.cfg.APIKey)) != 1 {
		s.errorResponse(w, http.StatusUnauthorized, "Invalid API key.")
		return
	}

	token, err := s.jwtService.GenerateToken(tokenSubject)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to issue token.")
		return
	}

	s.jsonResponse(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.jwtService.TokenTTL().Seconds()),
	})
}
