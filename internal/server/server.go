// Package server implements the RecruitOS HTTP API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/config"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/db"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/server/middleware"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/server/ratelimit"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// Store is the persistence surface the handlers need. *db.DB satisfies it.
type Store interface {
	CreateCalibration(ctx context.Context, create *types.CalibrationCreate) (*types.Calibration, error)
	UpdateCalibration(ctx context.Context, id uuid.UUID, create *types.CalibrationCreate) (*types.Calibration, error)
	GetCalibration(ctx context.Context, id uuid.UUID) (*types.Calibration, error)
	GetActiveCalibration(ctx context.Context) (*types.Calibration, error)
	SetActiveCalibration(ctx context.Context, id uuid.UUID) (bool, error)
	ListCalibrations(ctx context.Context) ([]types.Calibration, error)
	ListTemplates(ctx context.Context) ([]types.Calibration, error)
	DeleteCalibration(ctx context.Context, id uuid.UUID) (bool, error)

	AddCandidates(ctx context.Context, profiles []types.CandidateProfile) error
	GetCandidateProfile(ctx context.Context, calibrationID, candidateID uuid.UUID) (*types.CandidateProfile, error)
	ListRankedCandidates(ctx context.Context, calibrationID uuid.UUID) ([]types.RankedCandidate, error)
	UpdateCandidate(ctx context.Context, calibrationID, candidateID uuid.UUID, name, stage, notes *string) (bool, error)
	DeleteCandidate(ctx context.Context, calibrationID, candidateID uuid.UUID) (bool, error)

	ListCandidateAnalytics(ctx context.Context) ([]db.CandidateAnalyticsRow, error)
}

// TaskQueue schedules background scoring work. *tasks.Runner satisfies it.
type TaskQueue interface {
	QueueCandidate(calibrationID, candidateID uuid.UUID) bool
	QueueRescore(ctx context.Context, calibrationID uuid.UUID) (int, error)
	Shutdown(ctx context.Context)
}

// Server is the RecruitOS API server.
type Server struct {
	cfg        *config.Config
	store      Store
	queue      TaskQueue
	jwtService *JWTService
	limiter    *ratelimit.Limiter
	httpServer *http.Server
}

// New creates a Server. Authentication is enabled when cfg.APIKey is set.
func New(cfg *config.Config, store Store, queue TaskQueue) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		queue:   queue,
		limiter: ratelimit.NewLimiter(ratelimit.ConfigFromEnv()),
	}
	if cfg.APIKey != "" {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	mux := http.NewServeMux()
	s.routes(mux)
	handler := s.withRateLimit(s.withLogging(s.withCORS(mux)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/token", s.handleToken)

	protected := func(pattern string, h http.HandlerFunc) {
		if s.jwtService != nil {
			mux.Handle(pattern, middleware.Auth(s.jwtService)(h))
			return
		}
		mux.HandleFunc(pattern, h)
	}

	protected("POST /api/calibration", s.handleCreateCalibration)
	protected("GET /api/calibration", s.handleGetActiveCalibration)
	protected("PATCH /api/calibration/active", s.handleSetActiveCalibration)
	protected("GET /api/calibration/{id}", s.handleGetCalibration)
	protected("PATCH /api/calibration/{id}", s.handleUpdateCalibration)
	protected("DELETE /api/calibration/{id}", s.handleDeleteCalibration)
	protected("GET /api/calibrations", s.handleListCalibrations)
	protected("GET /api/templates", s.handleListTemplates)

	protected("POST /api/upload", s.handleUpload)
	protected("GET /api/candidates", s.handleListCandidates)
	protected("GET /api/candidates/ranked", s.handleListCandidates)
	protected("POST /api/candidates/rescore", s.handleRescoreAll)
	protected("PATCH /api/candidates/{id}", s.handleUpdateCandidate)
	protected("DELETE /api/candidates/{id}", s.handleDeleteCandidate)
	protected("POST /api/candidates/{id}/rescore", s.handleRescoreCandidate)
	protected("POST /api/rescore", s.handleRescoreAll)

	protected("GET /api/analytics/overview", s.handleAnalyticsOverview)
}

// Start runs the server until SIGINT or SIGTERM, then shuts down gracefully,
// draining in-flight scoring work before returning.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	s.queue.Shutdown(ctx)
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes v as JSON with the given status code.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// errorResponse writes an error body of the form {"detail": "..."}.
func (s *Server) errorResponse(w http.ResponseWriter, status int, detail string) {
	s.jsonResponse(w, status, map[string]string{"detail": detail})
}

// withCORS handles cross-origin requests. CORS_ORIGINS restricts the allowed
// origins to a comma-separated list; unset allows any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := make(map[string]bool)
	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowed) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := extractClientID(r)
		allowed, info := s.limiter.Allow(clientID, r.URL.Path, r.Method)

		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			retryAfter := int(info.RetryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID identifies the client for rate limiting, preferring proxy
// headers over the raw remote address.
func extractClientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}

// pathUUID parses the {id} path segment of the request.
func pathUUID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}
