package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/config"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/db"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu           sync.Mutex
	calibrations map[uuid.UUID]*types.Calibration
	active       uuid.UUID
	candidates   map[uuid.UUID]*types.CandidateProfile
	scoring      map[uuid.UUID]types.CandidateScoringState
	err          error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calibrations: make(map[uuid.UUID]*types.Calibration),
		candidates:   make(map[uuid.UUID]*types.CandidateProfile),
		scoring:      make(map[uuid.UUID]types.CandidateScoringState),
	}
}

func (f *fakeStore) CreateCalibration(_ context.Context, create *types.CalibrationCreate) (*types.Calibration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cal := &types.Calibration{CalibrationCreate: *create, ID: uuid.New(), CreatedAt: time.Now()}
	f.calibrations[cal.ID] = cal
	f.active = cal.ID
	return cal, nil
}

func (f *fakeStore) UpdateCalibration(_ context.Context, id uuid.UUID, create *types.CalibrationCreate) (*types.Calibration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cal, ok := f.calibrations[id]
	if !ok {
		return nil, nil
	}
	cal.CalibrationCreate = *create
	return cal, nil
}

func (f *fakeStore) GetCalibration(_ context.Context, id uuid.UUID) (*types.Calibration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calibrations[id], nil
}

func (f *fakeStore) GetActiveCalibration(_ context.Context) (*types.Calibration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == uuid.Nil {
		return nil, nil
	}
	return f.calibrations[f.active], nil
}

func (f *fakeStore) SetActiveCalibration(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.calibrations[id]; !ok {
		return false, nil
	}
	f.active = id
	return true, nil
}

func (f *fakeStore) listCalibrations(templates bool) []types.Calibration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Calibration
	for _, cal := range f.calibrations {
		if cal.IsTemplate == templates {
			out = append(out, *cal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) ListCalibrations(context.Context) ([]types.Calibration, error) {
	return f.listCalibrations(false), nil
}

func (f *fakeStore) ListTemplates(context.Context) ([]types.Calibration, error) {
	return f.listCalibrations(true), nil
}

func (f *fakeStore) DeleteCalibration(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.calibrations[id]; !ok {
		return false, nil
	}
	delete(f.calibrations, id)
	if f.active == id {
		f.active = uuid.Nil
		for other := range f.calibrations {
			f.active = other
			break
		}
	}
	return true, nil
}

func (f *fakeStore) AddCandidates(_ context.Context, profiles []types.CandidateProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range profiles {
		p := profiles[i]
		f.candidates[p.ID] = &p
		f.scoring[p.ID] = types.CandidateScoringState{Status: types.ScoringPending, Summary: "Queued for scoring."}
	}
	return nil
}

func (f *fakeStore) GetCandidateProfile(_ context.Context, calibrationID, candidateID uuid.UUID) (*types.CandidateProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.candidates[candidateID]
	if !ok || p.CalibrationID != calibrationID {
		return nil, nil
	}
	return p, nil
}

func (f *fakeStore) ListRankedCandidates(_ context.Context, calibrationID uuid.UUID) ([]types.RankedCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.RankedCandidate
	for id, p := range f.candidates {
		if p.CalibrationID != calibrationID {
			continue
		}
		out = append(out, types.RankedCandidate{CandidateProfile: *p, Scoring: f.scoring[id]})
	}
	types.SortRanked(out)
	return out, nil
}

func (f *fakeStore) UpdateCandidate(_ context.Context, calibrationID, candidateID uuid.UUID, name, stage, notes *string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.candidates[candidateID]
	if !ok || p.CalibrationID != calibrationID {
		return false, nil
	}
	if name != nil {
		p.Name = *name
	}
	if stage != nil {
		p.Stage = *stage
	}
	if notes != nil {
		p.Notes = *notes
	}
	return true, nil
}

func (f *fakeStore) DeleteCandidate(_ context.Context, calibrationID, candidateID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.candidates[candidateID]
	if !ok || p.CalibrationID != calibrationID {
		return false, nil
	}
	delete(f.candidates, candidateID)
	return true, nil
}

func (f *fakeStore) ListCandidateAnalytics(context.Context) ([]db.CandidateAnalyticsRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.CandidateAnalyticsRow
	for _, p := range f.candidates {
		cal, ok := f.calibrations[p.CalibrationID]
		if !ok || cal.IsTemplate {
			continue
		}
		stage := p.Stage
		if stage == "" {
			stage = cal.FirstStage()
		}
		state := f.scoring[p.ID]
		status := state.Status
		if status == "" {
			status = types.ScoringPending
		}
		out = append(out, db.CandidateAnalyticsRow{
			Stage:       stage,
			Requisition: cal.RequisitionName,
			Status:      status,
			TotalScore:  state.TotalScore,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out, nil
}

// fakeQueue records queued scoring work.
type fakeQueue struct {
	mu       sync.Mutex
	queued   []uuid.UUID
	rescored []uuid.UUID
}

func (q *fakeQueue) QueueCandidate(_, candidateID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queued = append(q.queued, candidateID)
	return true
}

func (q *fakeQueue) QueueRescore(_ context.Context, calibrationID uuid.UUID) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rescored = append(q.rescored, calibrationID)
	return 3, nil
}

func (q *fakeQueue) Shutdown(context.Context) {}

func (q *fakeQueue) queuedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queued)
}

type testEnv struct {
	server *Server
	store  *fakeStore
	queue  *fakeQueue
}

func newTestServer(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "")
	if cfg == nil {
		cfg = &config.Config{Port: 8000, DatabaseURL: "unused", ScoringConcurrency: 1}
	}
	store := newFakeStore()
	queue := &fakeQueue{}
	return &testEnv{server: New(cfg, store, queue), store: store, queue: queue}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newCalibrationBody(name string) map[string]any {
	return map[string]any{
		"requisition_name": name,
		"role":             "Data Analyst",
		"skills":           []string{"SQL", "Python"},
	}
}

func TestHealth(t *testing.T) {
	env := newTestServer(t, nil)
	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/candidates", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestCORSRestrictedOrigins(t *testing.T) {
	env := newTestServer(t, nil)
	t.Setenv("CORS_ORIGINS", "http://localhost:5173")

	// Middleware reads CORS_ORIGINS at construction, so rebuild.
	env = &testEnv{server: New(&config.Config{Port: 8000, DatabaseURL: "unused"}, env.store, env.queue), store: env.store, queue: env.queue}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitExceeded(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "")
	store := newFakeStore()
	queue := &fakeQueue{}
	srv := New(&config.Config{Port: 8000, DatabaseURL: "unused"}, store, queue)

	var last *httptest.ResponseRecorder
	// The rescore endpoint bursts at 3 requests.
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/rescore", strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.9:1234"
		last = httptest.NewRecorder()
		srv.Handler().ServeHTTP(last, req)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))
	require.Contains(t, last.Body.String(), "Rate limit exceeded")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	cfg := &config.Config{
		Port:        8000,
		DatabaseURL: "unused",
		APIKey:      "hiring-team-key",
		JWT:         config.JWTConfig{Secret: "test-secret", ExpirationHours: 1},
	}
	env := newTestServer(t, cfg)

	rec := env.do(t, http.MethodGet, "/api/calibrations", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health stays open.
	rec = env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// A token from the exchange unlocks the API.
	rec = env.do(t, http.MethodPost, "/auth/token", map[string]string{"api_key": "hiring-team-key"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody[tokenResponse](t, rec)

	req := httptest.NewRequest(http.MethodGet, "/api/calibrations", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	authed := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(authed, req)
	require.Equal(t, http.StatusOK, authed.Code)
}

func TestExtractClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	require.Equal(t, "192.0.2.1", extractClientID(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	require.Equal(t, "198.51.100.7", extractClientID(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.4, 198.51.100.7")
	require.Equal(t, "203.0.113.4", extractClientID(req))
}
