package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

type fakeStore struct {
	mu           sync.Mutex
	calibrations map[uuid.UUID]*types.Calibration
	candidates   map[uuid.UUID]*types.CandidateProfile
	processing   []uuid.UUID
	scored       map[uuid.UUID]*types.RankingPayload
	failed       map[uuid.UUID]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calibrations: make(map[uuid.UUID]*types.Calibration),
		candidates:   make(map[uuid.UUID]*types.CandidateProfile),
		scored:       make(map[uuid.UUID]*types.RankingPayload),
		failed:       make(map[uuid.UUID]string),
	}
}

func (f *fakeStore) addCandidate(calID uuid.UUID, text string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.candidates[id] = &types.CandidateProfile{ID: id, CalibrationID: calID, Name: "c", ParsedText: text}
	return id
}

func (f *fakeStore) GetCalibration(_ context.Context, id uuid.UUID) (*types.Calibration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calibrations[id], nil
}

func (f *fakeStore) GetCandidateProfile(_ context.Context, _, candidateID uuid.UUID) (*types.CandidateProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candidates[candidateID], nil
}

func (f *fakeStore) ListCandidateIDs(_ context.Context, calID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for id, c := range f.candidates {
		if c.CalibrationID == calID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) MarkCandidateScoring(_ context.Context, _, candidateID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing = append(f.processing, candidateID)
	return nil
}

func (f *fakeStore) SetCandidateScore(_ context.Context, _, candidateID uuid.UUID, payload *types.RankingPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scored[candidateID] = payload
	return nil
}

func (f *fakeStore) MarkCandidateScoringFailed(_ context.Context, _, candidateID uuid.UUID, scoreErr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[candidateID] = scoreErr
	return nil
}

type funcScorer func(ctx context.Context, cal *types.Calibration, text string) (*types.RankingPayload, error)

func (f funcScorer) Score(ctx context.Context, cal *types.Calibration, text string) (*types.RankingPayload, error) {
	return f(ctx, cal, text)
}

func newTestCalibration(store *fakeStore) uuid.UUID {
	cal := &types.Calibration{ID: uuid.New()}
	cal.RequisitionName = "Req"
	cal.Role = "Analyst"
	store.calibrations[cal.ID] = cal
	return cal.ID
}

func TestRunner_ScoresCandidate(t *testing.T) {
	store := newFakeStore()
	calID := newTestCalibration(store)
	candID := store.addCandidate(calID, "resume text")

	scorer := funcScorer(func(_ context.Context, _ *types.Calibration, _ string) (*types.RankingPayload, error) {
		return &types.RankingPayload{TotalScore: 80, Summary: "ok"}, nil
	})
	runner := NewRunner(store, scorer, 2)

	require.True(t, runner.QueueCandidate(calID, candID))
	runner.Shutdown(context.Background())

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Contains(t, store.processing, candID)
	require.Contains(t, store.scored, candID)
	assert.Equal(t, 80, store.scored[candID].TotalScore)
	assert.Empty(t, store.failed)
}

func TestRunner_DeduplicatesInFlightJobs(t *testing.T) {
	store := newFakeStore()
	calID := newTestCalibration(store)
	candID := store.addCandidate(calID, "resume text")

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	scorer := funcScorer(func(_ context.Context, _ *types.Calibration, _ string) (*types.RankingPayload, error) {
		started <- struct{}{}
		<-release
		return &types.RankingPayload{TotalScore: 10}, nil
	})
	runner := NewRunner(store, scorer, 2)

	require.True(t, runner.QueueCandidate(calID, candID))
	<-started
	assert.False(t, runner.QueueCandidate(calID, candID))

	close(release)
	runner.Shutdown(context.Background())

	// Job can be queued again once finished.
	assert.True(t, runner.QueueCandidate(calID, candID))
	runner.Shutdown(context.Background())
}

func TestRunner_RecordsScorerFailure(t *testing.T) {
	store := newFakeStore()
	calID := newTestCalibration(store)
	candID := store.addCandidate(calID, "resume text")

	scorer := funcScorer(func(_ context.Context, _ *types.Calibration, _ string) (*types.RankingPayload, error) {
		return nil, errors.New("model unavailable")
	})
	runner := NewRunner(store, scorer, 1)

	require.True(t, runner.QueueCandidate(calID, candID))
	runner.Shutdown(context.Background())

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, "model unavailable", store.failed[candID])
	assert.Empty(t, store.scored)
}

func TestRunner_MissingCandidateFails(t *testing.T) {
	store := newFakeStore()
	calID := newTestCalibration(store)
	ghost := uuid.New()

	scorer := funcScorer(func(_ context.Context, _ *types.Calibration, _ string) (*types.RankingPayload, error) {
		t.Fatal("scorer should not run")
		return nil, nil
	})
	runner := NewRunner(store, scorer, 1)

	require.True(t, runner.QueueCandidate(calID, ghost))
	runner.Shutdown(context.Background())

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, "Calibration or candidate no longer exists.", store.failed[ghost])
}

func TestRunner_QueueRescore(t *testing.T) {
	store := newFakeStore()
	calID := newTestCalibration(store)
	store.addCandidate(calID, "one")
	store.addCandidate(calID, "two")
	store.addCandidate(calID, "three")

	var mu sync.Mutex
	scoredTexts := 0
	scorer := funcScorer(func(_ context.Context, _ *types.Calibration, _ string) (*types.RankingPayload, error) {
		mu.Lock()
		scoredTexts++
		mu.Unlock()
		return &types.RankingPayload{TotalScore: 1}, nil
	})
	runner := NewRunner(store, scorer, 2)

	queued, err := runner.QueueRescore(context.Background(), calID)
	require.NoError(t, err)
	assert.Equal(t, 3, queued)
	runner.Shutdown(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, scoredTexts)
}

func TestRunner_ShutdownDropsUnstartedJobs(t *testing.T) {
	store := newFakeStore()
	calID := newTestCalibration(store)
	first := store.addCandidate(calID, "one")
	second := store.addCandidate(calID, "two")

	started := make(chan struct{})
	release := make(chan struct{})
	scorer := funcScorer(func(_ context.Context, _ *types.Calibration, _ string) (*types.RankingPayload, error) {
		close(started)
		<-release
		return &types.RankingPayload{TotalScore: 10}, nil
	})
	runner := NewRunner(store, scorer, 1)

	require.True(t, runner.QueueCandidate(calID, first))
	<-started
	// Second job is queued but cannot start while the first holds the slot.
	require.True(t, runner.QueueCandidate(calID, second))

	go func() {
		time.Sleep(100 * time.Millisecond)
		close(release)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	runner.Shutdown(ctx)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Contains(t, store.scored, first)
	assert.NotContains(t, store.scored, second)
	assert.NotContains(t, store.failed, second)
}
