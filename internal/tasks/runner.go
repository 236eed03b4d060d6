// Package tasks runs candidate scoring jobs in the background with
// bounded concurrency and per-candidate de-duplication.
package tasks

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/scoring"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// Store is the persistence surface the runner needs. *db.DB satisfies it.
type Store interface {
	GetCalibration(ctx context.Context, id uuid.UUID) (*types.Calibration, error)
	GetCandidateProfile(ctx context.Context, calibrationID, candidateID uuid.UUID) (*types.CandidateProfile, error)
	ListCandidateIDs(ctx context.Context, calibrationID uuid.UUID) ([]uuid.UUID, error)
	MarkCandidateScoring(ctx context.Context, calibrationID, candidateID uuid.UUID) error
	SetCandidateScore(ctx context.Context, calibrationID, candidateID uuid.UUID, payload *types.RankingPayload) error
	MarkCandidateScoringFailed(ctx context.Context, calibrationID, candidateID uuid.UUID, scoreErr string) error
}

type jobKey struct {
	calibrationID uuid.UUID
	candidateID   uuid.UUID
}

// Runner schedules scoring jobs. A candidate already queued or in flight
// for the same calibration is not queued again.
type Runner struct {
	store  Store
	scorer scoring.Scorer
	sem    *semaphore.Weighted

	mu       sync.Mutex
	inflight map[jobKey]struct{}
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRunner creates a runner that scores at most concurrency candidates
// at once.
func NewRunner(store Store, scorer scoring.Scorer, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		store:    store,
		scorer:   scorer,
		sem:      semaphore.NewWeighted(int64(concurrency)),
		inflight: make(map[jobKey]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// QueueCandidate schedules one candidate for scoring. Returns false when
// the same job is already queued or running.
func (r *Runner) QueueCandidate(calibrationID, candidateID uuid.UUID) bool {
	key := jobKey{calibrationID: calibrationID, candidateID: candidateID}

	r.mu.Lock()
	if _, busy := r.inflight[key]; busy {
		r.mu.Unlock()
		return false
	}
	r.inflight[key] = struct{}{}
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.release(key)

		if err := r.sem.Acquire(r.ctx, 1); err != nil {
			return // shutting down
		}
		defer r.sem.Release(1)
		r.run(key)
	}()
	return true
}

// QueueRescore schedules every candidate of a calibration and returns how
// many jobs were newly queued.
func (r *Runner) QueueRescore(ctx context.Context, calibrationID uuid.UUID) (int, error) {
	ids, err := r.store.ListCandidateIDs(ctx, calibrationID)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, id := range ids {
		if r.QueueCandidate(calibrationID, id) {
			queued++
		}
	}
	return queued, nil
}

// Shutdown waits for queued and in-flight jobs to finish. When ctx
// expires first, jobs that have not started are abandoned and the wait
// continues only for running ones.
func (r *Runner) Shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		r.cancel()
		<-done
	}
}

func (r *Runner) release(key jobKey) {
	r.mu.Lock()
	delete(r.inflight, key)
	r.mu.Unlock()
}

func (r *Runner) run(key jobKey) {
	ctx := r.ctx

	cal, err := r.store.GetCalibration(ctx, key.calibrationID)
	if err != nil {
		r.fail(ctx, key, err.Error())
		return
	}
	candidate, err := r.store.GetCandidateProfile(ctx, key.calibrationID, key.candidateID)
	if err != nil {
		r.fail(ctx, key, err.Error())
		return
	}
	if cal == nil || candidate == nil {
		r.fail(ctx, key, "Calibration or candidate no longer exists.")
		return
	}

	if err := r.store.MarkCandidateScoring(ctx, key.calibrationID, key.candidateID); err != nil {
		log.Printf("[scoring] failed to mark candidate %s processing: %v", key.candidateID, err)
	}

	payload, err := r.scorer.Score(ctx, cal, candidate.ParsedText)
	if err != nil {
		r.fail(ctx, key, err.Error())
		return
	}
	if err := r.store.SetCandidateScore(ctx, key.calibrationID, key.candidateID, payload); err != nil {
		log.Printf("[scoring] failed to store score for candidate %s: %v", key.candidateID, err)
	}
}

func (r *Runner) fail(ctx context.Context, key jobKey, msg string) {
	if err := r.store.MarkCandidateScoringFailed(ctx, key.calibrationID, key.candidateID, msg); err != nil {
		log.Printf("[scoring] failed to record failure for candidate %s: %v", key.candidateID, err)
	}
}
