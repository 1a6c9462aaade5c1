package recommend

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"edupath/internal/core"
	"edupath/internal/models"
	"edupath/internal/utils"
)

// ErrSessionChanged is returned when the session ended while a submission
// was in flight; its result was discarded.
var ErrSessionChanged = errors.New("session changed before the response arrived")

// Recommender is the remote side of the workflow.
type Recommender interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (models.RecommendationRecord, error)
	RecommendationHistory(ctx context.Context) ([]models.RecommendationRecord, error)
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseResults
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseResults:
		return "results"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is the render state of the workflow. Err and Results can both be
// set: a failed submit keeps the previous results.
type Snapshot struct {
	Phase    Phase
	Results  []models.RecommendationResult
	Err      error
	Request  models.RecommendationRequest
	RecordID string
}

// Workflow is one recommendation form instance. At most one submission is in
// flight at a time.
type Workflow struct {
	api    Recommender
	app    *core.AppContext
	logger *zap.Logger

	mu    sync.Mutex
	busy  bool
	// busyEpoch is the session epoch of the in-flight submission.
	busyEpoch uint64
	epoch     uint64
	snap      Snapshot
}

func NewWorkflow(api Recommender, app *core.AppContext, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{api: api, app: app, logger: logger, epoch: app.Epoch()}
}

// Busy reports whether a submission is in flight.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busyLocked()
}

// busyLocked ignores a submission started under an earlier session.
func (w *Workflow) busyLocked() bool {
	return w.busy && w.busyEpoch == w.app.Epoch()
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != w.app.Epoch() {
		return Snapshot{}
	}
	return w.copyLocked()
}

// Submit normalizes form and sends it. A submit while another is in flight
// returns ErrSubmissionInFlight without calling the service. On success the
// results replace the previous ones; on failure the previous results stay
// and the error is recorded.
func (w *Workflow) Submit(ctx context.Context, form Form) (Snapshot, error) {
	if !w.app.SignedIn() {
		return Snapshot{}, utils.ErrNotSignedIn
	}
	req := form.Normalize()

	w.mu.Lock()
	if w.busyLocked() {
		snap := w.copyLocked()
		w.mu.Unlock()
		return snap, utils.ErrSubmissionInFlight
	}
	epoch := w.app.Epoch()
	if w.epoch != epoch {
		w.epoch = epoch
		w.snap = Snapshot{}
	}
	w.busy = true
	w.busyEpoch = epoch
	w.snap.Phase = PhaseSubmitting
	w.snap.Request = req
	w.snap.Err = nil
	w.mu.Unlock()

	if len(req.Interests) == 0 {
		w.logger.Warn("submitting recommendation request without interests",
			zap.Bool("all_empty", req.Empty()))
	}

	rec, err := w.api.Recommend(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busyEpoch == epoch {
		w.busy = false
	}
	if w.epoch != epoch || !w.app.Current(epoch) {
		w.logger.Debug("dropping recommendation result from an ended session")
		return Snapshot{}, ErrSessionChanged
	}
	if err != nil {
		w.logger.Warn("recommendation request failed", zap.Error(err))
		w.snap.Phase = PhaseError
		w.snap.Err = err
		return w.copyLocked(), err
	}
	w.snap.Phase = PhaseResults
	w.snap.Err = nil
	w.snap.Results = append([]models.RecommendationResult(nil), rec.Recommendations...)
	w.snap.RecordID = rec.ID
	w.logger.Info("recommendations received",
		zap.String("record_id", rec.ID),
		zap.Int("count", len(rec.Recommendations)))
	return w.copyLocked(), nil
}

// History lists the signed-in user's previous records, newest first.
func (w *Workflow) History(ctx context.Context) ([]models.RecommendationRecord, error) {
	if !w.app.SignedIn() {
		return nil, utils.ErrNotSignedIn
	}
	return w.api.RecommendationHistory(ctx)
}

func (w *Workflow) copyLocked() Snapshot {
	s := w.snap
	s.Results = append([]models.RecommendationResult(nil), w.snap.Results...)
	return s
}
