package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"edupath/internal/core"
	"edupath/internal/models"
	"edupath/internal/utils"
)

// Source is the remote side of the loader.
type Source interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	Scholarships(ctx context.Context, f models.ScholarshipFilter) ([]models.Scholarship, error)
	NearbyOpportunities(ctx context.Context, q models.NearbyQuery) ([]models.Opportunity, error)
}

type Section string

const (
	SectionStats         Section = "stats"
	SectionScholarships  Section = "scholarships"
	SectionOpportunities Section = "opportunities"
)

type Status int

const (
	StatusPending Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

type SectionState struct {
	Status Status
	Err    error
}

// State is a copy of everything the loader holds.
type State struct {
	Stats              models.DashboardStats
	StatsState         SectionState
	Scholarships       []models.Scholarship
	ScholarshipsState  SectionState
	Opportunities      []models.Opportunity
	OpportunitiesState SectionState
}

type LoaderOptions struct {
	Scholarships models.ScholarshipFilter
	Nearby       models.NearbyQuery
}

// Loader fetches stats, scholarships and opportunities concurrently, once
// per session epoch. Each section completes or fails on its own.
type Loader struct {
	src    Source
	app    *core.AppContext
	logger *zap.Logger

	mu       sync.Mutex
	opts     LoaderOptions
	epoch    uint64
	gen      uint64
	started  bool
	state    State
	observer func(Section)
}

func NewLoader(src Source, app *core.AppContext, logger *zap.Logger, opts LoaderOptions) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, app: app, logger: logger, opts: opts}
}

// OnUpdate registers fn to be called, from the fetching goroutine, each
// time a section finishes.
func (l *Loader) OnUpdate(fn func(Section)) {
	l.mu.Lock()
	l.observer = fn
	l.mu.Unlock()
}

// SetOptions changes the filters used by the next Refresh.
func (l *Loader) SetOptions(opts LoaderOptions) {
	l.mu.Lock()
	l.opts = opts
	l.mu.Unlock()
}

// Enter starts the fetches the first time it is called in a session. Later
// calls in the same session return an already closed channel.
func (l *Loader) Enter(ctx context.Context) (<-chan struct{}, error) {
	return l.start(ctx, false)
}

// Refresh reloads all three sections within the current session.
func (l *Loader) Refresh(ctx context.Context) (<-chan struct{}, error) {
	return l.start(ctx, true)
}

func (l *Loader) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state
	s.Scholarships = append([]models.Scholarship(nil), l.state.Scholarships...)
	s.Opportunities = append([]models.Opportunity(nil), l.state.Opportunities...)
	return s
}

func (l *Loader) start(ctx context.Context, force bool) (<-chan struct{}, error) {
	if !l.app.SignedIn() {
		return nil, utils.ErrNotSignedIn
	}
	epoch := l.app.Epoch()

	l.mu.Lock()
	if l.epoch != epoch {
		l.epoch = epoch
		l.started = false
		l.state = State{}
	}
	if l.started && !force {
		l.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done, nil
	}
	l.started = true
	l.gen++
	gen, opts := l.gen, l.opts
	l.state.StatsState = SectionState{Status: StatusLoading}
	l.state.ScholarshipsState = SectionState{Status: StatusLoading}
	l.state.OpportunitiesState = SectionState{Status: StatusLoading}
	l.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		start := time.Now()
		stats, err := l.src.DashboardStats(ctx)
		l.finish(epoch, gen, SectionStats, err, time.Since(start), func(s *State) { s.Stats = stats })
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		list, err := l.src.Scholarships(ctx, opts.Scholarships)
		l.finish(epoch, gen, SectionScholarships, err, time.Since(start), func(s *State) { s.Scholarships = list })
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		list, err := l.src.NearbyOpportunities(ctx, opts.Nearby)
		l.finish(epoch, gen, SectionOpportunities, err, time.Since(start), func(s *State) { s.Opportunities = list })
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done, nil
}

// finish applies one section result unless the session or the load it
// belongs to has been replaced.
func (l *Loader) finish(epoch, gen uint64, sec Section, err error, took time.Duration, apply func(*State)) {
	l.mu.Lock()
	if l.epoch != epoch || l.gen != gen || !l.app.Current(epoch) {
		l.mu.Unlock()
		l.logger.Debug("dropping stale dashboard result", zap.String("section", string(sec)))
		return
	}
	st := SectionState{Status: StatusReady}
	if err != nil {
		st = SectionState{Status: StatusFailed, Err: err}
		l.logger.Warn("dashboard section failed",
			zap.String("section", string(sec)),
			zap.Duration("took", took),
			zap.Error(err))
	} else {
		apply(&l.state)
		l.logger.Debug("dashboard section loaded",
			zap.String("section", string(sec)),
			zap.Duration("took", took))
	}
	switch sec {
	case SectionStats:
		l.state.StatsState = st
	case SectionScholarships:
		l.state.ScholarshipsState = st
	case SectionOpportunities:
		l.state.OpportunitiesState = st
	}
	fn := l.observer
	l.mu.Unlock()

	if fn != nil {
		fn(sec)
	}
}
