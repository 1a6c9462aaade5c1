package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"edupath/internal/core"
	"edupath/internal/models"
	"edupath/internal/utils"
)

// TabSource feeds the recommendations and profile tabs.
type TabSource interface {
	RecommendationHistory(ctx context.Context) ([]models.RecommendationRecord, error)
	StudentProfile(ctx context.Context) (*models.StudentProfile, error)
}

const (
	SectionHistory Section = "history"
	SectionProfile Section = "profile"
)

// TabState is a copy of the history and profile held for the session.
type TabState struct {
	History      []models.RecommendationRecord
	HistoryState SectionState
	Profile      *models.StudentProfile
	ProfileState SectionState
}

// TabData loads the recommendation history and the student profile once
// per session epoch, so switching tabs never goes back to the service.
// Reload refetches one section after the user changed it.
type TabData struct {
	src    TabSource
	app    *core.AppContext
	logger *zap.Logger

	mu      sync.Mutex
	epoch   uint64
	gen     map[Section]uint64
	started map[Section]bool
	state   TabState
}

func NewTabData(src TabSource, app *core.AppContext, logger *zap.Logger) *TabData {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TabData{src: src, app: app, logger: logger}
}

// Enter starts the sections the signed-in role can see, unless they were
// already started in this session.
func (d *TabData) Enter(ctx context.Context) (<-chan struct{}, error) {
	var secs []Section
	caps := CapabilitiesFor(d.app.Role())
	if caps.CanSee(TabRecommendations) {
		secs = append(secs, SectionHistory)
	}
	if caps.CanSee(TabProfile) {
		secs = append(secs, SectionProfile)
	}
	return d.start(ctx, secs, false)
}

// Reload refetches one section within the current session.
func (d *TabData) Reload(ctx context.Context, sec Section) (<-chan struct{}, error) {
	if sec != SectionHistory && sec != SectionProfile {
		return nil, fmt.Errorf("dashboard: %s is not a tab section", sec)
	}
	return d.start(ctx, []Section{sec}, true)
}

func (d *TabData) Snapshot() TabState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.epoch != d.app.Epoch() {
		return TabState{}
	}
	s := d.state
	s.History = append([]models.RecommendationRecord(nil), d.state.History...)
	if d.state.Profile != nil {
		p := *d.state.Profile
		s.Profile = &p
	}
	return s
}

func (d *TabData) start(ctx context.Context, secs []Section, force bool) (<-chan struct{}, error) {
	user, ok := d.app.User()
	if !ok {
		return nil, utils.ErrNotSignedIn
	}
	epoch := d.app.Epoch()

	d.mu.Lock()
	if d.epoch != epoch || d.gen == nil {
		d.epoch = epoch
		d.gen = map[Section]uint64{}
		d.started = map[Section]bool{}
		d.state = TabState{}
	}
	var run []Section
	gens := map[Section]uint64{}
	for _, sec := range secs {
		if d.started[sec] && !force {
			continue
		}
		d.started[sec] = true
		d.gen[sec]++
		gens[sec] = d.gen[sec]
		d.setLocked(sec, SectionState{Status: StatusLoading})
		run = append(run, sec)
	}
	d.mu.Unlock()

	var wg sync.WaitGroup
	for _, sec := range run {
		wg.Add(1)
		go func(sec Section, gen uint64) {
			defer wg.Done()
			start := time.Now()
			switch sec {
			case SectionHistory:
				list, err := d.src.RecommendationHistory(ctx)
				d.finish(epoch, gen, sec, err, time.Since(start), func(s *TabState) { s.History = list })
			case SectionProfile:
				if user.Role != models.RoleStudent {
					d.finish(epoch, gen, sec, utils.ErrForbidden, 0, nil)
					return
				}
				p, err := d.src.StudentProfile(ctx)
				d.finish(epoch, gen, sec, err, time.Since(start), func(s *TabState) { s.Profile = p })
			}
		}(sec, gens[sec])
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done, nil
}

func (d *TabData) finish(epoch, gen uint64, sec Section, err error, took time.Duration, apply func(*TabState)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.epoch != epoch || d.gen[sec] != gen || !d.app.Current(epoch) {
		d.logger.Debug("dropping stale tab result", zap.String("section", string(sec)))
		return
	}
	if err != nil {
		d.logger.Warn("tab section failed",
			zap.String("section", string(sec)),
			zap.Duration("took", took),
			zap.Error(err))
		d.setLocked(sec, SectionState{Status: StatusFailed, Err: err})
		return
	}
	apply(&d.state)
	d.setLocked(sec, SectionState{Status: StatusReady})
}

func (d *TabData) setLocked(sec Section, st SectionState) {
	switch sec {
	case SectionHistory:
		d.state.HistoryState = st
	case SectionProfile:
		d.state.ProfileState = st
	}
}
