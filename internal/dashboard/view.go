package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"edupath/internal/core"
	"edupath/internal/utils"
)

// Card is one overview tile. Ready is false until its section has loaded.
type Card struct {
	Key   string
	Value float64
	Ready bool
}

// View is the dashboard of one application context: navigator, loaders and
// the role gating layered over them.
type View struct {
	app    *core.AppContext
	nav    *Navigator
	loader *Loader
	tabs   *TabData

	mu    sync.Mutex
	epoch uint64
}

// NewView builds the dashboard. When src is also a TabSource the history
// and profile tabs are loaded with the other sections.
func NewView(app *core.AppContext, src Source, logger *zap.Logger, opts LoaderOptions) *View {
	v := &View{
		app:    app,
		nav:    NewNavigator(),
		loader: NewLoader(src, app, logger, opts),
	}
	if ts, ok := src.(TabSource); ok {
		v.tabs = NewTabData(ts, app, logger)
	}
	return v
}

func (v *View) Navigator() *Navigator { return v.nav }

func (v *View) Loader() *Loader { return v.loader }

// TabData is nil when the view was built without a TabSource.
func (v *View) TabData() *TabData { return v.tabs }

// Enter shows the dashboard. The first entry of a session resets the tab to
// overview and starts the loaders; later entries change nothing.
func (v *View) Enter(ctx context.Context) (<-chan struct{}, error) {
	if !v.app.SignedIn() {
		return nil, utils.ErrNotSignedIn
	}
	epoch := v.app.Epoch()
	v.mu.Lock()
	if v.epoch != epoch {
		v.epoch = epoch
		v.nav.Reset()
	}
	v.mu.Unlock()
	done, err := v.loader.Enter(ctx)
	if err != nil || v.tabs == nil {
		return done, err
	}
	tabsDone, err := v.tabs.Enter(ctx)
	if err != nil {
		return done, err
	}
	return both(done, tabsDone), nil
}

func both(a, b <-chan struct{}) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		<-a
		<-b
		close(out)
	}()
	return out
}

func (v *View) Capabilities() Capabilities {
	return CapabilitiesFor(v.app.Role())
}

func (v *View) VisibleTabs() []Tab {
	return v.Capabilities().Tabs
}

// Select switches tab. Tabs hidden for the role are refused with
// ErrForbidden; the navigator itself accepts every tab.
func (v *View) Select(tab Tab) (bool, error) {
	if _, err := ParseTab(string(tab)); err != nil {
		return false, err
	}
	if !v.Capabilities().CanSee(tab) {
		return false, utils.ErrForbidden
	}
	return v.nav.Select(tab)
}

// Cards builds the overview tiles for the signed-in role.
func (v *View) Cards() []Card {
	st := v.loader.Snapshot()
	caps := v.Capabilities()
	cards := make([]Card, 0, len(caps.Cards))
	for _, key := range caps.Cards {
		c := Card{Key: key}
		switch key {
		case CardScholarships:
			c.Value, c.Ready = float64(len(st.Scholarships)), st.ScholarshipsState.Status == StatusReady
		case CardOpportunities:
			c.Value, c.Ready = float64(len(st.Opportunities)), st.OpportunitiesState.Status == StatusReady
		default:
			val, ok := st.Stats.Counters[key]
			c.Value, c.Ready = val, ok && st.StatsState.Status == StatusReady
		}
		cards = append(cards, c)
	}
	return cards
}
