package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"edupath/internal/core"
	"edupath/internal/models"
	"edupath/internal/utils"
)

type fakeSource struct {
	calls         atomic.Int32
	scholarErr    error
	statsGate     chan struct{}
	mu            sync.Mutex
	scholarFilter models.ScholarshipFilter
}

func (f *fakeSource) DashboardStats(context.Context) (models.DashboardStats, error) {
	f.calls.Add(1)
	if f.statsGate != nil {
		<-f.statsGate
	}
	return models.DashboardStats{Role: models.RoleStudent, Counters: map[string]float64{
		CardRecommendationsReceived: 2, CardQuizzesCompleted: 0, CardProfileCompletion: 75,
	}}, nil
}

func (f *fakeSource) Scholarships(_ context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.scholarFilter = filter
	f.mu.Unlock()
	if f.scholarErr != nil {
		return nil, f.scholarErr
	}
	return []models.Scholarship{{ID: "1"}, {ID: "2"}}, nil
}

func (f *fakeSource) NearbyOpportunities(context.Context, models.NearbyQuery) ([]models.Opportunity, error) {
	f.calls.Add(1)
	return []models.Opportunity{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil
}

func signedIn(role models.Role) *core.AppContext {
	app := core.New(nil)
	app.SignIn(models.UserIdentity{ID: "u1", Role: role})
	return app
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loader did not finish")
	}
}

func TestNavigator(t *testing.T) {
	n := NewNavigator()
	if n.Active() != TabOverview {
		t.Fatalf("initial tab %s", n.Active())
	}
	if changed, err := n.Select(TabScholarships); err != nil || !changed {
		t.Fatalf("select: %v %v", changed, err)
	}
	if changed, _ := n.Select(TabScholarships); changed {
		t.Fatal("reselecting the active tab must be a no-op")
	}
	if _, err := n.Select("settings"); !errors.Is(err, utils.ErrUnknownTab) {
		t.Fatalf("got %v", err)
	}
	if n.Active() != TabScholarships {
		t.Fatal("invalid selection changed state")
	}
}

func TestCapabilities(t *testing.T) {
	for _, role := range []models.Role{models.RoleStudent, models.RoleCounselor} {
		if len(CapabilitiesFor(role).Tabs) != 5 {
			t.Errorf("%s should see every tab", role)
		}
	}
	for _, role := range []models.Role{models.RoleParent, models.RoleAdmin} {
		c := CapabilitiesFor(role)
		if c.CanSee(TabRecommendations) || !c.CanSee(TabProfile) {
			t.Errorf("%s: unexpected tabs %v", role, c.Tabs)
		}
	}
	if CapabilitiesFor("").CanSee(TabScholarships) {
		t.Error("unknown role should only see overview")
	}
}

func TestLoaderPartialFailure(t *testing.T) {
	src := &fakeSource{scholarErr: utils.NewRemoteError(utils.ErrNetworkOrServer, 503, "down")}
	l := NewLoader(src, signedIn(models.RoleStudent), nil, LoaderOptions{})

	var mu sync.Mutex
	seen := map[Section]bool{}
	l.OnUpdate(func(s Section) {
		mu.Lock()
		seen[s] = true
		mu.Unlock()
	})

	done, err := l.Enter(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	wait(t, done)

	st := l.Snapshot()
	if st.ScholarshipsState.Status != StatusFailed || !errors.Is(st.ScholarshipsState.Err, utils.ErrNetworkOrServer) {
		t.Fatalf("scholarships state %+v", st.ScholarshipsState)
	}
	if st.StatsState.Status != StatusReady || st.Stats.Counters[CardProfileCompletion] != 75 {
		t.Fatalf("stats state %+v", st.StatsState)
	}
	if st.OpportunitiesState.Status != StatusReady || len(st.Opportunities) != 3 {
		t.Fatalf("opportunities state %+v", st.OpportunitiesState)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Fatalf("observer saw %v", seen)
	}
}

func TestLoaderRunsConcurrently(t *testing.T) {
	src := &fakeSource{statsGate: make(chan struct{})}
	l := NewLoader(src, signedIn(models.RoleStudent), nil, LoaderOptions{})

	var ready atomic.Int32
	l.OnUpdate(func(Section) { ready.Add(1) })
	done, _ := l.Enter(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for ready.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ready.Load() != 2 {
		t.Fatal("scholarships and opportunities should not wait for stats")
	}
	if l.Snapshot().StatsState.Status != StatusLoading {
		t.Fatal("stats should still be loading")
	}
	close(src.statsGate)
	wait(t, done)
}

func TestLoaderOncePerSession(t *testing.T) {
	src := &fakeSource{}
	app := signedIn(models.RoleStudent)
	l := NewLoader(src, app, nil, LoaderOptions{Scholarships: models.ScholarshipFilter{Category: "merit"}})

	done, _ := l.Enter(context.Background())
	wait(t, done)
	done, _ = l.Enter(context.Background())
	wait(t, done)
	if n := src.calls.Load(); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
	if src.scholarFilter.Category != "merit" {
		t.Fatalf("filter not passed: %+v", src.scholarFilter)
	}

	done, _ = l.Refresh(context.Background())
	wait(t, done)
	if n := src.calls.Load(); n != 6 {
		t.Fatalf("refresh should refetch, got %d calls", n)
	}

	app.SignOut()
	if _, err := l.Enter(context.Background()); !errors.Is(err, utils.ErrNotSignedIn) {
		t.Fatalf("got %v", err)
	}
	app.SignIn(models.UserIdentity{ID: "u2", Role: models.RoleParent})
	done, _ = l.Enter(context.Background())
	wait(t, done)
	if n := src.calls.Load(); n != 9 {
		t.Fatalf("new session should refetch, got %d calls", n)
	}
}

func TestLoaderDropsResultsAfterLogout(t *testing.T) {
	src := &fakeSource{statsGate: make(chan struct{})}
	app := signedIn(models.RoleStudent)
	l := NewLoader(src, app, nil, LoaderOptions{})

	done, _ := l.Enter(context.Background())
	app.SignOut()
	close(src.statsGate)
	wait(t, done)

	if st := l.Snapshot(); st.StatsState.Status == StatusReady {
		t.Fatal("late stats must not be applied after logout")
	}
}

func TestViewGatingAndCards(t *testing.T) {
	src := &fakeSource{}
	app := signedIn(models.RoleParent)
	v := NewView(app, src, nil, LoaderOptions{})

	done, err := v.Enter(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	wait(t, done)

	if _, err := v.Select(TabRecommendations); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("parent selecting recommendations: %v", err)
	}
	if changed, err := v.Select(TabOpportunities); err != nil || !changed {
		t.Fatalf("select opportunities: %v %v", changed, err)
	}

	cards := v.Cards()
	if len(cards) != 2 || cards[0].Key != CardScholarships || cards[0].Value != 2 || !cards[1].Ready || cards[1].Value != 3 {
		t.Fatalf("unexpected cards %+v", cards)
	}

	// a new session starts on overview again
	app.SignIn(models.UserIdentity{ID: "u3", Role: models.RoleStudent})
	done, _ = v.Enter(context.Background())
	wait(t, done)
	if v.Navigator().Active() != TabOverview {
		t.Fatalf("expected overview, got %s", v.Navigator().Active())
	}
	if cards := v.Cards(); len(cards) != 3 || cards[2].Value != 75 || !cards[2].Ready {
		t.Fatalf("unexpected student cards %+v", cards)
	}
}

type fakeTabSource struct {
	history     atomic.Int32
	profile     atomic.Int32
	historyGate chan struct{}
}

func (f *fakeTabSource) RecommendationHistory(context.Context) ([]models.RecommendationRecord, error) {
	n := f.history.Add(1)
	if f.historyGate != nil {
		<-f.historyGate
	}
	out := make([]models.RecommendationRecord, n)
	for i := range out {
		out[i] = models.RecommendationRecord{ID: "rec"}
	}
	return out, nil
}

func (f *fakeTabSource) StudentProfile(context.Context) (*models.StudentProfile, error) {
	f.profile.Add(1)
	return &models.StudentProfile{UserID: "u1", AcademicLevel: "12th"}, nil
}

func TestTabDataOncePerSession(t *testing.T) {
	src := &fakeTabSource{}
	app := signedIn(models.RoleStudent)
	d := NewTabData(src, app, nil)

	for i := 0; i < 3; i++ {
		done, err := d.Enter(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		wait(t, done)
	}
	if h, p := src.history.Load(), src.profile.Load(); h != 1 || p != 1 {
		t.Fatalf("history calls %d, profile calls %d", h, p)
	}
	st := d.Snapshot()
	if st.HistoryState.Status != StatusReady || len(st.History) != 1 || st.Profile == nil || st.Profile.AcademicLevel != "12th" {
		t.Fatalf("state %+v", st)
	}

	done, err := d.Reload(context.Background(), SectionHistory)
	if err != nil {
		t.Fatal(err)
	}
	wait(t, done)
	if h, p := src.history.Load(), src.profile.Load(); h != 2 || p != 1 {
		t.Fatalf("reload: history calls %d, profile calls %d", h, p)
	}
	if len(d.Snapshot().History) != 2 {
		t.Fatal("reload result not applied")
	}
	if _, err := d.Reload(context.Background(), SectionStats); err == nil {
		t.Fatal("stats is not a tab section")
	}

	app.SignIn(models.UserIdentity{ID: "u2", Role: models.RoleParent})
	done, _ = d.Enter(context.Background())
	wait(t, done)
	if h, p := src.history.Load(), src.profile.Load(); h != 2 || p != 1 {
		t.Fatalf("parent session: history calls %d, profile calls %d", h, p)
	}
	st = d.Snapshot()
	if len(st.History) != 0 || st.ProfileState.Status != StatusFailed || !errors.Is(st.ProfileState.Err, utils.ErrForbidden) {
		t.Fatalf("parent state %+v", st)
	}
}

func TestTabDataDropsResultsAfterLogout(t *testing.T) {
	src := &fakeTabSource{historyGate: make(chan struct{})}
	app := signedIn(models.RoleStudent)
	d := NewTabData(src, app, nil)

	done, _ := d.Enter(context.Background())
	app.SignOut()
	close(src.historyGate)
	wait(t, done)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.HistoryState.Status == StatusReady || len(d.state.History) != 0 {
		t.Fatalf("late history applied: %+v", d.state)
	}
}

func TestViewEnterWaitsForTabs(t *testing.T) {
	tabs := &fakeTabSource{historyGate: make(chan struct{})}
	src := struct {
		*fakeSource
		*fakeTabSource
	}{&fakeSource{}, tabs}
	v := NewView(signedIn(models.RoleStudent), src, nil, LoaderOptions{})
	if v.TabData() == nil {
		t.Fatal("view should load tab data")
	}

	done, err := v.Enter(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
		t.Fatal("entry finished before the history loaded")
	case <-time.After(20 * time.Millisecond):
	}
	close(tabs.historyGate)
	wait(t, done)
	if st := v.TabData().Snapshot(); st.HistoryState.Status != StatusReady {
		t.Fatalf("history state %+v", st.HistoryState)
	}

	if NewView(signedIn(models.RoleStudent), &fakeSource{}, nil, LoaderOptions{}).TabData() != nil {
		t.Fatal("a plain source has no tab data")
	}
}
