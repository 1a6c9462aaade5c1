package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"edupath/internal/core"
	"edupath/internal/dashboard"
	"edupath/internal/models"
	"edupath/internal/recommend"
	"edupath/internal/utils"
)

type countingSource struct {
	calls      atomic.Int32
	scholarErr error
}

func (s *countingSource) DashboardStats(context.Context) (models.DashboardStats, error) {
	s.calls.Add(1)
	return models.DashboardStats{Role: models.RoleStudent, Counters: map[string]float64{
		dashboard.CardRecommendationsReceived: 3,
		dashboard.CardQuizzesCompleted:        0,
		dashboard.CardProfileCompletion:       75,
	}}, nil
}

func (s *countingSource) Scholarships(context.Context, models.ScholarshipFilter) ([]models.Scholarship, error) {
	s.calls.Add(1)
	if s.scholarErr != nil {
		return nil, s.scholarErr
	}
	return []models.Scholarship{{ID: "1", Title: "Merit Award", Amount: "₹50,000", Provider: "Ministry of Education"}}, nil
}

func (s *countingSource) NearbyOpportunities(context.Context, models.NearbyQuery) ([]models.Opportunity, error) {
	s.calls.Add(1)
	return []models.Opportunity{{ID: "1", Name: "Government College", Type: "college", Courses: []string{"B.Sc"}}}, nil
}

func loadedView(t *testing.T, src *countingSource) (*core.AppContext, *dashboard.View) {
	t.Helper()
	app := core.New(nil)
	app.SignIn(models.UserIdentity{ID: "u1", FullName: "asha devi", Email: "asha@example.com", Role: models.RoleStudent})
	v := dashboard.NewView(app, src, zap.NewNop(), dashboard.LoaderOptions{})
	done, err := v.Enter(context.Background())
	if err != nil {
		t.Fatalf("enter: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dashboard did not load")
	}
	return app, v
}

func renderAll(app *core.AppContext, v *dashboard.View, snap recommend.Snapshot) string {
	var b bytes.Buffer
	st := v.Loader().Snapshot()
	RenderHeader(&b, app)
	RenderTabs(&b, app, v.VisibleTabs(), v.Navigator().Active())
	RenderOverview(&b, app, v.Cards())
	RenderScholarships(&b, app, st.Scholarships, st.ScholarshipsState)
	RenderOpportunities(&b, app, st.Opportunities, st.OpportunitiesState)
	RenderResults(&b, app, snap)
	return b.String()
}

func TestLanguageSwitchRerendersWithoutNetwork(t *testing.T) {
	src := &countingSource{}
	app, v := loadedView(t, src)
	calls := src.calls.Load()

	en := renderAll(app, v, recommend.Snapshot{})
	for _, want := range []string{"Scholarships", "Profile completion", "75%", "No recommendations yet", "Asha Devi"} {
		if !strings.Contains(en, want) {
			t.Fatalf("english render missing %q:\n%s", want, en)
		}
	}

	if err := app.SetLanguage(models.LangHindi); err != nil {
		t.Fatalf("set language: %v", err)
	}
	hi := renderAll(app, v, recommend.Snapshot{})
	for _, want := range []string{"छात्रवृत्तियाँ", "प्रोफ़ाइल पूर्णता", "अभी कोई सुझाव नहीं", "राशि"} {
		if !strings.Contains(hi, want) {
			t.Fatalf("hindi render missing %q:\n%s", want, hi)
		}
	}
	if strings.Contains(hi, "Profile completion") {
		t.Fatal("english label left after switching language")
	}
	// data is unchanged
	if !strings.Contains(hi, "Merit Award") || !strings.Contains(hi, "Government College") {
		t.Fatal("loaded data lost on language switch")
	}
	if got := src.calls.Load(); got != calls {
		t.Fatalf("language switch made %d remote calls", got-calls)
	}
}

func TestFailedSectionRendersAlone(t *testing.T) {
	src := &countingSource{scholarErr: fmt.Errorf("%w: boom", utils.ErrNetworkOrServer)}
	app, v := loadedView(t, src)

	out := renderAll(app, v, recommend.Snapshot{})
	if !strings.Contains(out, "Could not load this section") {
		t.Fatalf("failure not shown:\n%s", out)
	}
	if !strings.Contains(out, "Government College") {
		t.Fatalf("opportunities missing:\n%s", out)
	}
	if !strings.Contains(out, "Profile completion") || !strings.Contains(out, "75%") {
		t.Fatalf("stats missing:\n%s", out)
	}
}

func TestRenderResultsKeepsPreviousOnError(t *testing.T) {
	app := core.New(nil)
	snap := recommend.Snapshot{
		Phase:   recommend.PhaseError,
		Err:     utils.NewRemoteError(utils.ErrNetworkOrServer, 500, "down"),
		Results: []models.RecommendationResult{{CareerTitle: "Software Engineer", MatchPercentage: 85}},
	}
	var b bytes.Buffer
	RenderResults(&b, app, snap)
	out := b.String()
	errAt := strings.Index(out, app.T("app.error"))
	resAt := strings.Index(out, "Software Engineer")
	if errAt < 0 || resAt < 0 || errAt > resAt {
		t.Fatalf("expected error above kept results:\n%s", out)
	}
	if !strings.Contains(out, "85%") {
		t.Fatalf("match percentage missing:\n%s", out)
	}
}

func TestRenderValidationTranslates(t *testing.T) {
	app := core.New(nil)
	err := &utils.ValidationError{Fields: []utils.FieldError{
		{Field: "password", Rule: "min", Message: "Password must be at least 6 characters long"},
		{Field: "email", Rule: "rejected", Message: "Email already registered"},
	}}
	var b bytes.Buffer
	RenderValidation(&b, app, err)
	out := b.String()
	if !strings.Contains(out, "password: "+app.T("validation.password")) {
		t.Fatalf("password line: %s", out)
	}
	if !strings.Contains(out, "email: Email already registered") {
		t.Fatalf("remote message must pass through: %s", out)
	}

	b.Reset()
	RenderValidation(&b, app, errors.New("plain"))
	if !strings.Contains(b.String(), app.T("app.error")) {
		t.Fatalf("non validation error: %s", b.String())
	}
}

func TestHTMLDashboard(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	src := &countingSource{scholarErr: fmt.Errorf("%w: boom", utils.ErrNetworkOrServer)}
	app, v := loadedView(t, src)
	st := v.Loader().Snapshot()

	page := Page{
		Active:            dashboard.TabScholarships,
		Scholarships:      st.Scholarships,
		ScholarshipsState: st.ScholarshipsState,
	}
	for _, tab := range v.VisibleTabs() {
		page.Tabs = append(page.Tabs, TabLink{Tab: tab, Active: tab == page.Active})
	}

	var b bytes.Buffer
	if err := r.Render(&b, app, "dashboard", page); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Could not load this section") {
		t.Fatalf("failed section not rendered:\n%s", out)
	}
	if !strings.Contains(out, `href="/dashboard?tab=recommendations"`) {
		t.Fatalf("student tab missing:\n%s", out)
	}

	page.Active = dashboard.TabOverview
	page.Cards = CardViews(app, v.Cards())
	if err := app.SetLanguage(models.LangHindi); err != nil {
		t.Fatal(err)
	}
	b.Reset()
	if err := r.Render(&b, app, "dashboard", page); err != nil {
		t.Fatalf("render: %v", err)
	}
	out = b.String()
	if !strings.Contains(out, `lang="hi"`) || !strings.Contains(out, "प्रोफ़ाइल पूर्णता") {
		t.Fatalf("hindi overview not rendered:\n%s", out)
	}
	if !strings.Contains(out, "Asha Devi") {
		t.Fatalf("user name missing:\n%s", out)
	}
}

func TestHTMLLoginPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	app := core.New(nil)
	var b bytes.Buffer
	if err := r.Render(&b, app, "login", Page{Errors: []string{"Invalid email or password"}}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.Contains(out, `action="/login"`) || !strings.Contains(out, "Invalid email or password") {
		t.Fatalf("login page:\n%s", out)
	}
	if strings.Contains(out, `action="/logout"`) {
		t.Fatal("logout shown while signed out")
	}
}
