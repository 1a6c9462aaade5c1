package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"edupath/internal/dashboard"
	"edupath/internal/models"
	"edupath/internal/recommend"
)

//go:embed templates/*.html
var templateFS embed.FS

// TabLink is one entry of the tab bar.
type TabLink struct {
	Tab    dashboard.Tab
	Active bool
}

// CardView is an overview tile ready for display.
type CardView struct {
	Key   string
	Value string
}

// Page is the data of every HTML page.
type Page struct {
	Languages []models.Language
	Flash     string
	Errors    []string

	Tabs   []TabLink
	Active dashboard.Tab
	Cards  []CardView

	Scholarships       []models.Scholarship
	ScholarshipsState  dashboard.SectionState
	Opportunities      []models.Opportunity
	OpportunitiesState dashboard.SectionState

	Form           recommend.Form
	AcademicLevels []string
	Workflow       recommend.Snapshot
	History        []models.RecommendationRecord

	Profile    *models.StudentProfile
	ProfileErr string
}

// Renderer executes the embedded templates against an application context.
type Renderer struct {
	base *template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("edupath").Funcs(template.FuncMap{
		// replaced per render
		"t":    func(key string) string { return key },
		"name": func(s string) string { return s },
		"user": func() *models.UserIdentity { return nil },
		"lang": func() models.Language { return models.DefaultLanguage },

		"join":    strings.Join,
		"status":  func(s dashboard.SectionState) string { return s.Status.String() },
		"message": func(err error) string { return messageOf(err) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{base: base}, nil
}

// Render executes the named template with ctx bound to the "t", "name",
// "user" and "lang" functions.
func (r *Renderer) Render(w io.Writer, ctx Context, name string, page Page) error {
	t, err := r.base.Clone()
	if err != nil {
		return err
	}
	var user *models.UserIdentity
	if u, ok := ctx.User(); ok {
		user = &u
	}
	t.Funcs(template.FuncMap{
		"t":    ctx.T,
		"name": func(s string) string { return DisplayName(ctx, s) },
		"user": func() *models.UserIdentity { return user },
		"lang": ctx.Language,
	})
	if page.Languages == nil {
		page.Languages = models.Languages
	}
	return t.ExecuteTemplate(w, name, page)
}

// CardViews formats overview tiles for HTML.
func CardViews(ctx Context, cards []dashboard.Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		v := ctx.T("app.loading")
		if c.Ready {
			v = formatCount(c.Value)
			if c.Key == dashboard.CardProfileCompletion {
				v += "%"
			}
		}
		out = append(out, CardView{Key: c.Key, Value: v})
	}
	return out
}
