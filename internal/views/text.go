// Package views renders the application state. Every renderer takes the
// application context as a parameter and reads text through it, so switching
// language only needs a re-render.
package views

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"

	"edupath/internal/dashboard"
	"edupath/internal/i18n"
	"edupath/internal/models"
	"edupath/internal/recommend"
	"edupath/internal/utils"
)

// Context is what views need from the application context.
type Context interface {
	T(key string) string
	Language() models.Language
	User() (models.UserIdentity, bool)
}

// DisplayName title-cases a name for the active language.
func DisplayName(ctx Context, name string) string {
	return cases.Title(i18n.Tag(ctx.Language())).String(strings.TrimSpace(name))
}

func RenderHeader(w io.Writer, ctx Context) {
	fmt.Fprintf(w, "%s | %s\n", ctx.T("app.title"), ctx.T("app.tagline"))
	if u, ok := ctx.User(); ok {
		fmt.Fprintf(w, "%s, %s (%s)\n", ctx.T("auth.welcome"), DisplayName(ctx, u.FullName), ctx.T("role."+string(u.Role)))
	}
}

func RenderTabs(w io.Writer, ctx Context, visible []dashboard.Tab, active dashboard.Tab) {
	parts := make([]string, 0, len(visible))
	for _, t := range visible {
		label := ctx.T(t.TitleKey())
		if t == active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

func sectionLine(w io.Writer, ctx Context, st dashboard.SectionState) bool {
	switch st.Status {
	case dashboard.StatusPending, dashboard.StatusLoading:
		fmt.Fprintln(w, ctx.T("app.loading"))
		return false
	case dashboard.StatusFailed:
		fmt.Fprintf(w, "%s: %s\n", ctx.T("section.failed"), utils.UserMessage(st.Err))
		return false
	}
	return true
}

func formatCount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func RenderOverview(w io.Writer, ctx Context, cards []dashboard.Card) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range cards {
		val := ctx.T("app.loading")
		if c.Ready {
			val = formatCount(c.Value)
			if c.Key == dashboard.CardProfileCompletion {
				val += "%"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\n", ctx.T("card."+c.Key), val)
	}
	tw.Flush()
}

func RenderScholarships(w io.Writer, ctx Context, list []models.Scholarship, st dashboard.SectionState) {
	if !sectionLine(w, ctx, st) {
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(w, ctx.T("scholarship.none"))
		return
	}
	for _, s := range list {
		fmt.Fprintf(w, "* %s\n  %s\n", s.Title, s.Description)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\n", ctx.T("scholarship.amount"), s.Amount)
		fmt.Fprintf(tw, "  %s\t%s\n", ctx.T("scholarship.deadline"), s.Deadline)
		fmt.Fprintf(tw, "  %s\t%s\n", ctx.T("scholarship.provider"), s.Provider)
		tw.Flush()
	}
}

func RenderOpportunities(w io.Writer, ctx Context, list []models.Opportunity, st dashboard.SectionState) {
	if !sectionLine(w, ctx, st) {
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(w, ctx.T("opportunity.none"))
		return
	}
	for _, o := range list {
		fmt.Fprintf(w, "* %s (%s) - %s\n", o.Name, o.Type, o.Location)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\n", ctx.T("opportunity.distance"), o.Distance)
		fmt.Fprintf(tw, "  %s\t%s\n", ctx.T("opportunity.courses"), strings.Join(o.Courses, ", "))
		fmt.Fprintf(tw, "  %s\t%.1f\n", ctx.T("opportunity.rating"), o.Rating)
		fmt.Fprintf(tw, "  %s\t%s\n", ctx.T("opportunity.contact"), o.Contact)
		tw.Flush()
	}
}

// RenderResults shows the workflow state. An error is printed above any
// results that are still kept.
func RenderResults(w io.Writer, ctx Context, snap recommend.Snapshot) {
	if snap.Phase == recommend.PhaseSubmitting {
		fmt.Fprintln(w, ctx.T("form.submitting"))
	}
	if snap.Err != nil {
		fmt.Fprintf(w, "%s: %s\n", ctx.T("app.error"), utils.UserMessage(snap.Err))
	}
	if len(snap.Results) == 0 {
		if snap.Phase != recommend.PhaseSubmitting {
			fmt.Fprintln(w, ctx.T("result.none"))
		}
		return
	}
	for i, r := range snap.Results {
		fmt.Fprintf(w, "%d. %s  (%s %d%%)\n", i+1, r.CareerTitle, ctx.T("result.match"), r.MatchPercentage)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "   %s\t%s\n", ctx.T("result.description"), r.Description)
		fmt.Fprintf(tw, "   %s\t%s\n", ctx.T("result.education_path"), r.EducationPath)
		fmt.Fprintf(tw, "   %s\t%s\n", ctx.T("result.local"), r.LocalOpportunities)
		fmt.Fprintf(tw, "   %s\t%s\n", ctx.T("result.skills"), strings.Join(r.SkillsNeeded, ", "))
		fmt.Fprintf(tw, "   %s\t%s\n", ctx.T("result.salary"), r.SalaryRange)
		fmt.Fprintf(tw, "   %s\t%s\n", ctx.T("result.growth"), r.GrowthProspects)
		tw.Flush()
	}
}

func RenderHistory(w io.Writer, ctx Context, records []models.RecommendationRecord) {
	fmt.Fprintln(w, ctx.T("result.history"))
	if len(records) == 0 {
		fmt.Fprintln(w, ctx.T("result.none"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range records {
		titles := make([]string, 0, len(r.Recommendations))
		for _, res := range r.Recommendations {
			titles = append(titles, res.CareerTitle)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), strings.Join(r.RequestData.Interests, ", "), strings.Join(titles, ", "))
	}
	tw.Flush()
}

// RenderProfile shows the account and, for students, the academic profile.
// err is the result of loading the academic profile.
func RenderProfile(w io.Writer, ctx Context, p *models.StudentProfile, err error) {
	u, ok := ctx.User()
	if !ok {
		fmt.Fprintln(w, ctx.T("auth.not_signed_in"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", ctx.T("auth.full_name"), DisplayName(ctx, u.FullName))
	fmt.Fprintf(tw, "%s\t%s\n", ctx.T("auth.email"), u.Email)
	fmt.Fprintf(tw, "%s\t%s\n", ctx.T("auth.role"), ctx.T("role."+string(u.Role)))
	if u.Phone != "" {
		fmt.Fprintf(tw, "%s\t%s\n", ctx.T("auth.phone"), u.Phone)
	}
	fmt.Fprintf(tw, "%s\t%s\n", ctx.T("app.language"), ctx.Language())
	if p != nil {
		fmt.Fprintf(tw, "%s\t%s\n", ctx.T("profile.academic_level"), p.AcademicLevel)
		fmt.Fprintf(tw, "%s\t%s\n", ctx.T("profile.subjects"), strings.Join(p.Subjects, ", "))
		fmt.Fprintf(tw, "%s\t%s\n", ctx.T("profile.interests"), strings.Join(p.Interests, ", "))
		fmt.Fprintf(tw, "%s\t%s\n", ctx.T("profile.career_goals"), strings.Join(p.CareerGoals, ", "))
		fmt.Fprintf(tw, "%s\t%s\n", ctx.T("profile.strengths"), strings.Join(p.Strengths, ", "))
	}
	tw.Flush()
	if err != nil {
		fmt.Fprintln(w, ProfileError(ctx, err))
	}
}

// ProfileError is the line shown when the academic profile did not load.
func ProfileError(ctx Context, err error) string {
	if errors.Is(err, utils.ErrForbidden) {
		return ctx.T("profile.students_only")
	}
	return ctx.T("section.failed") + ": " + utils.UserMessage(err)
}

// ValidationMessages returns one "field: message" line per field, translating
// locally checked rules. Any other error yields a single line.
func ValidationMessages(ctx Context, err error) []string {
	v, ok := utils.AsValidation(err)
	if !ok {
		return []string{ctx.T("app.error") + ": " + utils.UserMessage(err)}
	}
	out := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		msg := f.Message
		if f.Rule != "remote" && f.Rule != "rejected" {
			key := "validation." + f.Field
			switch {
			case f.Rule == "required" && f.Field != "password":
				key = "validation.required"
			case f.Field == "preferred_language":
				key = "validation.language"
			}
			if t := ctx.T(key); t != key {
				msg = t
			}
		}
		out = append(out, f.Field+": "+msg)
	}
	return out
}

func RenderValidation(w io.Writer, ctx Context, err error) {
	for _, line := range ValidationMessages(ctx, err) {
		fmt.Fprintln(w, "  "+line)
	}
}
