package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"edupath/internal/auth"
	"edupath/internal/dashboard"
	"edupath/internal/i18n"
	"edupath/internal/models"
	"edupath/internal/recommend"
	"edupath/internal/utils"
	"edupath/internal/views"
)

func (c *cli) requireSession() error {
	if !c.app.Context().SignedIn() {
		return utils.ErrNotSignedIn
	}
	return nil
}

func prompt(in io.Reader, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}

func (c *cli) loginCmd() *cobra.Command {
	var form auth.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.Password == "" {
				form.Password = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), c.app.Context().T("auth.password"))
			}
			if _, err := c.app.Forms().SubmitLogin(cmd.Context(), form); err != nil {
				return err
			}
			views.RenderHeader(cmd.OutOrStdout(), c.app.Context())
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password (prompted when empty)")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var form auth.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.Password == "" {
				form.Password = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), c.app.Context().T("auth.password"))
			}
			if _, err := c.app.Forms().SubmitRegister(cmd.Context(), form); err != nil {
				return err
			}
			views.RenderHeader(cmd.OutOrStdout(), c.app.Context())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Email, "email", "", "account email")
	f.StringVar(&form.Password, "password", "", "password, at least 6 characters (prompted when empty)")
	f.StringVar(&form.FullName, "name", "", "full name")
	f.StringVar(&form.Role, "role", string(models.RoleStudent), "student, parent, counselor or admin")
	f.StringVar(&form.Phone, "phone", "", "phone number")
	f.StringVar(&form.PreferredLanguage, "preferred-language", "", "en, hi or ks (defaults to the display language)")
	return cmd
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			views.RenderProfile(cmd.OutOrStdout(), c.app.Context(), nil, nil)
			return nil
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), c.app.Context().T("auth.signed_out"))
			return nil
		},
	}
}

func (c *cli) langCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang CODE",
		Short: "Switch the display language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := i18n.Parse(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Context().SetLanguage(lang); err != nil {
				return err
			}
			views.RenderHeader(cmd.OutOrStdout(), c.app.Context())
			return nil
		},
	}
}

// enterDashboard starts the section loads for this session and waits for
// them.
func (c *cli) enterDashboard(ctx context.Context) error {
	done, err := c.app.Dashboard().Enter(ctx)
	if err != nil {
		return err
	}
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (c *cli) dashboardCmd() *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show a dashboard tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			if err := c.enterDashboard(cmd.Context()); err != nil {
				return err
			}
			view := c.app.Dashboard()
			if tab != "" {
				t, err := dashboard.ParseTab(tab)
				if err != nil {
					return err
				}
				if _, err := view.Select(t); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			views.RenderHeader(out, c.app.Context())
			views.RenderTabs(out, c.app.Context(), view.VisibleTabs(), view.Navigator().Active())
			fmt.Fprintln(out)
			return c.renderTab(out, view.Navigator().Active())
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "", "overview, recommendations, scholarships, opportunities or profile")
	return cmd
}

// renderTab prints one tab from what the session has already loaded.
func (c *cli) renderTab(out io.Writer, tab dashboard.Tab) error {
	app := c.app.Context()
	st := c.app.Dashboard().Loader().Snapshot()
	var tabs dashboard.TabState
	if td := c.app.Dashboard().TabData(); td != nil {
		tabs = td.Snapshot()
	}
	switch tab {
	case dashboard.TabOverview:
		views.RenderOverview(out, app, c.app.Dashboard().Cards())
	case dashboard.TabScholarships:
		views.RenderScholarships(out, app, st.Scholarships, st.ScholarshipsState)
	case dashboard.TabOpportunities:
		views.RenderOpportunities(out, app, st.Opportunities, st.OpportunitiesState)
	case dashboard.TabRecommendations:
		views.RenderResults(out, app, c.app.Workflow().Snapshot())
		if tabs.HistoryState.Status == dashboard.StatusFailed {
			return tabs.HistoryState.Err
		}
		fmt.Fprintln(out)
		views.RenderHistory(out, app, tabs.History)
	case dashboard.TabProfile:
		views.RenderProfile(out, app, tabs.Profile, tabs.ProfileState.Err)
	}
	return nil
}

func (c *cli) recommendCmd() *cobra.Command {
	var form recommend.Form
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Get career recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			if !c.app.Dashboard().Capabilities().CanSee(dashboard.TabRecommendations) {
				return utils.ErrForbidden
			}
			snap, err := c.app.Recommend(cmd.Context(), form)
			views.RenderResults(cmd.OutOrStdout(), c.app.Context(), snap)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Interests, "interests", "", "comma separated interests")
	f.StringVar(&form.AcademicLevel, "level", "", "academic level: "+strings.Join(recommend.AcademicLevels, ", "))
	f.StringVar(&form.Subjects, "subjects", "", "comma separated subjects")
	f.StringVar(&form.Strengths, "strengths", "", "comma separated strengths")
	f.StringVar(&form.CareerGoals, "goals", "", "comma separated career goals")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the last recommendation requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			records, err := c.app.Workflow().History(cmd.Context())
			if err != nil {
				return err
			}
			views.RenderHistory(cmd.OutOrStdout(), c.app.Context(), records)
			return nil
		},
	}
}

func (c *cli) scholarshipsCmd() *cobra.Command {
	var filter models.ScholarshipFilter
	cmd := &cobra.Command{
		Use:   "scholarships",
		Short: "List scholarships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			list, err := c.app.Client().Scholarships(cmd.Context(), filter)
			views.RenderScholarships(cmd.OutOrStdout(), c.app.Context(), list, sectionState(err))
			return err
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "exact category, e.g. merit or technical")
	cmd.Flags().StringVar(&filter.Eligibility, "eligibility", "", "text the eligibility must contain")
	return cmd
}

func (c *cli) opportunitiesCmd() *cobra.Command {
	var (
		lat, lon float64
		radius   int
	)
	cmd := &cobra.Command{
		Use:   "opportunities",
		Short: "List nearby colleges and training centres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			var q models.NearbyQuery
			if cmd.Flags().Changed("lat") {
				q.Latitude = &lat
			}
			if cmd.Flags().Changed("lon") {
				q.Longitude = &lon
			}
			if cmd.Flags().Changed("radius") {
				q.RadiusKM = &radius
			}
			list, err := c.app.Client().NearbyOpportunities(cmd.Context(), q)
			views.RenderOpportunities(cmd.OutOrStdout(), c.app.Context(), list, sectionState(err))
			return err
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().IntVar(&radius, "radius", 0, "search radius in km")
	return cmd
}

func sectionState(err error) dashboard.SectionState {
	if err != nil {
		return dashboard.SectionState{Status: dashboard.StatusFailed, Err: err}
	}
	return dashboard.SectionState{Status: dashboard.StatusReady}
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the student profile",
	}
	show := &cobra.Command{
		Use:  "show",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			p, err := c.app.Profile(cmd.Context())
			views.RenderProfile(cmd.OutOrStdout(), c.app.Context(), p, err)
			return nil
		},
	}
	var form recommend.Form
	update := &cobra.Command{
		Use:  "update",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			if err := c.app.SaveProfile(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.app.Context().T("profile.saved"))
			return nil
		},
	}
	f := update.Flags()
	f.StringVar(&form.AcademicLevel, "level", "", "academic level")
	f.StringVar(&form.Subjects, "subjects", "", "comma separated subjects")
	f.StringVar(&form.Interests, "interests", "", "comma separated interests")
	f.StringVar(&form.Strengths, "strengths", "", "comma separated strengths")
	f.StringVar(&form.CareerGoals, "goals", "", "comma separated career goals")
	cmd.AddCommand(show, update)
	return cmd
}

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := c.app.Client().Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", h.Status, h.Message)
			return nil
		},
	}
}
