package gui

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"edupath/internal/auth"
	"edupath/internal/dashboard"
	"edupath/internal/i18n"
	"edupath/internal/recommend"
	"edupath/internal/utils"
	"edupath/internal/views"
)

func statusFor(err error) int {
	if _, ok := utils.AsValidation(err); ok {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, utils.ErrInvalidCredentials), errors.Is(err, utils.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, utils.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, utils.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, utils.ErrNetworkOrServer):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login", views.Page{})
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register", views.Page{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, err := s.app.Forms().SubmitLogin(r.Context(), auth.LoginForm{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		s.render(w, statusFor(err), "login", views.Page{Errors: views.ValidationMessages(s.app.Context(), err)})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, err := s.app.Forms().SubmitRegister(r.Context(), auth.RegisterForm{
		Email:             r.PostForm.Get("email"),
		Password:          r.PostForm.Get("password"),
		FullName:          r.PostForm.Get("full_name"),
		Role:              r.PostForm.Get("role"),
		Phone:             r.PostForm.Get("phone"),
		PreferredLanguage: r.PostForm.Get("preferred_language"),
	})
	if err != nil {
		s.render(w, statusFor(err), "register", views.Page{Errors: views.ValidationMessages(s.app.Context(), err)})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.app.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLanguage only switches the context language; the next render picks it up.
func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lang, err := i18n.Parse(r.PostForm.Get("lang"))
	if err == nil {
		err = s.app.Context().SetLanguage(lang)
	}
	if err != nil {
		http.Error(w, s.app.Context().T("error.unsupported_language"), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the local page the request came from.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := s.app.Dashboard()
	done := s.enter(r)
	status := http.StatusOK
	var errs []string
	if raw := r.URL.Query().Get("tab"); raw != "" {
		tab, err := dashboard.ParseTab(raw)
		if err == nil {
			_, err = view.Select(tab)
		}
		if err != nil {
			status = statusFor(err)
			errs = append(errs, views.ValidationMessages(s.app.Context(), err)...)
		}
	}
	page := s.dashboardPage(r, done)
	page.Errors = append(errs, page.Errors...)
	s.render(w, status, "dashboard", page)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	done := s.enter(r)
	if _, err := s.app.Dashboard().Select(dashboard.TabRecommendations); err != nil {
		s.render(w, statusFor(err), "dashboard", s.withError(s.dashboardPage(r, done), err))
		return
	}
	form := formFrom(r)
	_, err := s.app.Recommend(r.Context(), form)
	page := s.dashboardPage(r, done)
	page.Form = form
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		if errors.Is(err, utils.ErrSubmissionInFlight) {
			page = s.withError(page, err)
		}
	}
	s.render(w, status, "dashboard", page)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	done := s.enter(r)
	if _, err := s.app.Dashboard().Select(dashboard.TabProfile); err != nil {
		s.render(w, statusFor(err), "dashboard", s.withError(s.dashboardPage(r, done), err))
		return
	}
	err := s.app.SaveProfile(r.Context(), formFrom(r))
	page := s.dashboardPage(r, done)
	if err != nil {
		s.render(w, statusFor(err), "dashboard", s.withError(page, err))
		return
	}
	page.Flash = s.app.Context().T("profile.saved")
	s.render(w, http.StatusOK, "dashboard", page)
}

func formFrom(r *http.Request) recommend.Form {
	return recommend.Form{
		Interests:     r.PostForm.Get("interests"),
		AcademicLevel: r.PostForm.Get("academic_level"),
		Subjects:      r.PostForm.Get("subjects"),
		Strengths:     r.PostForm.Get("strengths"),
		CareerGoals:   r.PostForm.Get("career_goals"),
	}
}

func (s *Server) withError(page views.Page, err error) views.Page {
	page.Errors = append(page.Errors, views.ValidationMessages(s.app.Context(), err)...)
	return page
}

// enter starts the once-per-session load. The first entry of a session
// resets the tab, so it runs before any tab selection.
func (s *Server) enter(r *http.Request) <-chan struct{} {
	done, err := s.app.Dashboard().Enter(background(r))
	if err != nil {
		return nil
	}
	return done
}

// dashboardPage waits a bounded time for the sections, then assembles the
// active tab.
func (s *Server) dashboardPage(r *http.Request, done <-chan struct{}) views.Page {
	view := s.app.Dashboard()
	ctx := s.app.Context()
	if done != nil {
		t := time.NewTimer(s.wait)
		select {
		case <-done:
		case <-t.C:
		case <-r.Context().Done():
		}
		t.Stop()
	}

	st := view.Loader().Snapshot()
	active := view.Navigator().Active()
	page := views.Page{
		Active:             active,
		Cards:              views.CardViews(ctx, view.Cards()),
		Scholarships:       st.Scholarships,
		ScholarshipsState:  st.ScholarshipsState,
		Opportunities:      st.Opportunities,
		OpportunitiesState: st.OpportunitiesState,
		AcademicLevels:     recommend.AcademicLevels,
		Workflow:           s.app.Workflow().Snapshot(),
	}
	for _, tab := range view.VisibleTabs() {
		page.Tabs = append(page.Tabs, views.TabLink{Tab: tab, Active: tab == active})
	}

	if tabs := view.TabData(); tabs != nil {
		fillTabs(ctx, &page, tabs.Snapshot())
	}
	return page
}

// fillTabs copies the session's history and profile into the page. Nothing
// here goes to the service.
func fillTabs(ctx views.Context, page *views.Page, st dashboard.TabState) {
	switch page.Active {
	case dashboard.TabRecommendations:
		page.History = st.History
		if st.Profile != nil {
			page.Form = recommend.FormFromProfile(*st.Profile)
		}
	case dashboard.TabProfile:
		page.Profile = st.Profile
		if st.ProfileState.Status == dashboard.StatusFailed {
			page.ProfileErr = views.ProfileError(ctx, st.ProfileState.Err)
		}
	}
}
