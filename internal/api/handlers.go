package api

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"edupath/internal/models"
	"edupath/internal/utils"
	"edupath/internal/validation"
)

const (
	msgBadCredentials  = "Invalid email or password"
	msgEmailTaken      = "Email already registered"
	msgNotAuthorized   = "Could not validate credentials"
	msgAccessDenied    = "Access denied"
	msgProfileUpdated  = "Profile updated successfully"
	historyLimit       = 10
	defaultAcademicLvl = "Not specified"
)

type ctxKey struct{}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

type detailItem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeValidation(w http.ResponseWriter, err error) {
	v, ok := utils.AsValidation(err)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	items := make([]detailItem, 0, len(v.Fields))
	for _, f := range v.Fields {
		items = append(items, detailItem{Loc: []string{"body", f.Field}, Msg: f.Message, Type: "value_error"})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return &utils.ValidationError{Fields: []utils.FieldError{{Field: "body", Rule: "json", Message: "Invalid JSON body"}}}
	}
	return nil
}

// authenticated resolves the bearer token to a user or answers 401.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			s.unauthorized(w)
			return
		}
		id, err := s.tokens.subject(raw)
		if err != nil {
			s.logger.Debug("rejected token", zap.Error(err))
			s.unauthorized(w)
			return
		}
		user, ok := s.store.userByID(id)
		if !ok {
			s.unauthorized(w)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	}
}

func (s *Server) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, msgNotAuthorized)
}

func currentUser(r *http.Request) models.UserIdentity {
	u, _ := r.Context().Value(ctxKey{}).(models.UserIdentity)
	return u
}

func (s *Server) issue(w http.ResponseWriter, status int, user models.UserIdentity) {
	token, err := s.tokens.issue(user.ID)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, status, models.AuthResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeValidation(w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeValidation(w, err)
		return
	}
	if req.PreferredLanguage == "" {
		req.PreferredLanguage = models.DefaultLanguage
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	user := models.UserIdentity{
		ID:                uuid.NewString(),
		Email:             strings.TrimSpace(req.Email),
		FullName:          req.FullName,
		Role:              req.Role,
		PreferredLanguage: req.PreferredLanguage,
		Phone:             req.Phone,
		IsActive:          true,
		CreatedAt:         models.Timestamp{Time: s.now().UTC()},
	}
	if !s.store.addUser(user, hash) {
		writeDetail(w, http.StatusBadRequest, msgEmailTaken)
		return
	}
	if user.Role == models.RoleStudent {
		s.store.putProfile(models.StudentProfile{
			ID:            uuid.NewString(),
			UserID:        user.ID,
			AcademicLevel: defaultAcademicLvl,
			Subjects:      []string{},
			Interests:     []string{},
			CareerGoals:   []string{},
			Strengths:     []string{},
		})
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	s.issue(w, http.StatusOK, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeValidation(w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		var v *utils.ValidationError
		if errors.As(err, &v) {
			if _, bad := v.Field("email"); bad {
				writeValidation(w, err)
				return
			}
		}
		// a short password simply does not match
		writeDetail(w, http.StatusBadRequest, msgBadCredentials)
		return
	}
	rec, ok := s.store.userByEmail(req.Email)
	if !ok || bcrypt.CompareHashAndPassword(rec.hash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusBadRequest, msgBadCredentials)
		return
	}
	s.issue(w, http.StatusOK, rec.user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := decode(r, &req); err != nil {
		writeValidation(w, err)
		return
	}
	for _, list := range []*[]string{&req.Interests, &req.Subjects, &req.Strengths, &req.CareerGoals} {
		if *list == nil {
			*list = []string{}
		}
	}
	user := currentUser(r)
	results, err := s.advisor.Recommend(r.Context(), req)
	if err != nil {
		s.logger.Warn("advisor failed, serving fallback", zap.Error(err))
		results, _ = FallbackAdvisor{}.Recommend(r.Context(), req)
	}
	now := s.now().UTC()
	rec := models.RecommendationRecord{
		ID:              ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		UserID:          user.ID,
		RequestData:     req,
		Recommendations: results,
		CreatedAt:       models.Timestamp{Time: now},
	}
	s.store.addRecord(rec)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.history(currentUser(r).ID, historyLimit))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.Role != models.RoleStudent {
		writeDetail(w, http.StatusForbidden, msgAccessDenied)
		return
	}
	p, ok := s.store.profile(user.ID)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.Role != models.RoleStudent {
		writeDetail(w, http.StatusForbidden, msgAccessDenied)
		return
	}
	var p models.StudentProfile
	if err := decode(r, &p); err != nil {
		writeValidation(w, err)
		return
	}
	p.UserID = user.ID
	if p.AcademicLevel == "" {
		p.AcademicLevel = defaultAcademicLvl
	}
	s.store.putProfile(p)
	writeJSON(w, http.StatusOK, map[string]string{"message": msgProfileUpdated})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	stats := models.DashboardStats{Role: user.Role, Counters: map[string]float64{}}
	switch user.Role {
	case models.RoleStudent:
		stats.Counters["recommendations_received"] = float64(s.store.countRecords(user.ID))
		stats.Counters["quizzes_completed"] = 0
		stats.Counters["profile_completion"] = 75
	case models.RoleCounselor:
		stats.Counters["total_students"] = float64(s.store.countRole(models.RoleStudent))
		stats.Counters["active_sessions"] = 5
		stats.Counters["recommendations_given"] = 25
	}
	writeJSON(w, http.StatusOK, stats)
}

var scholarships = []models.Scholarship{
	{
		ID:          "1",
		Title:       "Kashmir Merit Scholarship",
		Description: "For meritorious students from Kashmir region",
		Amount:      "₹50,000 per year",
		Eligibility: "12th pass with 85%+ marks",
		Category:    "merit",
		Deadline:    "2024-03-31",
		Provider:    "J&K Government",
	},
	{
		ID:          "2",
		Title:       "Technical Education Scholarship",
		Description: "For students pursuing engineering and technical courses",
		Amount:      "₹75,000 per year",
		Eligibility: "Enrolled in engineering/technical course",
		Category:    "technical",
		Deadline:    "2024-04-15",
		Provider:    "AICTE",
	},
	{
		ID:          "3",
		Title:       "Minority Community Scholarship",
		Description: "Financial assistance for minority community students",
		Amount:      "₹30,000 per year",
		Eligibility: "Minority community, family income < ₹2 LPA",
		Category:    "minority",
		Deadline:    "2024-05-01",
		Provider:    "Minority Affairs Ministry",
	},
}

func (s *Server) handleScholarships(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	eligibility := strings.ToLower(r.URL.Query().Get("eligibility"))
	out := []models.Scholarship{}
	for _, sc := range scholarships {
		if category != "" && sc.Category != category {
			continue
		}
		if eligibility != "" && !strings.Contains(strings.ToLower(sc.Eligibility), eligibility) {
			continue
		}
		out = append(out, sc)
	}
	writeJSON(w, http.StatusOK, out)
}

var opportunities = []models.Opportunity{
	{
		ID:       "1",
		Name:     "National Institute of Technology Srinagar",
		Type:     "Engineering College",
		Location: "Srinagar, J&K",
		Distance: "5 km",
		Courses:  []string{"B.Tech", "M.Tech", "PhD"},
		Rating:   4.2,
		Contact:  "+91-194-2422032",
	},
	{
		ID:       "2",
		Name:     "Kashmir University",
		Type:     "University",
		Location: "Srinagar, J&K",
		Distance: "8 km",
		Courses:  []string{"Arts", "Science", "Commerce", "Engineering"},
		Rating:   4.0,
		Contact:  "+91-194-2420073",
	},
	{
		ID:       "3",
		Name:     "Government Polytechnic Srinagar",
		Type:     "Polytechnic",
		Location: "Srinagar, J&K",
		Distance: "3 km",
		Courses:  []string{"Diploma in Engineering", "Diploma in Technology"},
		Rating:   3.8,
		Contact:  "+91-194-2452516",
	},
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	for _, name := range []string{"latitude", "longitude"} {
		if v := q.Get(name); v != "" {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				writeValidation(w, &utils.ValidationError{Fields: []utils.FieldError{{Field: name, Rule: "float", Message: "value is not a valid float"}}})
				return
			}
		}
	}
	if v := q.Get("radius"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			writeValidation(w, &utils.ValidationError{Fields: []utils.FieldError{{Field: "radius", Rule: "int", Message: "value is not a valid integer"}}})
			return
		}
	}
	writeJSON(w, http.StatusOK, opportunities)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "message": "EduPath API is running"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to EduPath API - Your Career & Education Advisory Platform"})
}
