package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RecommendationRequest is the normalized body of POST /career/recommendations.
type RecommendationRequest struct {
	Interests     []string `json:"interests"`
	AcademicLevel string   `json:"academic_level"`
	Subjects      []string `json:"subjects"`
	Strengths     []string `json:"strengths"`
	CareerGoals   []string `json:"career_goals"`
}

// Empty reports whether every field of the request is empty.
func (r RecommendationRequest) Empty() bool {
	return len(r.Interests) == 0 && r.AcademicLevel == "" && len(r.Subjects) == 0 &&
		len(r.Strengths) == 0 && len(r.CareerGoals) == 0
}

// SplitList splits comma-separated input, trims every segment and drops the
// empty ones. Order is preserved and the result is never nil.
func SplitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Percent is a match score clamped to 0..100. The scoring backend emits
// integers, floats and occasionally numeric strings.
type Percent int

func (p *Percent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("match_percentage: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("match_percentage: invalid value %s", data)
	}
	*p = Percent(math.Round(math.Max(0, math.Min(100, f))))
	return nil
}

// StringList decodes from a JSON array or from a comma-separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitList(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// RecommendationResult is one career suggestion.
type RecommendationResult struct {
	CareerTitle        string     `json:"career_title"`
	MatchPercentage    Percent    `json:"match_percentage"`
	Description        string     `json:"description"`
	EducationPath      string     `json:"education_path"`
	LocalOpportunities string     `json:"local_opportunities"`
	SkillsNeeded       StringList `json:"skills_needed"`
	SalaryRange        string     `json:"salary_range"`
	GrowthProspects    string     `json:"growth_prospects"`
}

// RecommendationRecord is what the remote service stores for every request.
type RecommendationRecord struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	RequestData     RecommendationRequest  `json:"request_data"`
	Recommendations []RecommendationResult `json:"recommendations"`
	CreatedAt       Timestamp              `json:"created_at"`
}

// Scholarship is one entry of GET /scholarships.
type Scholarship struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Eligibility string `json:"eligibility"`
	Category    string `json:"category"`
	Deadline    string `json:"deadline"`
	Provider    string `json:"provider"`
}

// ScholarshipFilter narrows GET /scholarships. Empty fields are not sent.
type ScholarshipFilter struct {
	Category    string
	Eligibility string
}

// Opportunity is one entry of GET /opportunities/nearby.
type Opportunity struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Location string   `json:"location"`
	Distance string   `json:"distance"`
	Courses  []string `json:"courses"`
	Rating   float64  `json:"rating"`
	Contact  string   `json:"contact"`
}

// NearbyQuery positions GET /opportunities/nearby. Nil fields use the server defaults.
type NearbyQuery struct {
	Latitude  *float64
	Longitude *float64
	RadiusKM  *int
}

// DashboardStats carries the role-dependent counters of GET /dashboard/stats.
type DashboardStats struct {
	Role     Role
	Counters map[string]float64
}

func (s *DashboardStats) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Counters = make(map[string]float64, len(raw))
	for k, v := range raw {
		if k == "role" {
			var role string
			if err := json.Unmarshal(v, &role); err != nil {
				return fmt.Errorf("stats role: %w", err)
			}
			s.Role = Role(role)
			continue
		}
		var n float64
		if err := json.Unmarshal(v, &n); err != nil {
			// non-numeric extras are not counters
			continue
		}
		s.Counters[k] = n
	}
	return nil
}

func (s DashboardStats) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Counters)+1)
	for k, v := range s.Counters {
		out[k] = v
	}
	out["role"] = s.Role
	return json.Marshal(out)
}
