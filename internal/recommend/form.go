// Package recommend is the career recommendation workflow: free-text form,
// normalized request, one remote call, ordered results.
package recommend

import (
	"strings"

	"edupath/internal/models"
)

// AcademicLevels are the choices offered by the form.
var AcademicLevels = []string{"10th", "12th", "Diploma", "Undergraduate", "Graduate", "Postgraduate"}

// Form is the raw form input; list fields are comma separated.
type Form struct {
	Interests     string
	AcademicLevel string
	Subjects      string
	Strengths     string
	CareerGoals   string
}

// Normalize splits, trims and drops empty segments. Nothing blank reaches
// the request.
func (f Form) Normalize() models.RecommendationRequest {
	return models.RecommendationRequest{
		Interests:     models.SplitList(f.Interests),
		AcademicLevel: strings.TrimSpace(f.AcademicLevel),
		Subjects:      models.SplitList(f.Subjects),
		Strengths:     models.SplitList(f.Strengths),
		CareerGoals:   models.SplitList(f.CareerGoals),
	}
}

// FormFromProfile prefills the form from a saved student profile.
func FormFromProfile(p models.StudentProfile) Form {
	level := p.AcademicLevel
	if level == "Not specified" {
		level = ""
	}
	return Form{
		Interests:     strings.Join(p.Interests, ", "),
		AcademicLevel: level,
		Subjects:      strings.Join(p.Subjects, ", "),
		Strengths:     strings.Join(p.Strengths, ", "),
		CareerGoals:   strings.Join(p.CareerGoals, ", "),
	}
}
