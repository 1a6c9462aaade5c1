package api

import (
	"context"
	"strings"

	"edupath/internal/models"
)

// Advisor produces career recommendations for a request.
type Advisor interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) ([]models.RecommendationResult, error)
}

// FallbackAdvisor serves the three built-in careers, reordered by interest
// keywords. It is what the remote service answers with when its model is
// unavailable.
type FallbackAdvisor struct{}

var fallbackCareers = []models.RecommendationResult{
	{
		CareerTitle:        "Software Development",
		Description:        "Design and develop software applications, websites, and systems",
		EducationPath:      "Bachelor's in Computer Science or related field",
		LocalOpportunities: "Growing IT sector in Srinagar, remote work opportunities",
		SkillsNeeded:       models.StringList{"Programming", "Problem-solving", "Logical thinking"},
		SalaryRange:        "₹3-15 LPA",
		GrowthProspects:    "High demand, excellent growth potential",
		MatchPercentage:    75,
	},
	{
		CareerTitle:        "Digital Marketing",
		Description:        "Promote businesses and products through digital channels",
		EducationPath:      "Any graduation + Digital Marketing courses",
		LocalOpportunities: "Tourism, handicrafts, local businesses need digital presence",
		SkillsNeeded:       models.StringList{"Creativity", "Analytics", "Communication"},
		SalaryRange:        "₹2-8 LPA",
		GrowthProspects:    "Growing field with entrepreneurship opportunities",
		MatchPercentage:    70,
	},
	{
		CareerTitle:        "Healthcare Professional",
		Description:        "Provide medical care and health services to communities",
		EducationPath:      "Medical degree (MBBS/BDS) or allied health courses",
		LocalOpportunities: "Government hospitals, private clinics, healthcare startups",
		SkillsNeeded:       models.StringList{"Empathy", "Science knowledge", "Problem-solving"},
		SalaryRange:        "₹5-25 LPA",
		GrowthProspects:    "Always in demand, respect in society",
		MatchPercentage:    80,
	},
}

var interestOrders = []struct {
	keywords []string
	order    []int
}{
	{[]string{"computer", "technology", "coding", "programming"}, []int{0, 1, 2}},
	{[]string{"marketing", "business", "creative"}, []int{1, 0, 2}},
	{[]string{"health", "medical", "biology", "helping"}, []int{2, 0, 1}},
}

func (FallbackAdvisor) Recommend(_ context.Context, req models.RecommendationRequest) ([]models.RecommendationResult, error) {
	order := []int{0, 1, 2}
	for _, rule := range interestOrders {
		if matchesAny(req.Interests, rule.keywords) {
			order = rule.order
			break
		}
	}
	out := make([]models.RecommendationResult, 0, len(order))
	for _, i := range order {
		c := fallbackCareers[i]
		c.SkillsNeeded = append(models.StringList(nil), c.SkillsNeeded...)
		out = append(out, c)
	}
	return out, nil
}

// matchesAny compares whole interests, case-insensitively.
func matchesAny(interests, keywords []string) bool {
	for _, in := range interests {
		in = strings.ToLower(strings.TrimSpace(in))
		for _, k := range keywords {
			if in == k {
				return true
			}
		}
	}
	return false
}
