package dashboard

import "edupath/internal/models"

// Overview cards.
const (
	CardRecommendationsReceived = "recommendations_received"
	CardQuizzesCompleted        = "quizzes_completed"
	CardProfileCompletion       = "profile_completion"
	CardTotalStudents           = "total_students"
	CardActiveSessions          = "active_sessions"
	CardRecommendationsGiven    = "recommendations_given"
	CardScholarships            = "scholarships"
	CardOpportunities           = "opportunities"
)

// Capabilities is what a role sees on the dashboard.
type Capabilities struct {
	Tabs  []Tab
	Cards []string
}

var capabilities = map[models.Role]Capabilities{
	models.RoleStudent: {
		Tabs:  Tabs,
		Cards: []string{CardRecommendationsReceived, CardQuizzesCompleted, CardProfileCompletion},
	},
	models.RoleCounselor: {
		Tabs:  Tabs,
		Cards: []string{CardTotalStudents, CardActiveSessions, CardRecommendationsGiven},
	},
	models.RoleParent: {
		Tabs:  []Tab{TabOverview, TabScholarships, TabOpportunities, TabProfile},
		Cards: []string{CardScholarships, CardOpportunities},
	},
	models.RoleAdmin: {
		Tabs:  []Tab{TabOverview, TabScholarships, TabOpportunities, TabProfile},
		Cards: []string{CardScholarships, CardOpportunities},
	},
}

// CapabilitiesFor returns the role's tabs and cards. Unknown roles only see
// the overview.
func CapabilitiesFor(role models.Role) Capabilities {
	if c, ok := capabilities[role]; ok {
		return c
	}
	return Capabilities{Tabs: []Tab{TabOverview}}
}

func (c Capabilities) CanSee(tab Tab) bool {
	for _, t := range c.Tabs {
		if t == tab {
			return true
		}
	}
	return false
}
