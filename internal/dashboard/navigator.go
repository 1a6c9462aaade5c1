// Package dashboard holds the tab state machine, the role capability map and
// the concurrent loader for the dashboard's supporting lists.
package dashboard

import (
	"strings"
	"sync"

	"edupath/internal/utils"
)

type Tab string

const (
	TabOverview        Tab = "overview"
	TabRecommendations Tab = "recommendations"
	TabScholarships    Tab = "scholarships"
	TabOpportunities   Tab = "opportunities"
	TabProfile         Tab = "profile"
)

// Tabs lists every logical state in display order.
var Tabs = []Tab{TabOverview, TabRecommendations, TabScholarships, TabOpportunities, TabProfile}

// TitleKey is the translation key of the tab label.
func (t Tab) TitleKey() string { return "tab." + string(t) }

func ParseTab(s string) (Tab, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", utils.ErrUnknownTab
}

// Navigator is the tab state machine. It starts on overview and moves only
// on explicit selection. It never performs I/O.
type Navigator struct {
	mu     sync.RWMutex
	active Tab
}

func NewNavigator() *Navigator {
	return &Navigator{active: TabOverview}
}

func (n *Navigator) Active() Tab {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.active
}

// Select moves to tab and reports whether the state changed. Selecting the
// active tab is a no-op.
func (n *Navigator) Select(tab Tab) (bool, error) {
	if _, err := ParseTab(string(tab)); err != nil {
		return false, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active == tab {
		return false, nil
	}
	n.active = tab
	return true, nil
}

// Reset returns to overview, used on dashboard entry.
func (n *Navigator) Reset() {
	n.mu.Lock()
	n.active = TabOverview
	n.mu.Unlock()
}
