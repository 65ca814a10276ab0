package catalog

import (
	"strings"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

// Dashboard views.
const (
	ViewActive    = "active"
	ViewArchived  = "archived"
	ViewCompleted = "completed"
)

// Dashboard categories besides the sport names.
const (
	CategoryAll      = "All"
	CategoryFinished = "Finished"
)

// DashboardFilter selects matches for the dashboard.
type DashboardFilter struct {
	View     string
	Category string
	Query    string
}

// Filter partitions matches into archived, completed and active, keeps the requested view and
// applies the category (active view only) and the case-insensitive search on team names and sport.
func Filter(matches []Match, f DashboardFilter) []Match {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := []Match{}
	for _, m := range matches {
		if viewOf(m) != normalizeView(f.View) {
			continue
		}
		if normalizeView(f.View) == ViewActive && !inCategory(m, f.Category) {
			continue
		}
		if query != "" && !matchesQuery(m, query) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func viewOf(m Match) string {
	switch {
	case m.IsArchived:
		return ViewArchived
	case m.IsCompleted:
		return ViewCompleted
	}
	return ViewActive
}

func normalizeView(v string) string {
	switch v {
	case ViewArchived, ViewCompleted:
		return v
	}
	return ViewActive
}

func inCategory(m Match, category string) bool {
	switch {
	case category == "" || category == CategoryAll:
		return true
	case category == CategoryFinished:
		return m.Status == StatusFinished
	case match.Sport(category).Valid():
		return m.Sport == match.Sport(category)
	}
	return true
}

func matchesQuery(m Match, query string) bool {
	return strings.Contains(strings.ToLower(m.TeamA.Name), query) ||
		strings.Contains(strings.ToLower(m.TeamB.Name), query) ||
		strings.Contains(strings.ToLower(string(m.Sport)), query)
}
