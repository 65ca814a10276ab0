package testutil

import (
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

// BasketballConfig returns a four-quarter, twelve-minute basketball match.
func BasketballConfig(teamA, teamB string) match.Config {
	return match.Config{
		Sport:           match.SportBasketball,
		TeamA:           match.TeamConfig{Name: teamA, Color: "#552583"},
		TeamB:           match.TeamConfig{Name: teamB, Color: "#1D428A"},
		DurationMinutes: 12,
		Periods:         4,
	}
}

// VolleyballConfig returns a best-of-three volleyball match.
func VolleyballConfig(teamA, teamB string) match.Config {
	return match.Config{
		Sport:   match.SportVolleyball,
		TeamA:   match.TeamConfig{Name: teamA},
		TeamB:   match.TeamConfig{Name: teamB},
		Periods: 3,
	}
}
