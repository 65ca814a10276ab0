package match

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned when a match configuration cannot be played.
var ErrInvalidConfig = errors.New("invalid match config")

const defaultVolleyballPoints = 25

// TeamConfig describes one side before play begins.
type TeamConfig struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Config is the caller-owned description of a match.
type Config struct {
	Sport           Sport      `json:"sport"`
	TeamA           TeamConfig `json:"teamA"`
	TeamB           TeamConfig `json:"teamB"`
	DurationMinutes int        `json:"durationMinutes"`
	DurationSeconds int        `json:"durationSeconds"`
	Periods         int        `json:"periods"`
	GameMode        GameMode   `json:"gameMode,omitempty"`
	TargetScore     int        `json:"targetScore,omitempty"`
}

// Validate checks the configuration against the per-sport rules.
func (c Config) Validate() error {
	if !c.Sport.Valid() {
		return fmt.Errorf("%w: unknown sport %q", ErrInvalidConfig, c.Sport)
	}
	if c.GameMode != "" && c.GameMode != ModeTime && c.GameMode != ModeScore {
		return fmt.Errorf("%w: unknown game mode %q", ErrInvalidConfig, c.GameMode)
	}
	if strings.TrimSpace(c.TeamA.Name) == "" || strings.TrimSpace(c.TeamB.Name) == "" {
		return fmt.Errorf("%w: both teams need a name", ErrInvalidConfig)
	}
	if c.Periods < 1 {
		return fmt.Errorf("%w: periods must be at least 1", ErrInvalidConfig)
	}
	// A best-of series needs an odd number of sets.
	if c.Sport == SportVolleyball && c.Periods%2 == 0 {
		return fmt.Errorf("%w: volleyball periods must be odd, got %d", ErrInvalidConfig, c.Periods)
	}
	if c.DurationMinutes < 0 || c.DurationSeconds < 0 || c.DurationSeconds > 59 {
		return fmt.Errorf("%w: duration out of range", ErrInvalidConfig)
	}
	if c.TargetScore < 0 {
		return fmt.Errorf("%w: target score must not be negative", ErrInvalidConfig)
	}
	if c.Mode() == ModeTime && !c.IsStopwatch() && c.DurationMinutes*60+c.DurationSeconds <= 0 {
		return fmt.Errorf("%w: timed periods need a duration", ErrInvalidConfig)
	}
	if c.Mode() == ModeScore && c.Sport != SportVolleyball && c.TargetScore <= 0 {
		return fmt.Errorf("%w: score mode needs a target score", ErrInvalidConfig)
	}
	return nil
}

// Mode returns the game mode, treating an unset mode as time.
func (c Config) Mode() GameMode {
	if c.GameMode == ModeScore {
		return ModeScore
	}
	return ModeTime
}

// IsScoreMode reports whether the match ends on points rather than the clock.
func (c Config) IsScoreMode() bool {
	return c.Mode() == ModeScore
}

// IsVolleyball reports whether set rules apply.
func (c Config) IsVolleyball() bool {
	return c.Sport == SportVolleyball
}

// IsStopwatch reports whether the clock counts up. Timed volleyball sets run open-ended.
func (c Config) IsStopwatch() bool {
	return c.IsVolleyball() && !c.IsScoreMode()
}

// InitialTime is the clock value, in seconds, at the start of a period.
func (c Config) InitialTime() int {
	if c.IsStopwatch() || c.IsScoreMode() {
		return 0
	}
	return c.DurationMinutes*60 + c.DurationSeconds
}

// SetsToWin is the number of sets that decides a volleyball match.
func (c Config) SetsToWin() int {
	return (c.Periods + 1) / 2
}

// PointsToWin is the set point target for volleyball score mode.
func (c Config) PointsToWin() int {
	if c.TargetScore > 0 {
		return c.TargetScore
	}
	return defaultVolleyballPoints
}

// PeriodLabel names a single period for banners.
func (c Config) PeriodLabel() string {
	switch c.Sport {
	case SportVolleyball:
		return "Set"
	case SportSoccer:
		return "Half"
	default:
		return "Quarter"
	}
}
