package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

type sportOverride struct {
	DurationMinutes *int `yaml:"durationMinutes"`
	DurationSeconds *int `yaml:"durationSeconds"`
	Periods         *int `yaml:"periods"`
	TargetScore     *int `yaml:"targetScore"`
}

type sportDefaultsFile struct {
	SportDefaults map[match.Sport]sportOverride `yaml:"sportDefaults"`
}

// LoadSportDefaults returns the built-in sport defaults merged with the overrides in the
// YAML file at path. An empty path yields the built-ins. Only the fields present in the
// file replace the built-in values.
func LoadSportDefaults(path string) (map[match.Sport]match.SportDefaults, error) {
	defaults := match.BuiltinSportDefaults()
	if path == "" {
		return defaults, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("read sport defaults: %w", err)
	}
	var file sportDefaultsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return defaults, fmt.Errorf("parse sport defaults: %w", err)
	}

	for sport, o := range file.SportDefaults {
		if !sport.Valid() {
			return match.BuiltinSportDefaults(), fmt.Errorf("sport defaults: unknown sport %q", sport)
		}
		d := defaults[sport]
		apply(&d.DurationMinutes, o.DurationMinutes)
		apply(&d.DurationSeconds, o.DurationSeconds)
		apply(&d.Periods, o.Periods)
		apply(&d.TargetScore, o.TargetScore)
		defaults[sport] = d
	}
	return defaults, nil
}

func apply(dst *int, v *int) {
	if v != nil && *v >= 0 {
		*dst = *v
	}
}
