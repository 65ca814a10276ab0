package catalog

import (
	"context"
	"fmt"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

// Settings are the operator preferences.
type Settings struct {
	Theme             string                              `json:"theme"`
	Font              string                              `json:"font"`
	Layout            string                              `json:"layout"`
	DefaultSport      match.Sport                         `json:"defaultSport"`
	DefaultTeamAColor string                              `json:"defaultTeamAColor"`
	DefaultTeamBColor string                              `json:"defaultTeamBColor"`
	SportDefaults     map[match.Sport]match.SportDefaults `json:"sportDefaults"`
}

var (
	themes  = map[string]bool{"light": true, "dark": true, "coder": true, "viola": true}
	fonts   = map[string]bool{"display": true, "mono": true, "sans": true}
	layouts = map[string]bool{"wide": true, "compact": true}
)

// DefaultSettings returns the settings used before anything is saved.
func (s *Service) DefaultSettings() Settings {
	defaults := make(map[match.Sport]match.SportDefaults, len(s.defaults))
	for k, v := range s.defaults {
		defaults[k] = v
	}
	return Settings{
		Theme:             "dark",
		Font:              "display",
		Layout:            "wide",
		DefaultSport:      match.SportBasketball,
		DefaultTeamAColor: "#EF4444",
		DefaultTeamBColor: "#3B82F6",
		SportDefaults:     defaults,
	}
}

func (st Settings) validate() error {
	switch {
	case !themes[st.Theme]:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidSettings, st.Theme)
	case !fonts[st.Font]:
		return fmt.Errorf("%w: unknown font %q", ErrInvalidSettings, st.Font)
	case !layouts[st.Layout]:
		return fmt.Errorf("%w: unknown layout %q", ErrInvalidSettings, st.Layout)
	case !st.DefaultSport.Valid():
		return fmt.Errorf("%w: unknown sport %q", ErrInvalidSettings, st.DefaultSport)
	}
	for sport := range st.SportDefaults {
		if !sport.Valid() {
			return fmt.Errorf("%w: unknown sport %q in defaults", ErrInvalidSettings, sport)
		}
	}
	return nil
}

// Settings returns the stored settings merged over the defaults; sport defaults merge per sport.
func (s *Service) Settings(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSettings(ctx)
}

// UpdateSettings stores st after merging it over the defaults.
func (s *Service) UpdateSettings(ctx context.Context, st Settings) (Settings, error) {
	merged := s.merge(st)
	if err := merged.validate(); err != nil {
		return Settings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeDoc(ctx, storage.KeySettings, merged); err != nil {
		return Settings{}, err
	}
	return merged, nil
}

func (s *Service) loadSettings(ctx context.Context) (Settings, error) {
	var stored Settings
	ok, err := s.readDoc(ctx, storage.KeySettings, &stored)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		return s.DefaultSettings(), nil
	}
	return s.merge(stored), nil
}

func (s *Service) merge(st Settings) Settings {
	out := s.DefaultSettings()
	if st.Theme != "" {
		out.Theme = st.Theme
	}
	if st.Font != "" {
		out.Font = st.Font
	}
	if st.Layout != "" {
		out.Layout = st.Layout
	}
	if st.DefaultSport != "" {
		out.DefaultSport = st.DefaultSport
	}
	if st.DefaultTeamAColor != "" {
		out.DefaultTeamAColor = st.DefaultTeamAColor
	}
	if st.DefaultTeamBColor != "" {
		out.DefaultTeamBColor = st.DefaultTeamBColor
	}
	for sport, d := range st.SportDefaults {
		out.SportDefaults[sport] = d
	}
	return out
}
