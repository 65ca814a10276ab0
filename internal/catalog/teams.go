package catalog

import (
	"context"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

// Universal marks a saved team usable for every sport.
const Universal = "Universal"

const teamIDPrefix = "team-"

// SavedTeam is a reusable team name and color.
type SavedTeam struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Sport string `json:"sport,omitempty"`
}

func (t SavedTeam) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTeam)
	}
	if t.Sport != "" && t.Sport != Universal && !match.Sport(t.Sport).Valid() {
		return fmt.Errorf("%w: unknown sport %q", ErrInvalidTeam, t.Sport)
	}
	return nil
}

// MatchesSport reports whether the team is offered for sport.
func (t SavedTeam) MatchesSport(sport match.Sport) bool {
	return t.Sport == "" || t.Sport == Universal || match.Sport(t.Sport) == sport
}

// ListTeams returns every saved team.
func (s *Service) ListTeams(ctx context.Context) ([]SavedTeam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTeams(ctx)
}

// SaveTeam adds a team when it has no id, otherwise updates the team with that id.
func (s *Service) SaveTeam(ctx context.Context, team SavedTeam) (SavedTeam, error) {
	if err := team.validate(); err != nil {
		return SavedTeam{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	teams, err := s.loadTeams(ctx)
	if err != nil {
		return SavedTeam{}, err
	}

	if team.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return SavedTeam{}, fmt.Errorf("generate team id: %w", err)
		}
		team.ID = teamIDPrefix + id
		teams = append(teams, team)
	} else {
		found := false
		for i := range teams {
			if teams[i].ID == team.ID {
				teams[i] = team
				found = true
				break
			}
		}
		if !found {
			return SavedTeam{}, fmt.Errorf("%w: %s", ErrTeamNotFound, team.ID)
		}
	}

	if err := s.writeDoc(ctx, storage.KeyTeams, teams); err != nil {
		return SavedTeam{}, err
	}
	return team, nil
}

// DeleteTeam removes a saved team.
func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	teams, err := s.loadTeams(ctx)
	if err != nil {
		return err
	}
	for i := range teams {
		if teams[i].ID == id {
			teams = append(teams[:i], teams[i+1:]...)
			return s.writeDoc(ctx, storage.KeyTeams, teams)
		}
	}
	return fmt.Errorf("%w: %s", ErrTeamNotFound, id)
}

func (s *Service) loadTeams(ctx context.Context) ([]SavedTeam, error) {
	var teams []SavedTeam
	ok, err := s.readDoc(ctx, storage.KeyTeams, &teams)
	if err != nil {
		return nil, err
	}
	if !ok || teams == nil {
		teams = []SavedTeam{}
	}
	return teams, nil
}
