package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

// MatchStatus is the coarse lifecycle shown on the dashboard.
type MatchStatus string

const (
	StatusUpcoming   MatchStatus = "Upcoming"
	StatusInProgress MatchStatus = "In Progress"
	StatusFinished   MatchStatus = "Finished"
)

const matchIDPrefix = "match-"

// Match is a catalog entry: the configuration plus dashboard bookkeeping.
type Match struct {
	match.Config
	ID           string              `json:"id"`
	Status       MatchStatus         `json:"status"`
	IsArchived   bool                `json:"isArchived,omitempty"`
	IsCompleted  bool                `json:"isCompleted,omitempty"`
	FinalScoreA  *int                `json:"finalScoreA,omitempty"`
	FinalScoreB  *int                `json:"finalScoreB,omitempty"`
	PeriodScores []match.PeriodScore `json:"periodScores,omitempty"`
}

// HasFinalScore reports whether the match finished with both scores recorded.
func (m Match) HasFinalScore() bool {
	return m.Status == StatusFinished && m.FinalScoreA != nil && m.FinalScoreB != nil
}

// Scores returns the final scores, zero when unrecorded.
func (m Match) Scores() (int, int) {
	var a, b int
	if m.FinalScoreA != nil {
		a = *m.FinalScoreA
	}
	if m.FinalScoreB != nil {
		b = *m.FinalScoreB
	}
	return a, b
}

// DateFromID returns the creation time encoded in a "match-<unix ms>" id.
func DateFromID(id string) (time.Time, bool) {
	_, rest, ok := strings.Cut(id, "-")
	if !ok {
		return time.Time{}, false
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	ms, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// StatusFor maps a live game status to the catalog lifecycle.
func StatusFor(s match.Status) MatchStatus {
	switch s {
	case match.StatusInProgress, match.StatusPaused, match.StatusPeriodBreak, match.StatusTieBreak:
		return StatusInProgress
	case match.StatusFinished:
		return StatusFinished
	}
	return StatusUpcoming
}

// ListMatches returns every match in creation order.
func (s *Service) ListMatches(ctx context.Context) ([]Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMatches(ctx)
}

// GetMatch returns one match by id.
func (s *Service) GetMatch(ctx context.Context, id string) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches, err := s.loadMatches(ctx)
	if err != nil {
		return Match{}, err
	}
	i := indexOf(matches, id)
	if i < 0 {
		return Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return matches[i], nil
}

// CreateMatch validates cfg and adds an Upcoming match stamped with the current time.
func (s *Service) CreateMatch(ctx context.Context, cfg match.Config) (Match, error) {
	if err := cfg.Validate(); err != nil {
		return Match{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	matches, err := s.loadMatches(ctx)
	if err != nil {
		return Match{}, err
	}

	ms := s.clock.Now().UnixMilli()
	id := matchIDPrefix + strconv.FormatInt(ms, 10)
	for indexOf(matches, id) >= 0 {
		ms++
		id = matchIDPrefix + strconv.FormatInt(ms, 10)
	}

	m := Match{Config: cfg, ID: id, Status: StatusUpcoming}
	matches = append(matches, m)
	if err := s.writeDoc(ctx, storage.KeyMatches, matches); err != nil {
		return Match{}, err
	}
	return m, nil
}

// UpdateConfig replaces the configuration of a match. A changed config discards the stored
// match history.
func (s *Service) UpdateConfig(ctx context.Context, id string, cfg match.Config) (Match, error) {
	if err := cfg.Validate(); err != nil {
		return Match{}, err
	}
	changed := false
	m, err := s.mutate(ctx, id, func(m *Match) bool {
		if m.Config == cfg {
			return false
		}
		m.Config = cfg
		changed = true
		return true
	})
	if err != nil || !changed {
		return m, err
	}
	// The stored history was played under the old config; the next session starts fresh.
	if err := s.store.Delete(ctx, storage.MatchStateKey(id)); err != nil {
		return Match{}, fmt.Errorf("reset history for %s: %w", id, err)
	}
	return m, nil
}

// DeleteMatch removes the match and its stored history.
func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches, err := s.loadMatches(ctx)
	if err != nil {
		return err
	}
	i := indexOf(matches, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	matches = append(matches[:i], matches[i+1:]...)
	if err := s.writeDoc(ctx, storage.KeyMatches, matches); err != nil {
		return err
	}
	return s.store.Delete(ctx, storage.MatchStateKey(id))
}

// SetArchived moves a match into or out of the archive.
func (s *Service) SetArchived(ctx context.Context, id string, archived bool) (Match, error) {
	return s.mutate(ctx, id, func(m *Match) bool {
		changed := m.IsArchived != archived
		m.IsArchived = archived
		return changed
	})
}

// ToggleCompleted flips the completed flag.
func (s *Service) ToggleCompleted(ctx context.Context, id string) (Match, error) {
	return s.mutate(ctx, id, func(m *Match) bool {
		m.IsCompleted = !m.IsCompleted
		return true
	})
}

// SyncStatus mirrors a live game state into the catalog entry. A finished game also records
// its final scores and period breakdown.
func (s *Service) SyncStatus(ctx context.Context, id string, state match.GameState) (Match, error) {
	status := StatusFor(state.Status)
	return s.mutate(ctx, id, func(m *Match) bool {
		if status != StatusFinished {
			changed := m.Status != status
			m.Status = status
			return changed
		}
		a, b := state.TeamA.Score, state.TeamB.Score
		m.Status = status
		m.FinalScoreA = &a
		m.FinalScoreB = &b
		m.PeriodScores = append([]match.PeriodScore{}, state.PeriodScores...)
		return true
	})
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*Match) bool) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches, err := s.loadMatches(ctx)
	if err != nil {
		return Match{}, err
	}
	i := indexOf(matches, id)
	if i < 0 {
		return Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	if !fn(&matches[i]) {
		return matches[i], nil
	}
	if err := s.writeDoc(ctx, storage.KeyMatches, matches); err != nil {
		return Match{}, err
	}
	return matches[i], nil
}

func (s *Service) loadMatches(ctx context.Context) ([]Match, error) {
	var matches []Match
	ok, err := s.readDoc(ctx, storage.KeyMatches, &matches)
	if err != nil {
		return nil, err
	}
	if !ok || matches == nil {
		matches = []Match{}
	}
	return matches, nil
}

func indexOf(matches []Match, id string) int {
	for i, m := range matches {
		if m.ID == id {
			return i
		}
	}
	return -1
}
