// Package audience resolves what a read-only scoreboard mirror should display for a match.
package audience

import (
	"context"
	"errors"
	"log/slog"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/history"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

// MatchSource looks up catalog entries.
type MatchSource interface {
	GetMatch(ctx context.Context, id string) (catalog.Match, error)
}

// LiveSource reports the state of a match being controlled right now.
type LiveSource interface {
	Live(matchID string) (history.Entry, bool)
}

// Resolver picks the best available view of a match.
type Resolver struct {
	matches MatchSource
	store   storage.DurableStore
	live    LiveSource
	logger  *slog.Logger
}

func NewResolver(matches MatchSource, store storage.DurableStore, live LiveSource, logger *slog.Logger) *Resolver {
	return &Resolver{matches: matches, store: store, live: live, logger: logger}
}

// Resolve returns, in order of preference: the open session, the stored history head, the final
// result of a finished match, or a fresh unstarted state.
func (r *Resolver) Resolve(ctx context.Context, matchID string) (history.Entry, error) {
	m, err := r.matches.GetMatch(ctx, matchID)
	if err != nil {
		return history.Entry{}, err
	}

	if r.live != nil {
		if entry, ok := r.live.Live(matchID); ok {
			return entry, nil
		}
	}
	if entry, ok := r.stored(ctx, matchID); ok {
		return entry, nil
	}
	if m.Status == catalog.StatusFinished {
		return FinishedEntry(m), nil
	}
	return FreshEntry(m.Config), nil
}

func (r *Resolver) stored(ctx context.Context, matchID string) (history.Entry, bool) {
	if r.store == nil {
		return history.Entry{}, false
	}
	raw, err := r.store.Get(ctx, storage.MatchStateKey(matchID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.Warn(r.logger, "could not read match history", logging.FieldMatchID, matchID, logging.FieldError, err)
		}
		return history.Entry{}, false
	}
	log, err := history.Decode(raw)
	if err != nil {
		logging.Warn(r.logger, "stored match history is invalid", logging.FieldMatchID, matchID, logging.FieldError, err)
		return history.Entry{}, false
	}
	return log.Current(), true
}

// FinishedEntry rebuilds the final scoreboard of a finished catalog match.
func FinishedEntry(m catalog.Match) history.Entry {
	a, b := m.Scores()
	periods := append([]match.PeriodScore{}, m.PeriodScores...)
	state := match.GameState{
		TeamA:         match.Team{Name: m.TeamA.Name, Color: m.TeamA.Color, Score: a},
		TeamB:         match.Team{Name: m.TeamB.Name, Color: m.TeamB.Color, Score: b},
		CurrentPeriod: m.Periods,
		Status:        match.StatusFinished,
		PeriodScores:  periods,
	}
	if m.IsVolleyball() {
		sets := match.DeriveSetScores(periods)
		state.SetScores = &sets
	}
	return history.Entry{GameState: state, Time: 0}
}

// FreshEntry is the scoreboard before kickoff. Volleyball clocks start at zero.
func FreshEntry(cfg match.Config) history.Entry {
	t := cfg.DurationMinutes*60 + cfg.DurationSeconds
	if cfg.IsVolleyball() {
		t = 0
	}
	return history.Entry{GameState: match.NewGameState(cfg), Time: t}
}
