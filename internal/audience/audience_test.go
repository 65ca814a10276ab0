package audience

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/history"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

type liveStub map[string]history.Entry

func (l liveStub) Live(id string) (history.Entry, bool) {
	e, ok := l[id]
	return e, ok
}

func basketball() match.Config {
	return match.Config{
		Sport:           match.SportBasketball,
		TeamA:           match.TeamConfig{Name: "Lakers", Color: "#552583"},
		TeamB:           match.TeamConfig{Name: "Celtics", Color: "#007A33"},
		DurationMinutes: 12,
		DurationSeconds: 30,
		Periods:         4,
	}
}

func volleyball() match.Config {
	return match.Config{
		Sport:   match.SportVolleyball,
		TeamA:   match.TeamConfig{Name: "Brazil"},
		TeamB:   match.TeamConfig{Name: "USA"},
		Periods: 5,
	}
}

func setup(t *testing.T, cfg match.Config) (*catalog.Service, *storage.MemoryStore, string) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := catalog.New(store, catalog.WithClock(clockwork.NewFakeClock()))
	m, err := svc.CreateMatch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	return svc, store, m.ID
}

func TestResolveUnknownMatch(t *testing.T) {
	svc, store, _ := setup(t, basketball())
	r := NewResolver(svc, store, nil, nil)
	if _, err := r.Resolve(context.Background(), "match-404"); !errors.Is(err, catalog.ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestResolveFreshState(t *testing.T) {
	tests := []struct {
		name string
		cfg  match.Config
		time int
	}{
		{"basketball uses duration", basketball(), 750},
		{"volleyball starts at zero", volleyball(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, id := setup(t, tt.cfg)
			got, err := NewResolver(svc, store, nil, nil).Resolve(context.Background(), id)
			if err != nil {
				t.Fatalf("expected entry, got %v", err)
			}
			if got.Time != tt.time || got.GameState.Status != match.StatusNotStarted {
				t.Fatalf("unexpected entry %+v", got)
			}
			if tt.cfg.IsVolleyball() != (got.GameState.SetScores != nil) {
				t.Fatalf("expected set scores only for volleyball, got %+v", got.GameState.SetScores)
			}
		})
	}
}

func TestResolvePrefersStoredHistory(t *testing.T) {
	svc, store, id := setup(t, basketball())
	ctx := context.Background()

	state := match.NewGameState(basketball())
	state.TeamA.Score = 12
	state.Status = match.StatusPaused
	raw, _ := history.New(history.Entry{GameState: state, Time: 301}).MarshalJSON()
	if err := store.Set(ctx, storage.MatchStateKey(id), raw); err != nil {
		t.Fatalf("expected set, got %v", err)
	}

	got, err := NewResolver(svc, store, nil, nil).Resolve(ctx, id)
	if err != nil {
		t.Fatalf("expected entry, got %v", err)
	}
	if got.Time != 301 || got.GameState.TeamA.Score != 12 {
		t.Fatalf("expected stored head, got %+v", got)
	}
}

func TestResolvePrefersLiveSession(t *testing.T) {
	svc, store, id := setup(t, basketball())
	live := liveStub{id: {GameState: match.NewGameState(basketball()), Time: 42}}

	got, err := NewResolver(svc, store, live, nil).Resolve(context.Background(), id)
	if err != nil || got.Time != 42 {
		t.Fatalf("expected live entry, got %+v err=%v", got, err)
	}
}

func TestResolveIgnoresCorruptHistory(t *testing.T) {
	svc, store, id := setup(t, basketball())
	ctx := context.Background()
	_ = store.Set(ctx, storage.MatchStateKey(id), []byte("{"))

	got, err := NewResolver(svc, store, nil, nil).Resolve(ctx, id)
	if err != nil || got.Time != 750 {
		t.Fatalf("expected fresh fallback, got %+v err=%v", got, err)
	}
}

func TestResolveFinishedRecord(t *testing.T) {
	svc, store, id := setup(t, volleyball())
	ctx := context.Background()

	final := match.NewGameState(volleyball())
	final.Status = match.StatusFinished
	final.TeamA.Score = 71
	final.TeamB.Score = 60
	final.PeriodScores = []match.PeriodScore{{A: 25, B: 20}, {A: 21, B: 25}, {A: 25, B: 15}}
	if _, err := svc.SyncStatus(ctx, id, final); err != nil {
		t.Fatalf("expected sync, got %v", err)
	}

	got, err := NewResolver(svc, store, nil, nil).Resolve(ctx, id)
	if err != nil {
		t.Fatalf("expected entry, got %v", err)
	}
	gs := got.GameState
	if gs.Status != match.StatusFinished || gs.CurrentPeriod != 5 || got.Time != 0 {
		t.Fatalf("unexpected finished entry %+v", got)
	}
	if gs.TeamA.Score != 71 || gs.TeamB.Score != 60 {
		t.Fatalf("expected final scores, got %d-%d", gs.TeamA.Score, gs.TeamB.Score)
	}
	if gs.SetScores == nil || gs.SetScores.A != 2 || gs.SetScores.B != 1 {
		t.Fatalf("expected derived sets 2-1, got %+v", gs.SetScores)
	}
}
