package session

import (
	"context"
	"testing"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

func TestManagerOpenReusesAndReseeds(t *testing.T) {
	h := newHarness()
	m := NewManager(h.deps)
	t.Cleanup(m.CloseAll)
	ctx := context.Background()

	first, err := m.Open(ctx, "match-1", basketball())
	if err != nil {
		t.Fatalf("expected session, got %v", err)
	}
	first.UpdateScore(ctx, match.SideA, 3)

	again, err := m.Open(ctx, "match-1", basketball())
	if err != nil || again != first {
		t.Fatalf("expected same session for same config, err=%v", err)
	}
	if again.Snapshot().GameState.TeamA.Score != 3 {
		t.Fatalf("expected state kept when config unchanged")
	}

	changed := basketball()
	changed.DurationMinutes = 10
	reseeded, err := m.Open(ctx, "match-1", changed)
	if err != nil || reseeded != first {
		t.Fatalf("expected same session reseeded, err=%v", err)
	}
	snap := reseeded.Snapshot()
	if snap.GameState.TeamA.Score != 0 || snap.Time != 600 {
		t.Fatalf("expected fresh state after config change, got %+v", snap)
	}

	if _, ok := m.Get("match-1"); !ok || m.Len() != 1 {
		t.Fatalf("expected one open session")
	}
}

func TestManagerCloseForgetsSession(t *testing.T) {
	h := newHarness()
	m := NewManager(h.deps)
	ctx := context.Background()

	s, _ := m.Open(ctx, "match-1", basketball())
	s.UpdateScore(ctx, match.SideB, 1)
	m.Close("match-1")
	if _, ok := m.Get("match-1"); ok {
		t.Fatalf("expected session removed")
	}

	reopened, err := m.Open(ctx, "match-1", basketball())
	if err != nil {
		t.Fatalf("expected reopen, got %v", err)
	}
	defer m.CloseAll()
	if reopened == s || reopened.Snapshot().GameState.TeamB.Score != 1 {
		t.Fatalf("expected a new session restored from the store")
	}
}

func TestManagerOpenInvalidConfig(t *testing.T) {
	m := NewManager(newHarness().deps)
	cfg := basketball()
	cfg.TeamA.Name = ""
	if _, err := m.Open(context.Background(), "match-1", cfg); err == nil {
		t.Fatalf("expected validation error")
	}
	if m.Len() != 0 {
		t.Fatalf("expected no session registered")
	}
}

func TestManagerLiveReportsOpenSessions(t *testing.T) {
	h := newHarness()
	m := NewManager(h.deps)
	t.Cleanup(m.CloseAll)
	ctx := context.Background()

	if _, ok := m.Live("match-1"); ok {
		t.Fatalf("expected no live entry before open")
	}
	s, err := m.Open(ctx, "match-1", basketball())
	if err != nil {
		t.Fatalf("expected session, got %v", err)
	}
	s.UpdateScore(ctx, match.SideB, 2)

	entry, ok := m.Live("match-1")
	if !ok || entry.GameState.TeamB.Score != 2 || entry.Time != 720 {
		t.Fatalf("unexpected live entry %+v ok=%v", entry, ok)
	}
}
