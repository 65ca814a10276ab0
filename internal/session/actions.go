package session

import (
	"context"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/engine"
)

// Apply runs one state machine action and returns the resulting snapshot. Rejected actions
// leave the session untouched; accepted reports which happened.
func (s *Session) Apply(ctx context.Context, a engine.Action) (snap Snapshot, accepted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accepted = s.applyLocked(ctx, a)
	return s.snapshotLocked(), accepted
}

func (s *Session) Start(ctx context.Context) Snapshot {
	snap, _ := s.Apply(ctx, engine.Start())
	return snap
}

func (s *Session) Pause(ctx context.Context) Snapshot {
	snap, _ := s.Apply(ctx, engine.Pause())
	return snap
}

func (s *Session) UpdateScore(ctx context.Context, side match.Side, delta int) Snapshot {
	snap, _ := s.Apply(ctx, engine.UpdateScore(side, delta))
	return snap
}

func (s *Session) SetPauseReason(ctx context.Context, reason match.PauseReason) Snapshot {
	snap, _ := s.Apply(ctx, engine.SetPauseReason(reason))
	return snap
}

func (s *Session) StartNextPeriod(ctx context.Context) Snapshot {
	snap, _ := s.Apply(ctx, engine.StartNextPeriod())
	return snap
}

func (s *Session) GoToNextPeriod(ctx context.Context) Snapshot {
	snap, _ := s.Apply(ctx, engine.GoToNextPeriod())
	return snap
}

func (s *Session) GoToPreviousPeriod(ctx context.Context) Snapshot {
	snap, _ := s.Apply(ctx, engine.GoToPreviousPeriod())
	return snap
}

func (s *Session) FinishMatch(ctx context.Context) Snapshot {
	snap, _ := s.Apply(ctx, engine.FinishMatch())
	return snap
}

// Reset discards the history and starts the match over with the clock at its initial value.
func (s *Session) Reset(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(ctx)
	return s.snapshotLocked()
}

// Reseed switches the session to cfg and starts over. The configuration is validated first.
func (s *Session) Reseed(ctx context.Context, cfg match.Config) (Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.clock.SetMode(clockMode(cfg))
	s.resetLocked(ctx)
	return s.snapshotLocked(), nil
}

// Undo moves back one entry and puts the clock at the time stored with it.
func (s *Session) Undo(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.snapshotLocked()
	}
	if entry, ok := s.log.Undo(); ok {
		s.clock.SetTime(entry.Time)
		s.moveLocked(ctx)
	}
	return s.snapshotLocked()
}

// Redo moves forward one entry and puts the clock at the time stored with it.
func (s *Session) Redo(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.snapshotLocked()
	}
	if entry, ok := s.log.Redo(); ok {
		s.clock.SetTime(entry.Time)
		s.moveLocked(ctx)
	}
	return s.snapshotLocked()
}

func (s *Session) resetLocked(ctx context.Context) {
	if s.closed {
		return
	}
	s.log = freshLog(s.cfg)
	s.clock.Reset(s.cfg.InitialTime())
	stopTimer(&s.reasonTimer)
	s.reasonGen++
	s.commitLocked(ctx)
}

// moveLocked persists a cursor move. The head keeps its stored time.
func (s *Session) moveLocked(ctx context.Context) {
	s.persistLocked(ctx)
	s.armNoticeLocked()
	s.publishLocked(ctx)
	if s.deps.OnChange != nil {
		s.deps.OnChange(ctx, s.matchID, s.log.Current().GameState)
	}
}
