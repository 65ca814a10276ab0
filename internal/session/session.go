// Package session drives one match: it owns the clock, runs actions through the state machine,
// keeps the undo/redo history, persists it after every change and broadcasts the live state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/scoreboard-service/internal/broadcast"
	"github.com/preston-bernstein/scoreboard-service/internal/clock"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/engine"
	"github.com/preston-bernstein/scoreboard-service/internal/history"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

const (
	// ClearDelay is how long a pause reason or notification stays on screen.
	ClearDelay = 3 * time.Second

	backgroundTimeout = 5 * time.Second
)

// Deps are the collaborators shared by every session.
type Deps struct {
	Store     storage.DurableStore
	Publisher broadcast.Publisher
	Clock     clockwork.Clock
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	// Driver labels persistence metrics.
	Driver string
	// OnChange is called with the head state after every recorded change.
	OnChange func(ctx context.Context, matchID string, state match.GameState)
}

// Snapshot is the control-surface view of a session.
type Snapshot struct {
	MatchID   string          `json:"matchId"`
	GameState match.GameState `json:"gameState"`
	Time      int             `json:"time"`
	IsRunning bool            `json:"isRunning"`
	CanUndo   bool            `json:"canUndo"`
	CanRedo   bool            `json:"canRedo"`
}

// Session is the single writer for one match. All exported methods are safe for concurrent use.
type Session struct {
	deps    Deps
	matchID string
	logger  *slog.Logger

	mu          sync.Mutex
	cfg         match.Config
	log         *history.Log
	clock       *clock.Clock
	reasonTimer clockwork.Timer
	noticeTimer clockwork.Timer
	reasonGen   uint64
	noticeGen   uint64
	closed      bool
}

// New opens the session for matchID, restoring its stored history when present. Missing or
// unreadable history starts a fresh match.
func New(ctx context.Context, deps Deps, matchID string, cfg match.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}

	s := &Session{
		deps:    deps,
		matchID: matchID,
		cfg:     cfg,
	}
	if deps.Logger != nil {
		s.logger = deps.Logger.With(logging.FieldMatchID, matchID)
	}

	restored, ok := s.load(ctx)
	if !ok {
		restored = freshLog(cfg)
	}
	s.log = restored
	s.clock = clock.New(deps.Clock, restored.Current().Time, clockMode(cfg), s.handleExpire)
	s.clock.OnTick(s.handleTick)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.persistLocked(ctx)
	}
	s.armNoticeLocked()
	s.publishLocked(ctx)
	return s, nil
}

// MatchID returns the id this session controls.
func (s *Session) MatchID() string { return s.matchID }

// Config returns the configuration the session plays under.
func (s *Session) Config() match.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Snapshot returns the head state with the live clock value.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close stops the clock and pending timers. The stored history is kept.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.clock.Close()
	stopTimer(&s.reasonTimer)
	stopTimer(&s.noticeTimer)
}

func (s *Session) load(ctx context.Context) (*history.Log, bool) {
	raw, err := s.deps.Store.Get(ctx, storage.MatchStateKey(s.matchID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.Warn(s.logger, "could not read match history, starting fresh", logging.FieldError, err)
		}
		return nil, false
	}
	restored, err := history.Decode(raw)
	if err != nil {
		logging.Warn(s.logger, "stored match history is invalid, starting fresh", logging.FieldError, err)
		return nil, false
	}
	logging.Info(s.logger, "restored match history", logging.FieldCount, restored.Len())
	return restored, true
}

func freshLog(cfg match.Config) *history.Log {
	return history.New(history.Entry{GameState: match.NewGameState(cfg), Time: cfg.InitialTime()})
}

func clockMode(cfg match.Config) clock.Mode {
	if cfg.IsStopwatch() {
		return clock.Stopwatch
	}
	return clock.Countdown
}

func (s *Session) snapshotLocked() Snapshot {
	head := s.log.Current()
	return Snapshot{
		MatchID:   s.matchID,
		GameState: head.GameState,
		Time:      s.clock.Time(),
		IsRunning: s.clock.Running(),
		CanUndo:   s.log.CanUndo(),
		CanRedo:   s.log.CanRedo(),
	}
}

// applyLocked runs one action through the state machine. It reports whether the action was
// accepted by the table.
func (s *Session) applyLocked(ctx context.Context, a engine.Action) bool {
	if s.closed {
		return false
	}
	res := engine.Apply(s.cfg, engine.Input{State: s.log.Current().GameState, Running: s.clock.Running()}, a)
	s.deps.Metrics.RecordAction(string(a.Kind), res.Accepted)
	if !res.Accepted {
		logging.Debug(s.logger, "action rejected", logging.FieldAction, string(a.Kind), logging.FieldStatus, string(s.log.Current().GameState.Status))
		return false
	}

	changed := s.log.Record(func(match.GameState) match.GameState { return res.State })
	s.applyEffectsLocked(res.Effects)

	if changed {
		s.commitLocked(ctx)
	} else if len(res.Effects) > 0 {
		s.publishLocked(ctx)
	}
	return true
}

func (s *Session) applyEffectsLocked(effects []engine.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case engine.EffectClockStart:
			s.clock.Start()
		case engine.EffectClockPause:
			s.clock.Pause()
		case engine.EffectClockReset:
			s.clock.Reset(e.Time)
		case engine.EffectScheduleReasonClear:
			s.armReasonLocked()
		}
	}
}

// commitLocked stamps the head with the clock value, then persists and broadcasts it.
func (s *Session) commitLocked(ctx context.Context) {
	s.log.PatchTime(s.clock.Time())
	s.persistLocked(ctx)
	s.armNoticeLocked()
	s.publishLocked(ctx)
	if s.deps.OnChange != nil {
		s.deps.OnChange(ctx, s.matchID, s.log.Current().GameState)
	}
}

func (s *Session) persistLocked(ctx context.Context) {
	raw, err := s.log.MarshalJSON()
	if err == nil {
		start := time.Now()
		err = s.deps.Store.Set(ctx, storage.MatchStateKey(s.matchID), raw)
		s.deps.Metrics.RecordPersist(s.deps.Driver, time.Since(start), err)
	}
	if err != nil {
		logging.Error(s.logger, "failed to persist match history", err)
	}
}

func (s *Session) publishLocked(ctx context.Context) {
	s.publish(ctx, s.log.Current().GameState, s.clock.Time())
}

func (s *Session) publish(ctx context.Context, state match.GameState, t int) {
	if s.deps.Publisher == nil {
		return
	}
	msg := broadcast.Message{MatchID: s.matchID, Data: history.Entry{GameState: state, Time: t}}
	if err := s.deps.Publisher.Publish(ctx, msg); err != nil {
		logging.Warn(s.logger, "failed to broadcast match state", logging.FieldError, err)
	}
}

// handleTick republishes the live time; ticks never touch the history.
func (s *Session) handleTick(int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	defer cancel()
	s.publishLocked(ctx)
}

func (s *Session) handleExpire() {
	s.deps.Metrics.RecordClockExpiry()
	s.background(nil, engine.TimeExpired())
}

// background applies an action raised by the clock or a timer. current reports whether the
// trigger is still the latest one.
func (s *Session) background(current func() bool, a engine.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current != nil && !current() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	defer cancel()
	s.applyLocked(ctx, a)
}

// armReasonLocked schedules the pause reason to clear; a newer reason restarts the window.
func (s *Session) armReasonLocked() {
	stopTimer(&s.reasonTimer)
	s.reasonGen++
	gen := s.reasonGen
	s.reasonTimer = s.deps.Clock.AfterFunc(ClearDelay, func() {
		s.background(func() bool { return gen == s.reasonGen }, engine.ClearPauseReason())
	})
}

// armNoticeLocked keeps a clear pending while the head shows a notification.
func (s *Session) armNoticeLocked() {
	stopTimer(&s.noticeTimer)
	s.noticeGen++
	if s.closed || s.log.Current().GameState.Notification == nil {
		return
	}
	gen := s.noticeGen
	s.noticeTimer = s.deps.Clock.AfterFunc(ClearDelay, func() {
		s.background(func() bool { return gen == s.noticeGen }, engine.ClearNotification())
	})
}

func stopTimer(t *clockwork.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
