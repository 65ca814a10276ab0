package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/engine"
)

// ErrUnknownAction is returned for commands the control surface does not offer.
var ErrUnknownAction = errors.New("unknown action")

// Operator commands outside the state machine.
const (
	CommandReset = "reset"
	CommandUndo  = "undo"
	CommandRedo  = "redo"
)

// Command is an operator request as it arrives over the wire.
type Command struct {
	Type   string            `json:"type"`
	Team   match.Side        `json:"team,omitempty"`
	Delta  int               `json:"delta,omitempty"`
	Reason match.PauseReason `json:"reason,omitempty"`
}

// Result reports what a command did.
type Result struct {
	Snapshot Snapshot `json:"snapshot"`
	Accepted bool     `json:"accepted"`
}

// Execute dispatches cmd. Malformed payloads return an error wrapping engine.ErrInvalidAction;
// rule violations are not errors and come back with Accepted false.
func (s *Session) Execute(ctx context.Context, cmd Command) (Result, error) {
	switch cmd.Type {
	case CommandReset:
		return Result{Snapshot: s.Reset(ctx), Accepted: true}, nil
	case CommandUndo:
		before := s.Snapshot().CanUndo
		return Result{Snapshot: s.Undo(ctx), Accepted: before}, nil
	case CommandRedo:
		before := s.Snapshot().CanRedo
		return Result{Snapshot: s.Redo(ctx), Accepted: before}, nil
	}

	a, err := cmd.action()
	if err != nil {
		return Result{}, err
	}
	snap, accepted := s.Apply(ctx, a)
	return Result{Snapshot: snap, Accepted: accepted}, nil
}

func (c Command) action() (engine.Action, error) {
	var a engine.Action
	switch engine.ActionKind(c.Type) {
	case engine.ActionUpdateScore:
		a = engine.UpdateScore(c.Team, c.Delta)
	case engine.ActionSetPauseReason:
		a = engine.SetPauseReason(c.Reason)
	case engine.ActionStart, engine.ActionPause, engine.ActionStartNextPeriod,
		engine.ActionGoToNextPeriod, engine.ActionGoToPreviousPeriod, engine.ActionFinishMatch:
		a = engine.Action{Kind: engine.ActionKind(c.Type)}
	default:
		// Clears and expiry are raised by the session's own timers.
		return engine.Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, c.Type)
	}
	if err := a.Validate(); err != nil {
		return engine.Action{}, err
	}
	return a, nil
}
