package engine

import (
	"fmt"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

// ActionKind names an operator intent or an internal event.
type ActionKind string

const (
	ActionStart              ActionKind = "start"
	ActionPause              ActionKind = "pause"
	ActionUpdateScore        ActionKind = "updateScore"
	ActionSetPauseReason     ActionKind = "setPauseReason"
	ActionClearPauseReason   ActionKind = "clearPauseReason"
	ActionClearNotification  ActionKind = "clearNotification"
	ActionStartNextPeriod    ActionKind = "startNextPeriod"
	ActionGoToNextPeriod     ActionKind = "goToNextPeriod"
	ActionGoToPreviousPeriod ActionKind = "goToPreviousPeriod"
	ActionFinishMatch        ActionKind = "finishMatchManually"
	ActionTimeExpired        ActionKind = "timeExpired"
)

// Action is a single request against the state machine.
type Action struct {
	Kind   ActionKind
	Side   match.Side
	Delta  int
	Reason match.PauseReason
}

// Convenience constructors keep call sites short.
func Start() Action              { return Action{Kind: ActionStart} }
func Pause() Action              { return Action{Kind: ActionPause} }
func StartNextPeriod() Action    { return Action{Kind: ActionStartNextPeriod} }
func GoToNextPeriod() Action     { return Action{Kind: ActionGoToNextPeriod} }
func GoToPreviousPeriod() Action { return Action{Kind: ActionGoToPreviousPeriod} }
func FinishMatch() Action        { return Action{Kind: ActionFinishMatch} }
func TimeExpired() Action        { return Action{Kind: ActionTimeExpired} }
func ClearNotification() Action  { return Action{Kind: ActionClearNotification} }
func ClearPauseReason() Action   { return Action{Kind: ActionClearPauseReason} }

func UpdateScore(side match.Side, delta int) Action {
	return Action{Kind: ActionUpdateScore, Side: side, Delta: delta}
}

func SetPauseReason(reason match.PauseReason) Action {
	return Action{Kind: ActionSetPauseReason, Reason: reason}
}

// Validate rejects malformed payloads before they reach the table.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionUpdateScore:
		if !a.Side.Valid() {
			return fmt.Errorf("%w: team must be A or B", ErrInvalidAction)
		}
	case ActionSetPauseReason:
		if !a.Reason.Valid() {
			return fmt.Errorf("%w: unknown pause reason %q", ErrInvalidAction, a.Reason)
		}
	case ActionStart, ActionPause, ActionClearPauseReason, ActionClearNotification,
		ActionStartNextPeriod, ActionGoToNextPeriod, ActionGoToPreviousPeriod,
		ActionFinishMatch, ActionTimeExpired:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidAction, a.Kind)
	}
	return nil
}
