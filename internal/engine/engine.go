// Package engine is the match state machine. Every transition is a pure function of the
// configuration, the current snapshot and whether the clock is running; clock changes are
// returned as effects for the caller to apply.
package engine

import (
	"errors"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

// ErrInvalidAction is returned by Action.Validate for malformed payloads.
var ErrInvalidAction = errors.New("invalid action")

// Input is the state the machine is asked to advance.
type Input struct {
	State   match.GameState
	Running bool
}

// Result carries the next state and the effects to apply, in order.
// A rejected action returns the input state unchanged and no effects.
type Result struct {
	State    match.GameState
	Effects  []Effect
	Accepted bool
}

type transition struct {
	cfg     match.Config
	state   match.GameState
	running bool
	action  Action
}

type rule func(t transition) Result

// table maps status x action to the rule that handles it. A missing cell rejects the action;
// FINISHED only admits housekeeping so the final result can never change.
var table = map[match.Status]map[ActionKind]rule{
	match.StatusNotStarted: {
		ActionStart:              startClock,
		ActionPause:              pauseClock,
		ActionUpdateScore:        updateScore,
		ActionSetPauseReason:     setPauseReason,
		ActionClearPauseReason:   clearPauseReason,
		ActionClearNotification:  clearNotificationRule,
		ActionStartNextPeriod:    startNextPeriod,
		ActionGoToNextPeriod:     goToNextPeriod,
		ActionGoToPreviousPeriod: goToPreviousPeriod,
		ActionFinishMatch:        finishMatchManually,
		ActionTimeExpired:        timeExpired,
	},
	match.StatusInProgress: {
		ActionStart:              startClock,
		ActionPause:              pauseClock,
		ActionUpdateScore:        updateScore,
		ActionSetPauseReason:     setPauseReason,
		ActionClearPauseReason:   clearPauseReason,
		ActionClearNotification:  clearNotificationRule,
		ActionGoToNextPeriod:     goToNextPeriod,
		ActionGoToPreviousPeriod: goToPreviousPeriod,
		ActionFinishMatch:        finishMatchManually,
		ActionTimeExpired:        timeExpired,
	},
	match.StatusPaused: {
		ActionStart:              startClock,
		ActionPause:              pauseClock,
		ActionUpdateScore:        updateScore,
		ActionSetPauseReason:     setPauseReason,
		ActionClearPauseReason:   clearPauseReason,
		ActionClearNotification:  clearNotificationRule,
		ActionGoToNextPeriod:     goToNextPeriod,
		ActionGoToPreviousPeriod: goToPreviousPeriod,
		ActionFinishMatch:        finishMatchManually,
		ActionTimeExpired:        timeExpired,
	},
	match.StatusPeriodBreak: {
		// Start during a break opens the next period.
		ActionStart:              startNextPeriod,
		ActionPause:              pauseClock,
		ActionUpdateScore:        updateScore,
		ActionSetPauseReason:     setPauseReason,
		ActionClearPauseReason:   clearPauseReason,
		ActionClearNotification:  clearNotificationRule,
		ActionStartNextPeriod:    startNextPeriod,
		ActionGoToNextPeriod:     goToNextPeriod,
		ActionGoToPreviousPeriod: goToPreviousPeriod,
		ActionFinishMatch:        finishMatchManually,
		ActionTimeExpired:        timeExpired,
	},
	match.StatusTieBreak: {
		ActionStart:              resumeTieBreak,
		ActionPause:              pauseTieBreak,
		ActionUpdateScore:        updateScore,
		ActionSetPauseReason:     setPauseReason,
		ActionClearPauseReason:   clearPauseReason,
		ActionClearNotification:  clearNotificationRule,
		ActionGoToNextPeriod:     goToNextPeriod,
		ActionGoToPreviousPeriod: goToPreviousPeriod,
		ActionFinishMatch:        finishMatchManually,
	},
	match.StatusFinished: {
		ActionClearPauseReason:  clearPauseReason,
		ActionClearNotification: clearNotificationRule,
	},
}

// Apply advances the state machine by one action.
func Apply(cfg match.Config, in Input, a Action) Result {
	if err := a.Validate(); err != nil {
		return reject(in.State)
	}
	r, ok := table[in.State.Status][a.Kind]
	if !ok {
		return reject(in.State)
	}
	return r(transition{
		cfg:     cfg,
		state:   in.State.Clone(),
		running: in.Running,
		action:  a,
	})
}

// Allows reports whether the table has a cell for the status and action.
func Allows(status match.Status, kind ActionKind) bool {
	_, ok := table[status][kind]
	return ok
}

func reject(state match.GameState) Result {
	return Result{State: state}
}

func accept(state match.GameState, effects ...Effect) Result {
	return Result{State: state, Effects: effects, Accepted: true}
}
