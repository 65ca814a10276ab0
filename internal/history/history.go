// Package history keeps the undo/redo log of match snapshots.
package history

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

// ErrInvalidHistory is returned when a stored log cannot be restored.
var ErrInvalidHistory = errors.New("invalid history")

// Entry is one snapshot: the game state and the clock value when it was recorded.
type Entry struct {
	GameState match.GameState `json:"gameState"`
	Time      int             `json:"time"`
}

// Log is an ordered list of entries with a cursor. Entries past the cursor are redoable
// until the next recorded change discards them.
type Log struct {
	states []Entry
	index  int
}

// Producer derives the next game state from the one at the cursor.
type Producer func(match.GameState) match.GameState

var stateEquality = cmpopts.EquateEmpty()

// New starts a log with a single entry.
func New(first Entry) *Log {
	return &Log{states: []Entry{cloneEntry(first)}, index: 0}
}

// Record applies producer to the current state. It returns false, leaving the log untouched,
// when the result is structurally equal to the current state.
func (l *Log) Record(producer Producer) bool {
	current := l.states[l.index]
	next := producer(current.GameState.Clone())
	if Equal(current.GameState, next) {
		return false
	}

	l.states = append(l.states[:l.index+1:l.index+1], Entry{GameState: next.Clone(), Time: current.Time})
	l.index = len(l.states) - 1
	return true
}

// Undo moves the cursor back one entry and returns the entry now current.
func (l *Log) Undo() (Entry, bool) {
	if !l.CanUndo() {
		return l.Current(), false
	}
	l.index--
	return l.Current(), true
}

// Redo moves the cursor forward one entry and returns the entry now current.
func (l *Log) Redo() (Entry, bool) {
	if !l.CanRedo() {
		return l.Current(), false
	}
	l.index++
	return l.Current(), true
}

func (l *Log) CanUndo() bool { return l.index > 0 }
func (l *Log) CanRedo() bool { return l.index < len(l.states)-1 }
func (l *Log) Len() int      { return len(l.states) }
func (l *Log) Index() int    { return l.index }

// Current returns a copy of the entry at the cursor.
func (l *Log) Current() Entry {
	return cloneEntry(l.states[l.index])
}

// PatchTime stores the clock value on the current entry.
func (l *Log) PatchTime(t int) {
	l.states[l.index].Time = t
}

// Entries returns a copy of every entry.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.states))
	for i, e := range l.states {
		out[i] = cloneEntry(e)
	}
	return out
}

// Equal reports structural equality of two game states; nil and empty lists compare equal.
func Equal(a, b match.GameState) bool {
	return cmp.Equal(a, b, stateEquality)
}

// Diff describes how two states differ; empty when equal.
func Diff(a, b match.GameState) string {
	return cmp.Diff(a, b, stateEquality)
}

type wireLog struct {
	States []Entry `json:"states"`
	Index  *int    `json:"index"`
}

// MarshalJSON encodes the log as {"states": [...], "index": n}.
func (l *Log) MarshalJSON() ([]byte, error) {
	idx := l.index
	return json.Marshal(wireLog{States: l.states, Index: &idx})
}

// UnmarshalJSON restores a log, rejecting empty logs and out-of-range cursors.
func (l *Log) UnmarshalJSON(data []byte) error {
	var w wireLog
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHistory, err)
	}
	if len(w.States) == 0 {
		return fmt.Errorf("%w: no states", ErrInvalidHistory)
	}
	if w.Index == nil {
		return fmt.Errorf("%w: missing index", ErrInvalidHistory)
	}
	if *w.Index < 0 || *w.Index >= len(w.States) {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidHistory, *w.Index)
	}
	for i := range w.States {
		if w.States[i].GameState.PeriodScores == nil {
			w.States[i].GameState.PeriodScores = []match.PeriodScore{}
		}
	}
	l.states = w.States
	l.index = *w.Index
	return nil
}

// Decode parses a stored log.
func Decode(data []byte) (*Log, error) {
	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		if errors.Is(err, ErrInvalidHistory) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidHistory, err)
	}
	return &l, nil
}

func cloneEntry(e Entry) Entry {
	return Entry{GameState: e.GameState.Clone(), Time: e.Time}
}
