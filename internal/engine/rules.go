package engine

import (
	"fmt"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

const (
	msgSetNeedsWinner  = "A set must have a winner. Please add a point to break the tie."
	msgFinalSetNoTie   = "Final set cannot end in a tie. A winner must be decided."
	msgMatchOver       = "Match Over"
	msgMatchOverTie    = "Match Over - It's a Tie!"
	msgMatchOverWinner = "Match Over - %s Wins!"
	msgEndOfPeriod     = "End of %s %d"
	msgSetWinner       = "Set %d Winner: %s"
)

func withoutNotification(s match.GameState) match.GameState {
	s.Notification = nil
	return s
}

func notify(s match.GameState, msg string) match.GameState {
	s.Notification = &match.Notification{Message: msg}
	return s
}

func startClock(t transition) Result {
	s := withoutNotification(t.state)
	s.Status = match.StatusInProgress
	s.PauseReason = ""
	if t.cfg.IsScoreMode() {
		return accept(s)
	}
	return accept(s, clockStart())
}

func pauseClock(t transition) Result {
	s := withoutNotification(t.state)
	s.Status = match.StatusPaused
	if t.cfg.IsScoreMode() {
		return accept(s)
	}
	return accept(s, clockPause())
}

// A tie-break only resolves on points, so the clock can run or stop without leaving it.
func resumeTieBreak(t transition) Result {
	s := withoutNotification(t.state)
	s.PauseReason = ""
	if t.cfg.IsScoreMode() {
		return accept(s)
	}
	return accept(s, clockStart())
}

func pauseTieBreak(t transition) Result {
	s := withoutNotification(t.state)
	if t.cfg.IsScoreMode() {
		return accept(s)
	}
	return accept(s, clockPause())
}

func setPauseReason(t transition) Result {
	s := withoutNotification(t.state)
	s.PauseReason = t.action.Reason
	return accept(s, scheduleReasonClear())
}

func clearPauseReason(t transition) Result {
	s := t.state
	s.PauseReason = ""
	return accept(s)
}

func clearNotificationRule(t transition) Result {
	return accept(withoutNotification(t.state))
}

func updateScore(t transition) Result {
	cfg := t.cfg
	s := withoutNotification(t.state)

	if s.Status == match.StatusTieBreak && cfg.IsVolleyball() && !cfg.IsScoreMode() {
		s = addPoints(s, t.action.Side, t.action.Delta)
		s.Message = ""
		current := s.CurrentPeriodScore()
		if abs(current.A-current.B) >= 2 {
			return accept(endOfPeriod(cfg, s))
		}
		return accept(s)
	}

	s = addPoints(s, t.action.Side, t.action.Delta)

	// For volleyball the target is the set point, handled by checkVolleyballSet.
	if cfg.IsScoreMode() && !cfg.IsVolleyball() && cfg.TargetScore > 0 {
		if s.TeamA.Score >= cfg.TargetScore || s.TeamB.Score >= cfg.TargetScore {
			winner := match.WinnerB
			if s.TeamA.Score >= cfg.TargetScore {
				winner = match.WinnerA
			}
			s.Status = match.StatusFinished
			s.Winner = winner
			s.Message = winnerMessage(s, winner)
			s.PeriodScores = append(s.PeriodScores, match.PeriodScore{A: s.TeamA.Score, B: s.TeamB.Score})
			return accept(s)
		}
	}

	if cfg.IsVolleyball() {
		return accept(checkVolleyballSet(cfg, s))
	}
	return accept(s)
}

func startNextPeriod(t transition) Result {
	cfg := t.cfg
	prev := t.state
	if cfg.IsScoreMode() {
		return reject(prev)
	}
	if prev.Status != match.StatusPeriodBreak && prev.Status != match.StatusNotStarted {
		return reject(prev)
	}

	first := prev.Status == match.StatusNotStarted
	next := prev.CurrentPeriod
	if !first {
		next++
	}

	s := withoutNotification(prev)
	if next > cfg.Periods {
		s.Status = match.StatusFinished
		s.Message = msgMatchOver
		return accept(s)
	}

	var effects []Effect
	switch {
	case cfg.IsVolleyball():
		effects = append(effects, clockReset(0))
	case !first:
		effects = append(effects, clockReset(cfg.InitialTime()))
	}
	effects = append(effects, clockStart())

	s.CurrentPeriod = next
	s.Status = match.StatusInProgress
	s.Message = ""
	return accept(s, effects...)
}

func goToNextPeriod(t transition) Result {
	cfg := t.cfg
	prev := t.state
	if t.running || cfg.IsScoreMode() || prev.CurrentPeriod >= cfg.Periods {
		return reject(prev)
	}

	before := match.SumPeriods(recorded(prev.PeriodScores, prev.CurrentPeriod-1))
	current := match.PeriodScore{A: prev.TeamA.Score - before.A, B: prev.TeamB.Score - before.B}

	if cfg.IsVolleyball() && current.A == current.B {
		return accept(notify(prev, msgSetNeedsWinner))
	}

	s := withoutNotification(prev)
	s.PeriodScores = placePeriod(s.PeriodScores, prev.CurrentPeriod-1, current)
	s.CurrentPeriod = prev.CurrentPeriod + 1

	if cfg.IsVolleyball() {
		sets := match.DeriveSetScores(s.PeriodScores)
		s.SetScores = &sets
		return accept(s, clockReset(0))
	}
	return accept(s, clockReset(cfg.InitialTime()))
}

func goToPreviousPeriod(t transition) Result {
	cfg := t.cfg
	prev := t.state
	if t.running || cfg.IsScoreMode() || prev.CurrentPeriod <= 1 {
		return reject(prev)
	}

	s := withoutNotification(prev)
	// Periods from the one being reopened onward are no longer complete.
	s.PeriodScores = append([]match.PeriodScore{}, recorded(prev.PeriodScores, prev.CurrentPeriod-2)...)
	s.CurrentPeriod = prev.CurrentPeriod - 1

	if cfg.IsVolleyball() {
		sets := match.DeriveSetScores(s.PeriodScores)
		s.SetScores = &sets
		return accept(s, clockReset(0))
	}
	return accept(s, clockReset(cfg.InitialTime()))
}

func finishMatchManually(t transition) Result {
	cfg := t.cfg
	prev := t.state
	if cfg.IsScoreMode() {
		return reject(prev)
	}

	if cfg.IsVolleyball() && prev.CurrentPeriod == cfg.Periods && setsLevel(prev) {
		current := prev.CurrentPeriodScore()
		if current.A == current.B {
			return accept(notify(prev, msgFinalSetNoTie), clockPause())
		}
	}
	return accept(endOfPeriod(cfg, withoutNotification(prev)), clockPause())
}

func timeExpired(t transition) Result {
	if t.cfg.IsStopwatch() || t.cfg.IsScoreMode() {
		return reject(t.state)
	}
	return accept(endOfPeriod(t.cfg, t.state))
}

func addPoints(s match.GameState, side match.Side, delta int) match.GameState {
	if side == match.SideB {
		s.TeamB.Score = clampScore(s.TeamB.Score + delta)
		return s
	}
	s.TeamA.Score = clampScore(s.TeamA.Score + delta)
	return s
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func setsLevel(s match.GameState) bool {
	if s.SetScores == nil {
		return true
	}
	return s.SetScores.A == s.SetScores.B
}

// recorded returns at most n leading period scores.
func recorded(periods []match.PeriodScore, n int) []match.PeriodScore {
	if n <= 0 {
		return nil
	}
	if n > len(periods) {
		return periods
	}
	return periods[:n]
}

// placePeriod writes score at idx, padding with empty periods if the list is short.
func placePeriod(periods []match.PeriodScore, idx int, score match.PeriodScore) []match.PeriodScore {
	out := append([]match.PeriodScore{}, periods...)
	for len(out) <= idx {
		out = append(out, match.PeriodScore{})
	}
	out[idx] = score
	return out
}

func winnerMessage(s match.GameState, w match.Winner) string {
	if w == match.WinnerTie {
		return msgMatchOverTie
	}
	return fmt.Sprintf(msgMatchOverWinner, s.TeamName(match.Side(w)))
}
