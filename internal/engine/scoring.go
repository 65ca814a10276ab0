package engine

import (
	"fmt"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

// endOfPeriod closes the period in play. It is shared by clock expiry, manual finish and
// tie-break resolution.
func endOfPeriod(cfg match.Config, s match.GameState) match.GameState {
	if cfg.IsScoreMode() {
		return s
	}

	current := s.CurrentPeriodScore()
	if cfg.IsVolleyball() && current.A == current.B {
		s.Status = match.StatusTieBreak
		s.Message = ""
		return s
	}

	s.PeriodScores = append(s.PeriodScores, current)

	if cfg.IsVolleyball() {
		sets := match.DeriveSetScores(s.PeriodScores)
		s.SetScores = &sets
		if w := seriesWinner(cfg, sets); w != "" {
			return finish(s, w)
		}
	}

	if s.CurrentPeriod >= cfg.Periods {
		if cfg.IsVolleyball() {
			return finish(s, match.Leader(s.SetScores.A, s.SetScores.B))
		}
		return finish(s, match.Leader(s.TeamA.Score, s.TeamB.Score))
	}

	s.Status = match.StatusPeriodBreak
	s.Message = fmt.Sprintf(msgEndOfPeriod, cfg.PeriodLabel(), s.CurrentPeriod)
	return s
}

// checkVolleyballSet applies the score-mode set rule after every point: reach the
// target and lead by two.
func checkVolleyballSet(cfg match.Config, s match.GameState) match.GameState {
	if !cfg.IsScoreMode() || s.SetScores == nil {
		return s
	}

	target := cfg.PointsToWin()
	aWins := s.TeamA.Score >= target && s.TeamA.Score >= s.TeamB.Score+2
	bWins := s.TeamB.Score >= target && s.TeamB.Score >= s.TeamA.Score+2
	if !aWins && !bWins {
		return s
	}

	sets := *s.SetScores
	side := match.SideB
	if aWins {
		sets.A++
		side = match.SideA
	} else {
		sets.B++
	}
	s.SetScores = &sets
	s.PeriodScores = append(s.PeriodScores, match.PeriodScore{A: s.TeamA.Score, B: s.TeamB.Score})

	if w := seriesWinner(cfg, sets); w != "" {
		return finish(s, w)
	}

	name := s.TeamName(side)
	s.TeamA.Score = 0
	s.TeamB.Score = 0
	s.Status = match.StatusPeriodBreak
	s.Message = fmt.Sprintf(msgSetWinner, s.CurrentPeriod, name)
	return s
}

func seriesWinner(cfg match.Config, sets match.PeriodScore) match.Winner {
	need := cfg.SetsToWin()
	switch {
	case sets.A == need:
		return match.WinnerA
	case sets.B == need:
		return match.WinnerB
	}
	return ""
}

func finish(s match.GameState, w match.Winner) match.GameState {
	s.Status = match.StatusFinished
	s.Winner = w
	s.Message = winnerMessage(s, w)
	return s
}
