package match

// Team is one side of a running match.
type Team struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Color string `json:"color"`
}

// PeriodScore holds points (or set wins) for each side.
type PeriodScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Notification is a transient warning for the operator.
type Notification struct {
	Message string `json:"message"`
}

// GameState is the full snapshot of a match at one point in time.
// SetScores is only present for volleyball and is always derivable from PeriodScores.
type GameState struct {
	TeamA         Team          `json:"teamA"`
	TeamB         Team          `json:"teamB"`
	CurrentPeriod int           `json:"currentPeriod"`
	PauseReason   PauseReason   `json:"pauseReason,omitempty"`
	Status        Status        `json:"status"`
	SetScores     *PeriodScore  `json:"setScores,omitempty"`
	Winner        Winner        `json:"winner,omitempty"`
	Message       string        `json:"message,omitempty"`
	PeriodScores  []PeriodScore `json:"periodScores"`
	Notification  *Notification `json:"notification,omitempty"`
}

// NewGameState seeds a fresh, unstarted match from its configuration.
func NewGameState(cfg Config) GameState {
	state := GameState{
		TeamA:         Team{Name: cfg.TeamA.Name, Color: cfg.TeamA.Color},
		TeamB:         Team{Name: cfg.TeamB.Name, Color: cfg.TeamB.Color},
		CurrentPeriod: 1,
		Status:        StatusNotStarted,
		PeriodScores:  []PeriodScore{},
	}
	if cfg.IsVolleyball() {
		state.SetScores = &PeriodScore{}
	}
	return state
}

// Clone returns a deep copy so callers can mutate without aliasing history entries.
func (s GameState) Clone() GameState {
	out := s
	out.PeriodScores = append([]PeriodScore(nil), s.PeriodScores...)
	if out.PeriodScores == nil {
		out.PeriodScores = []PeriodScore{}
	}
	if s.SetScores != nil {
		sets := *s.SetScores
		out.SetScores = &sets
	}
	if s.Notification != nil {
		n := *s.Notification
		out.Notification = &n
	}
	return out
}

// Score returns the cumulative score for a side.
func (s GameState) Score(side Side) int {
	if side == SideB {
		return s.TeamB.Score
	}
	return s.TeamA.Score
}

// TeamName returns the display name for a side.
func (s GameState) TeamName(side Side) string {
	if side == SideB {
		return s.TeamB.Name
	}
	return s.TeamA.Name
}

// RecordedTotals sums every completed period.
func (s GameState) RecordedTotals() PeriodScore {
	return SumPeriods(s.PeriodScores)
}

// CurrentPeriodScore is the score of the period in play: cumulative minus recorded.
func (s GameState) CurrentPeriodScore() PeriodScore {
	done := s.RecordedTotals()
	return PeriodScore{A: s.TeamA.Score - done.A, B: s.TeamB.Score - done.B}
}

// SumPeriods adds up a list of period scores.
func SumPeriods(periods []PeriodScore) PeriodScore {
	var total PeriodScore
	for _, p := range periods {
		total.A += p.A
		total.B += p.B
	}
	return total
}

// DeriveSetScores counts the periods each side won. Level periods count for neither.
func DeriveSetScores(periods []PeriodScore) PeriodScore {
	var sets PeriodScore
	for _, p := range periods {
		switch {
		case p.A > p.B:
			sets.A++
		case p.B > p.A:
			sets.B++
		}
	}
	return sets
}

// Leader compares two totals.
func Leader(a, b int) Winner {
	switch {
	case a > b:
		return WinnerA
	case b > a:
		return WinnerB
	default:
		return WinnerTie
	}
}
