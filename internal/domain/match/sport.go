package match

// Sport identifies the rule set a match is played under.
type Sport string

const (
	SportBasketball Sport = "Basketball"
	SportSoccer     Sport = "Soccer"
	SportVolleyball Sport = "Volleyball"
)

// Sports lists every supported sport in display order.
var Sports = []Sport{SportBasketball, SportSoccer, SportVolleyball}

// Valid reports whether the sport is one of the supported values.
func (s Sport) Valid() bool {
	switch s {
	case SportBasketball, SportSoccer, SportVolleyball:
		return true
	}
	return false
}

// GameMode selects whether a match ends on the clock or on a target score.
type GameMode string

const (
	ModeTime  GameMode = "time"
	ModeScore GameMode = "score"
)

// Status is the lifecycle state of a running match.
type Status string

const (
	StatusNotStarted  Status = "NOT_STARTED"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusPaused      Status = "PAUSED"
	StatusPeriodBreak Status = "PERIOD_BREAK"
	StatusTieBreak    Status = "TIE_BREAK"
	StatusFinished    Status = "FINISHED"
)

// PauseReason is a short-lived banner shown while play is stopped.
type PauseReason string

const (
	PauseTimeout   PauseReason = "Timeout"
	PauseFoul      PauseReason = "Foul"
	PauseViolation PauseReason = "Violation"
	PauseChallenge PauseReason = "Challenge"
)

// Valid reports whether the reason is a known value.
func (r PauseReason) Valid() bool {
	switch r {
	case PauseTimeout, PauseFoul, PauseViolation, PauseChallenge:
		return true
	}
	return false
}

// Side addresses one of the two teams.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Valid reports whether the side is A or B.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Winner is set once a match is finished.
type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "TIE"
)
