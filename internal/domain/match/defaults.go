package match

// SportDefaults are the values a new match of a sport starts from.
type SportDefaults struct {
	DurationMinutes int `json:"durationMinutes" yaml:"durationMinutes"`
	DurationSeconds int `json:"durationSeconds" yaml:"durationSeconds"`
	Periods         int `json:"periods" yaml:"periods"`
	TargetScore     int `json:"targetScore" yaml:"targetScore"`
}

// BuiltinSportDefaults returns a fresh copy of the stock per-sport defaults.
func BuiltinSportDefaults() map[Sport]SportDefaults {
	return map[Sport]SportDefaults{
		SportBasketball: {DurationMinutes: 12, Periods: 4, TargetScore: 21},
		SportSoccer:     {DurationMinutes: 45, Periods: 2, TargetScore: 10},
		SportVolleyball: {Periods: 5, TargetScore: defaultVolleyballPoints},
	}
}
