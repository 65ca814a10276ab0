// Package analytics derives dashboards and history views from finished catalog matches.
package analytics

import (
	"sort"
	"strings"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

// DefaultTopN is the leaderboard length when none is requested.
const DefaultTopN = 5

// Record points at the match holding a record and the value it set.
type Record struct {
	Match catalog.Match `json:"match"`
	Value int           `json:"value"`
}

// KPIs are the headline numbers.
type KPIs struct {
	TotalMatches    int                 `json:"totalMatches"`
	SportCounts     map[match.Sport]int `json:"sportCounts"`
	MostPlayedSport string              `json:"mostPlayedSport"`
	HighestScoring  *Record             `json:"highestScoring,omitempty"`
	MostDecisive    *Record             `json:"mostDecisive,omitempty"`
}

// SportRecords holds the per-sport highest scoring game and most decisive victory.
type SportRecords struct {
	HighestScoring map[match.Sport]*Record `json:"highestScoring"`
	MostDecisive   map[match.Sport]*Record `json:"mostDecisive"`
}

// Breakdown splits per-sport records by game mode.
type Breakdown struct {
	All   SportRecords `json:"all"`
	Time  SportRecords `json:"time"`
	Score SportRecords `json:"score"`
}

// TeamStat is one leaderboard row, keyed by team name.
type TeamStat struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Ties       int     `json:"ties"`
	TotalGames int     `json:"totalGames"`
	WinRate    float64 `json:"winRate"`
}

// Leaderboards ranks teams over all, time-based and score-based matches.
type Leaderboards struct {
	All   []TeamStat `json:"all"`
	Time  []TeamStat `json:"time"`
	Score []TeamStat `json:"score"`
}

// Report is the full analytics view.
type Report struct {
	KPIs         KPIs         `json:"kpis"`
	Breakdown    Breakdown    `json:"breakdown"`
	Leaderboards Leaderboards `json:"leaderboards"`
}

// Options narrow a report.
type Options struct {
	// Sport limits the KPI records and leaderboards; empty or "All" keeps every sport.
	Sport string
	TopN  int
}

// Finished keeps matches that finished with both scores recorded.
func Finished(matches []catalog.Match) []catalog.Match {
	out := []catalog.Match{}
	for _, m := range matches {
		if m.HasFinalScore() {
			out = append(out, m)
		}
	}
	return out
}

// Build computes the report. Sport counts always cover every sport.
func Build(matches []catalog.Match, opts Options) Report {
	all := Finished(matches)
	selected := all
	if opts.Sport != "" && opts.Sport != catalog.CategoryAll {
		selected = bySport(all, match.Sport(opts.Sport))
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	counts := sportCounts(all)
	return Report{
		KPIs: KPIs{
			TotalMatches:    len(all),
			SportCounts:     counts,
			MostPlayedSport: mostPlayed(counts),
			HighestScoring:  best(selected, total),
			MostDecisive:    best(selected, margin),
		},
		Breakdown: Breakdown{
			All:   records(all),
			Time:  records(byMode(all, match.ModeTime)),
			Score: records(byMode(all, match.ModeScore)),
		},
		Leaderboards: Leaderboards{
			All:   top(leaderboard(selected), topN),
			Time:  top(leaderboard(byMode(selected, match.ModeTime)), topN),
			Score: top(leaderboard(byMode(selected, match.ModeScore)), topN),
		},
	}
}

func total(m catalog.Match) int {
	a, b := m.Scores()
	return a + b
}

func margin(m catalog.Match) int {
	a, b := m.Scores()
	if a > b {
		return a - b
	}
	return b - a
}

// best returns the first match with the strictly greatest positive value.
func best(matches []catalog.Match, value func(catalog.Match) int) *Record {
	var rec *Record
	max := 0
	for _, m := range matches {
		if v := value(m); v > max {
			max = v
			rec = &Record{Match: m, Value: v}
		}
	}
	return rec
}

// records seeds each sport with its first match so every played sport has an entry.
func records(matches []catalog.Match) SportRecords {
	out := SportRecords{
		HighestScoring: make(map[match.Sport]*Record),
		MostDecisive:   make(map[match.Sport]*Record),
	}
	for _, sport := range match.Sports {
		ms := bySport(matches, sport)
		if len(ms) == 0 {
			continue
		}
		out.HighestScoring[sport] = seeded(ms, total)
		out.MostDecisive[sport] = seeded(ms, margin)
	}
	return out
}

func seeded(matches []catalog.Match, value func(catalog.Match) int) *Record {
	rec := &Record{Match: matches[0], Value: value(matches[0])}
	for _, m := range matches[1:] {
		if v := value(m); v > rec.Value {
			rec = &Record{Match: m, Value: v}
		}
	}
	return rec
}

func sportCounts(matches []catalog.Match) map[match.Sport]int {
	counts := make(map[match.Sport]int)
	for _, m := range matches {
		counts[m.Sport]++
	}
	return counts
}

// mostPlayed joins every sport tied for the highest count, in display order.
func mostPlayed(counts map[match.Sport]int) string {
	if len(counts) == 0 {
		return "N/A"
	}
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	var names []string
	for _, sport := range match.Sports {
		if counts[sport] == max {
			names = append(names, string(sport))
		}
	}
	return strings.Join(names, ", ")
}

func leaderboard(matches []catalog.Match) []TeamStat {
	stats := make(map[string]*TeamStat)
	var order []string
	tally := func(team match.TeamConfig, own, other int) {
		st, ok := stats[team.Name]
		if !ok {
			st = &TeamStat{Name: team.Name, Color: team.Color}
			stats[team.Name] = st
			order = append(order, team.Name)
		}
		st.TotalGames++
		switch {
		case own > other:
			st.Wins++
		case own < other:
			st.Losses++
		default:
			st.Ties++
		}
	}
	for _, m := range matches {
		a, b := m.Scores()
		tally(m.TeamA, a, b)
		tally(m.TeamB, b, a)
	}

	out := make([]TeamStat, 0, len(order))
	for _, name := range order {
		st := *stats[name]
		if st.TotalGames > 0 {
			st.WinRate = float64(st.Wins) / float64(st.TotalGames) * 100
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].WinRate > out[j].WinRate
	})
	return out
}

func top(stats []TeamStat, n int) []TeamStat {
	if len(stats) > n {
		return stats[:n]
	}
	return stats
}

func bySport(matches []catalog.Match, sport match.Sport) []catalog.Match {
	out := []catalog.Match{}
	for _, m := range matches {
		if m.Sport == sport {
			out = append(out, m)
		}
	}
	return out
}

func byMode(matches []catalog.Match, mode match.GameMode) []catalog.Match {
	out := []catalog.Match{}
	for _, m := range matches {
		if m.Mode() == mode {
			out = append(out, m)
		}
	}
	return out
}
