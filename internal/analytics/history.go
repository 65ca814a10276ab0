package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/timeutil"
)

// HistoryFilter narrows the finished-match history. From and To are YYYY-MM-DD dates,
// inclusive, interpreted in Location (UTC when nil).
type HistoryFilter struct {
	Sport    string
	Query    string
	From     string
	To       string
	Location *time.Location
}

// History returns finished matches, newest first, that pass the filter.
func History(matches []catalog.Match, f HistoryFilter) ([]catalog.Match, error) {
	var from, to time.Time
	var err error
	if f.From != "" {
		if from, err = timeutil.StartOfDay(f.From, f.Location); err != nil {
			return nil, fmt.Errorf("invalid from date: %w", err)
		}
	}
	if f.To != "" {
		if to, err = timeutil.EndOfDay(f.To, f.Location); err != nil {
			return nil, fmt.Errorf("invalid to date: %w", err)
		}
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := []catalog.Match{}
	for _, m := range matches {
		if m.Status != catalog.StatusFinished {
			continue
		}
		if f.Sport != "" && f.Sport != catalog.CategoryAll && m.Sport != match.Sport(f.Sport) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(m.TeamA.Name), query) &&
			!strings.Contains(strings.ToLower(m.TeamB.Name), query) {
			continue
		}
		if created, ok := catalog.DateFromID(m.ID); ok {
			if !from.IsZero() && created.Before(from) {
				continue
			}
			if !to.IsZero() && created.After(to) {
				continue
			}
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return createdMillis(out[i]) > createdMillis(out[j])
	})
	return out, nil
}

func createdMillis(m catalog.Match) int64 {
	if t, ok := catalog.DateFromID(m.ID); ok {
		return t.UnixMilli()
	}
	return 0
}
