package handlers

import (
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/analytics"
)

// Analytics returns KPIs, per-sport records and leaderboards. ?sport= narrows records and
// leaderboards; ?top= sets the leaderboard length.
func (h *Handler) Analytics(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	opts := analytics.Options{Sport: q.Get("sport")}
	if raw := q.Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, nethttp.StatusBadRequest, "invalid top (expected positive integer)", h.logger)
			return
		}
		opts.TopN = n
	}
	matches, err := h.catalog.ListMatches(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, analytics.Build(matches, opts), h.logger)
}

// History lists finished matches newest first. Dates are YYYY-MM-DD, inclusive, in ?tz= (UTC
// by default).
func (h *Handler) History(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	filter := analytics.HistoryFilter{
		Sport: q.Get("sport"),
		Query: q.Get("q"),
		From:  q.Get("from"),
		To:    q.Get("to"),
	}
	if tz := q.Get("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			writeError(w, r, nethttp.StatusBadRequest, "invalid timezone", h.logger)
			return
		}
		filter.Location = loc
	}
	matches, err := h.catalog.ListMatches(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	out, err := analytics.History(matches, filter)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, out, h.logger)
}
