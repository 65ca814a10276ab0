package handlers

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/session"
)

// State opens the match session and returns its snapshot.
func (h *Handler) State(w nethttp.ResponseWriter, r *nethttp.Request) {
	s, ok := h.openSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, nethttp.StatusOK, s.Snapshot(), h.logger)
}

// Action runs one operator command. Commands the rules reject still return 200 with
// accepted=false; malformed commands are 400.
func (h *Handler) Action(w nethttp.ResponseWriter, r *nethttp.Request) {
	var cmd session.Command
	if err := decodeBody(r, &cmd); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	s, ok := h.openSession(w, r)
	if !ok {
		return
	}
	res, err := s.Execute(r.Context(), cmd)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	logging.Debug(loggerFromContext(r, h.logger), "command executed",
		logging.FieldMatchID, s.MatchID(),
		logging.FieldAction, cmd.Type,
		"accepted", res.Accepted,
	)
	writeJSON(w, nethttp.StatusOK, res, h.logger)
}

// Live returns what the audience mirror should display.
func (h *Handler) Live(w nethttp.ResponseWriter, r *nethttp.Request) {
	entry, err := h.audience.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, entry, h.logger)
}

func (h *Handler) openSession(w nethttp.ResponseWriter, r *nethttp.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	m, err := h.catalog.GetMatch(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return nil, false
	}
	s, err := h.sessions.Open(r.Context(), id, m.Config)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return nil, false
	}
	return s, true
}
