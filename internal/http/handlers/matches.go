package handlers

import (
	"context"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
)

// ListMatches returns the dashboard view selected by ?view=, ?category= and ?q=.
func (h *Handler) ListMatches(w nethttp.ResponseWriter, r *nethttp.Request) {
	matches, err := h.catalog.ListMatches(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	q := r.URL.Query()
	filtered := catalog.Filter(matches, catalog.DashboardFilter{
		View:     q.Get("view"),
		Category: q.Get("category"),
		Query:    q.Get("q"),
	})
	writeJSON(w, nethttp.StatusOK, filtered, h.logger)
}

// CreateMatch adds a match from a configuration body.
func (h *Handler) CreateMatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	var cfg match.Config
	if err := decodeBody(r, &cfg); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	m, err := h.catalog.CreateMatch(r.Context(), cfg)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "match created", logging.FieldMatchID, m.ID)
	writeJSON(w, nethttp.StatusCreated, m, h.logger)
}

func (h *Handler) GetMatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	m, err := h.catalog.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, m, h.logger)
}

// UpdateConfig replaces a match configuration. An open session restarts under the new one.
func (h *Handler) UpdateConfig(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := chi.URLParam(r, "id")
	var cfg match.Config
	if err := decodeBody(r, &cfg); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	m, err := h.catalog.UpdateConfig(r.Context(), id, cfg)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if s, ok := h.sessions.Get(id); ok {
		if _, err := s.Reseed(r.Context(), m.Config); err != nil {
			writeServiceError(w, r, err, h.logger)
			return
		}
	}
	writeJSON(w, nethttp.StatusOK, m, h.logger)
}

// DeleteMatch removes the match, its stored history and any open session.
func (h *Handler) DeleteMatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteMatch(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	h.sessions.Close(id)
	w.WriteHeader(nethttp.StatusNoContent)
}

func (h *Handler) Archive(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.updateMatch(w, r, func(ctx context.Context, id string) (catalog.Match, error) {
		return h.catalog.SetArchived(ctx, id, true)
	})
}

func (h *Handler) Unarchive(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.updateMatch(w, r, func(ctx context.Context, id string) (catalog.Match, error) {
		return h.catalog.SetArchived(ctx, id, false)
	})
}

// ToggleCompleted flips the manual completed flag.
func (h *Handler) ToggleCompleted(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.updateMatch(w, r, h.catalog.ToggleCompleted)
}

func (h *Handler) updateMatch(w nethttp.ResponseWriter, r *nethttp.Request, fn func(context.Context, string) (catalog.Match, error)) {
	m, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, m, h.logger)
}
