package handlers

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
)

// ListTeams returns saved teams, narrowed to those offered for ?sport= when given.
func (h *Handler) ListTeams(w nethttp.ResponseWriter, r *nethttp.Request) {
	teams, err := h.catalog.ListTeams(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if sport := r.URL.Query().Get("sport"); sport != "" {
		offered := []catalog.SavedTeam{}
		for _, t := range teams {
			if t.MatchesSport(match.Sport(sport)) {
				offered = append(offered, t)
			}
		}
		teams = offered
	}
	writeJSON(w, nethttp.StatusOK, teams, h.logger)
}

// SaveTeam creates a team, or updates it when the body carries an existing id.
func (h *Handler) SaveTeam(w nethttp.ResponseWriter, r *nethttp.Request) {
	var team catalog.SavedTeam
	if err := decodeBody(r, &team); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	status := nethttp.StatusOK
	if team.ID == "" {
		status = nethttp.StatusCreated
	}
	saved, err := h.catalog.SaveTeam(r.Context(), team)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, status, saved, h.logger)
}

func (h *Handler) DeleteTeam(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := h.catalog.DeleteTeam(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}
