package handlers

import (
	nethttp "net/http"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
)

func (h *Handler) GetSettings(w nethttp.ResponseWriter, r *nethttp.Request) {
	st, err := h.catalog.Settings(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, st, h.logger)
}

// PutSettings stores the body merged over the defaults.
func (h *Handler) PutSettings(w nethttp.ResponseWriter, r *nethttp.Request) {
	var st catalog.Settings
	if err := decodeBody(r, &st); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	saved, err := h.catalog.UpdateSettings(r.Context(), st)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, saved, h.logger)
}
