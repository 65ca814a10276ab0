package handlers

import (
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/http/requestutil"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/timeutil"
)

// ExportBackup downloads matches, saved teams and settings as one JSON document.
func (h *Handler) ExportBackup(w nethttp.ResponseWriter, r *nethttp.Request) {
	b, err := h.catalog.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	filename := fmt.Sprintf("scoreboard-backup-%s.json", timeutil.FormatDate(h.now()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, nethttp.StatusOK, b, h.logger)
}

// ImportBackup replaces the catalog with an exported document. Open sessions are closed so the
// next request reopens them under the imported configuration.
func (h *Handler) ImportBackup(w nethttp.ResponseWriter, r *nethttp.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "could not read body", h.logger)
		return
	}
	b, err := catalog.DecodeBackup(raw)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if err := h.catalog.Import(r.Context(), b); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	h.sessions.CloseAll()
	logging.Info(loggerFromContext(r, h.logger), "backup imported",
		logging.FieldCount, len(b.Matches),
		"teams", len(b.SavedTeams),
	)
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status":     "ok",
		"matches":    len(b.Matches),
		"savedTeams": len(b.SavedTeams),
	}, h.logger)
}

// ClearBackup deletes matches, saved teams and settings. Guarded by the admin token; returns 401
// if missing or invalid.
func (h *Handler) ClearBackup(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, nethttp.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if err := h.catalog.Clear(r.Context()); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	h.sessions.CloseAll()
	logging.Info(loggerFromContext(r, h.logger), "catalog cleared")
	w.WriteHeader(nethttp.StatusNoContent)
}

func (h *Handler) authorize(r *nethttp.Request) bool {
	if h.adminToken == "" {
		return false
	}
	token := requestutil.BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) == 1
}
