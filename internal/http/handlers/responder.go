package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/engine"
	"github.com/preston-bernstein/scoreboard-service/internal/http/middleware"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/session"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeServiceError maps service errors to status codes. Unexpected errors are logged and
// reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, catalog.ErrMatchNotFound), errors.Is(err, catalog.ErrTeamNotFound):
		writeError(w, r, http.StatusNotFound, err.Error(), logger)
	case errors.Is(err, errInvalidBody),
		errors.Is(err, match.ErrInvalidConfig),
		errors.Is(err, catalog.ErrInvalidTeam),
		errors.Is(err, catalog.ErrInvalidSettings),
		errors.Is(err, catalog.ErrInvalidBackup),
		errors.Is(err, engine.ErrInvalidAction),
		errors.Is(err, session.ErrUnknownAction),
		errors.Is(err, storage.ErrInvalidKey):
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
	default:
		logging.Error(loggerFromContext(r, logger), "request failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal error", logger)
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
