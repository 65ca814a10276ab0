package handlers

import (
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/audience"
	"github.com/preston-bernstein/scoreboard-service/internal/broadcast"
	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/session"
)

type nowFunc func() time.Time

// Deps are the services behind the HTTP surface.
type Deps struct {
	Catalog  *catalog.Service
	Sessions *session.Manager
	Audience *audience.Resolver
	Streams  broadcast.Subscriber
	Logger   *slog.Logger
	// AdminToken guards destructive endpoints; empty disables them.
	AdminToken string
	// AllowedOrigins limits websocket upgrades; "*" allows any origin.
	AllowedOrigins []string
	// Ready reports a dependency that is not ready for traffic.
	Ready func() error
}

// Handler wires HTTP routes to the scoreboard services.
type Handler struct {
	catalog    *catalog.Service
	sessions   *session.Manager
	audience   *audience.Resolver
	streams    broadcast.Subscriber
	logger     *slog.Logger
	adminToken string
	readyFn    func() error
	stream     streamConfig
	now        nowFunc
}

// NewHandler constructs a Handler with defaults.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		catalog:    deps.Catalog,
		sessions:   deps.Sessions,
		audience:   deps.Audience,
		streams:    deps.Streams,
		logger:     deps.Logger,
		adminToken: deps.AdminToken,
		readyFn:    deps.Ready,
		stream:     defaultStreamConfig(deps.AllowedOrigins),
		now:        time.Now,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.readyFn != nil {
		if err := h.readyFn(); err != nil {
			writeError(w, r, nethttp.StatusServiceUnavailable, err.Error(), h.logger)
			return
		}
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
