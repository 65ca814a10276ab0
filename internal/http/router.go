package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/preston-bernstein/scoreboard-service/internal/http/handlers"
	"github.com/preston-bernstein/scoreboard-service/internal/http/middleware"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

// RouterConfig carries the cross-cutting pieces of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	AllowedOrigins []string
}

// NewRouter registers every route behind recovery, CORS and request logging.
func NewRouter(h *handlers.Handler, cfg RouterConfig) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodPut,
			nethttp.MethodPatch, nethttp.MethodDelete, nethttp.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
	}).Handler)
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/matches", func(r chi.Router) {
		r.Get("/", h.ListMatches)
		r.Post("/", h.CreateMatch)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetMatch)
			r.Delete("/", h.DeleteMatch)
			r.Patch("/config", h.UpdateConfig)
			r.Post("/archive", h.Archive)
			r.Post("/unarchive", h.Unarchive)
			r.Post("/complete", h.ToggleCompleted)
			r.Get("/state", h.State)
			r.Post("/actions", h.Action)
			r.Get("/live", h.Live)
			r.Get("/stream", h.Stream)
		})
	})

	r.Get("/teams", h.ListTeams)
	r.Post("/teams", h.SaveTeam)
	r.Delete("/teams/{id}", h.DeleteTeam)

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.PutSettings)

	r.Get("/backup", h.ExportBackup)
	r.Post("/backup", h.ImportBackup)
	r.Delete("/backup", h.ClearBackup)

	r.Get("/analytics", h.Analytics)
	r.Get("/history", h.History)
	return r
}
