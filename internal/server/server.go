package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/scoreboard-service/internal/audience"
	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/config"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	httpserver "github.com/preston-bernstein/scoreboard-service/internal/http"
	"github.com/preston-bernstein/scoreboard-service/internal/http/handlers"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/session"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

// Server owns the long-lived components of the process and their shutdown order.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         storage.DurableStore
	broadcast     broadcastComponents
	catalog       *catalog.Service
	sessions      *session.Manager
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error

	relayStop    func()
	shutdownOnce sync.Once
}

// New opens the store and wires every service behind the HTTP router. Only a store that
// cannot be opened is fatal; telemetry and NATS degrade with a warning.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	}
	rec, metricsSrv, metricsStop := buildMetrics(cfg, logger)

	store, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		if metricsStop != nil {
			_ = metricsStop(ctx)
		}
		return nil, fmt.Errorf("open store: %w", err)
	}

	defaults, err := config.LoadSportDefaults(cfg.SportDefaultsFile)
	if err != nil {
		logging.Warn(logger, "using built-in sport defaults", logging.FieldPath, cfg.SportDefaultsFile, logging.FieldError, err)
	}

	bc := buildBroadcast(cfg.Broadcast, logger, rec)
	cat := catalog.New(store, catalog.WithLogger(logger), catalog.WithSportDefaults(defaults))
	sessions := session.NewManager(session.Deps{
		Store:     store,
		Publisher: bc.publisher,
		Logger:    logger,
		Metrics:   rec,
		Driver:    driverLabel(cfg.Storage.Driver),
		OnChange:  syncCatalog(cat, logger),
	})

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       rec,
		store:         store,
		broadcast:     bc,
		catalog:       cat,
		sessions:      sessions,
		metricsServer: metricsSrv,
		metricsStop:   metricsStop,
	}

	h := handlers.NewHandler(handlers.Deps{
		Catalog:        cat,
		Sessions:       sessions,
		Audience:       audience.NewResolver(cat, store, sessions, logger),
		Streams:        bc.hub,
		Logger:         logger,
		AdminToken:     cfg.AdminToken,
		AllowedOrigins: cfg.AllowedOrigins,
		Ready:          s.ready,
	})
	router := httpserver.NewRouter(h, httpserver.RouterConfig{
		Logger:         logger,
		Metrics:        rec,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	s.httpServer = newHTTPServer(cfg.Port, router)
	return s, nil
}

// syncCatalog mirrors every recorded session change into the match list.
func syncCatalog(cat *catalog.Service, logger *slog.Logger) func(context.Context, string, match.GameState) {
	return func(ctx context.Context, matchID string, state match.GameState) {
		if _, err := cat.SyncStatus(ctx, matchID, state); err != nil && !errors.Is(err, catalog.ErrMatchNotFound) {
			logging.Warn(logger, "failed to sync match status", logging.FieldMatchID, matchID, logging.FieldError, err)
		}
	}
}

func driverLabel(driver string) string {
	if driver == "" {
		return config.DriverMemory
	}
	return driver
}

// Run serves HTTP (and metrics when enabled) until ctx is cancelled or the HTTP server fails,
// then shuts everything down.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if nc := s.broadcast.nats; nc != nil {
		stop, err := nc.Relay(gctx, s.broadcast.hub)
		if err != nil {
			logging.Warn(s.logger, "nats relay unavailable", logging.FieldTransport, "nats", logging.FieldError, err)
		} else {
			s.relayStop = stop
		}
	}

	g.Go(func() error {
		return serve("http", s.httpServer, s.logger)
	})
	if s.metricsServer != nil {
		g.Go(func() error {
			// A metrics listener failure never takes the service down.
			_ = serve("metrics", s.metricsServer, s.logger)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logging.Info(s.logger, "shutdown signal received")
		}
		s.shutdown()
		return nil
	})

	return g.Wait()
}

func (s *Server) shutdown() {
	s.shutdownOnce.Do(s.gracefulShutdown)
}

func (s *Server) gracefulShutdown() {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", logging.FieldError, err)
		}
	}

	if s.relayStop != nil {
		s.relayStop()
	}
	s.sessions.CloseAll()
	s.broadcast.hub.Close()
	if s.broadcast.natsQueue != nil {
		s.broadcast.natsQueue.Close()
	}
	if s.broadcast.nats != nil {
		if err := s.broadcast.nats.Close(); err != nil {
			logging.Warn(s.logger, "nats close failed", logging.FieldError, err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(ctx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", logging.FieldError, err)
		}
	}
	if err := s.store.Close(); err != nil {
		logging.Warn(s.logger, "store close failed", logging.FieldDriver, s.cfg.Storage.Driver, logging.FieldError, err)
	}

	logging.Info(s.logger, "shutdown complete")
}

// ready fails while the database or NATS link is down.
func (s *Server) ready() error {
	if p, ok := s.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("store unavailable: %w", err)
		}
	}
	if s.broadcast.nats != nil {
		return s.broadcast.nats.Ready()
	}
	return nil
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
