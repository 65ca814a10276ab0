package server

import (
	"log/slog"

	"github.com/preston-bernstein/scoreboard-service/internal/broadcast"
	"github.com/preston-bernstein/scoreboard-service/internal/config"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

const (
	hubBuffer     = 16
	natsQueueSize = 256
)

// broadcastComponents holds the local hub, the optional NATS link with its send queue and the
// publisher sessions write to.
type broadcastComponents struct {
	hub       *broadcast.Hub
	nats      *broadcast.NatsPublisher
	natsQueue *broadcast.Queue
	publisher broadcast.Publisher
}

var dialNats = broadcast.DialNats

// buildBroadcast always publishes to the in-process hub. With a NATS URL configured the
// publisher fans out to NATS too, through a queue so sessions never wait on the network; a failed
// dial keeps the service local-only.
func buildBroadcast(cfg config.BroadcastConfig, logger *slog.Logger, rec *metrics.Recorder) broadcastComponents {
	hub := broadcast.NewHub(hubBuffer, logger, rec)
	local := broadcast.Target{Name: "hub", Publisher: hub}
	if cfg.NatsURL == "" {
		return broadcastComponents{hub: hub, publisher: broadcast.NewFanout(rec, local)}
	}

	nc, err := dialNats(broadcast.NatsConfig{
		URL:           cfg.NatsURL,
		Subject:       cfg.Subject,
		MaxReconnects: cfg.MaxReconnects,
		ReconnectWait: cfg.ReconnectWait,
	}, logger)
	if err != nil {
		logging.Warn(logger, "nats unavailable, broadcasting in-process only", logging.FieldTransport, "nats", logging.FieldError, err)
		return broadcastComponents{hub: hub, publisher: broadcast.NewFanout(rec, local)}
	}
	logging.Info(logger, "nats broadcasting enabled", logging.FieldSubject, cfg.Subject)
	queue := broadcast.NewQueue("nats", nc, natsQueueSize, logger, rec)
	return broadcastComponents{
		hub:       hub,
		nats:      nc,
		natsQueue: queue,
		publisher: broadcast.NewFanout(rec, local, broadcast.Target{Name: "nats-queue", Publisher: queue}),
	}
}
