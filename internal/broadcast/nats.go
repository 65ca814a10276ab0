package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/preston-bernstein/scoreboard-service/internal/logging"
)

// ErrDisconnected is reported by Ready while the NATS connection is down.
var ErrDisconnected = errors.New("nats disconnected")

const (
	headerOrigin      = "Scoreboard-Origin"
	headerMatchID     = "Scoreboard-Match"
	defaultMaxRetries = 3
)

// NatsConfig locates the NATS server and subject.
type NatsConfig struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// natsConn is the slice of *nats.Conn the publisher needs.
type natsConn interface {
	PublishMsg(m *nats.Msg) error
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
	Drain() error
	IsConnected() bool
}

// NatsPublisher sends messages to a NATS subject and can relay messages published by other
// processes into a local Publisher. Each process tags its messages with a random origin so the
// relay skips its own.
type NatsPublisher struct {
	conn       natsConn
	subject    string
	origin     string
	logger     *slog.Logger
	newBackOff func() backoff.BackOff
}

// DialNats connects to NATS using the reconnect settings from cfg.
func DialNats(cfg NatsConfig, logger *slog.Logger) (*NatsPublisher, error) {
	opts := []nats.Option{
		nats.Name("scoreboard-service"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logging.Warn(logger, "nats disconnected", logging.FieldError, err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.Info(logger, "nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logging.Error(logger, "nats error", err)
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return newNatsPublisher(nc, cfg.Subject, logger), nil
}

func newNatsPublisher(conn natsConn, subject string, logger *slog.Logger) *NatsPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NatsPublisher{
		conn:    conn,
		subject: subject,
		origin:  uuid.NewString(),
		logger:  logger,
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), defaultMaxRetries)
		},
	}
}

// Publish encodes msg as {"matchId","data"} and publishes it, retrying transient failures.
func (p *NatsPublisher) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	out := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header: nats.Header{
			headerOrigin:  []string{p.origin},
			headerMatchID: []string{msg.MatchID},
		},
	}

	op := func() error {
		err := p.conn.PublishMsg(out)
		if errors.Is(err, nats.ErrConnectionClosed) {
			return backoff.Permanent(ErrClosed)
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(p.newBackOff(), ctx)); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	return nil
}

// Relay forwards messages from other processes to sink until the returned stop func runs.
func (p *NatsPublisher) Relay(ctx context.Context, sink Publisher) (func(), error) {
	sub, err := p.conn.Subscribe(p.subject, func(m *nats.Msg) {
		if m.Header.Get(headerOrigin) == p.origin {
			return
		}
		var msg Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			logging.Warn(p.logger, "dropping malformed broadcast", logging.FieldSubject, p.subject, logging.FieldError, err)
			return
		}
		if err := sink.Publish(ctx, msg); err != nil {
			logging.Debug(p.logger, "relay sink rejected update", logging.FieldMatchID, msg.MatchID, logging.FieldError, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", p.subject, err)
	}
	return func() {
		if sub != nil {
			_ = sub.Unsubscribe()
		}
	}, nil
}

// Close drains pending messages and closes the connection.
func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}

// Ready reports whether the connection to NATS is up.
func (p *NatsPublisher) Ready() error {
	if !p.conn.IsConnected() {
		return ErrDisconnected
	}
	return nil
}
