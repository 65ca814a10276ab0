package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

// ErrQueueFull is returned when a Queue has no room for another message.
var ErrQueueFull = errors.New("broadcast queue full")

const (
	defaultQueueSize   = 64
	queuePublishWindow = 5 * time.Second
)

// Queue puts a slow Publisher behind a buffered channel drained by one goroutine, so Publish
// never waits on the network. Messages keep their order; when the buffer is full the new message
// is dropped and counted.
type Queue struct {
	name    string
	next    Publisher
	logger  *slog.Logger
	metrics *metrics.Recorder

	updates chan Message
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts the worker that forwards to next. name labels publish metrics; size <= 0 uses
// the default buffer.
func NewQueue(name string, next Publisher, size int, logger *slog.Logger, rec *metrics.Recorder) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		name:    name,
		next:    next,
		logger:  logger,
		metrics: rec,
		updates: make(chan Message, size),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// Publish enqueues msg. The caller's context is not carried to the worker.
func (q *Queue) Publish(_ context.Context, msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.updates <- msg:
		return nil
	default:
		q.metrics.RecordDrop()
		logging.Debug(q.logger, "broadcast queue full, dropping update", logging.FieldTransport, q.name, logging.FieldMatchID, msg.MatchID)
		return ErrQueueFull
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for msg := range q.updates {
		ctx, cancel := context.WithTimeout(q.ctx, queuePublishWindow)
		err := q.next.Publish(ctx, msg)
		cancel()
		q.metrics.RecordPublish(q.name, err)
		if err != nil {
			logging.Warn(q.logger, "failed to broadcast match state", logging.FieldTransport, q.name, logging.FieldMatchID, msg.MatchID, logging.FieldError, err)
		}
	}
}

// Close stops accepting messages and waits for the worker. Messages still queued get a single
// attempt each.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.updates)
	q.mu.Unlock()

	q.cancel()
	<-q.done
}
