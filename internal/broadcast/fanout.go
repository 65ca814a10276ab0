package broadcast

import (
	"context"
	"errors"

	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

// Target is a named publisher inside a Fanout; the name labels metrics.
type Target struct {
	Name      string
	Publisher Publisher
}

// Fanout publishes each message to every target and joins their errors.
type Fanout struct {
	targets []Target
	metrics *metrics.Recorder
}

func NewFanout(rec *metrics.Recorder, targets ...Target) *Fanout {
	return &Fanout{targets: targets, metrics: rec}
}

func (f *Fanout) Publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, t := range f.targets {
		err := t.Publisher.Publish(ctx, msg)
		f.metrics.RecordPublish(t.Name, err)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
