package metrics

import (
	"sync"
	"time"
)

type actionStats struct {
	accepted int
	rejected int
}

type ioStats struct {
	calls       int
	errors      int
	lastLatency time.Duration
}

// Recorder captures in-memory counters for match activity and mirrors them to OpenTelemetry
// when instruments are configured. A nil Recorder is valid and records nothing.
type Recorder struct {
	mu        sync.Mutex
	actions   map[string]*actionStats
	writes    map[string]*ioStats
	publishes map[string]*ioStats
	drops     int
	expiries  int
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		actions:   make(map[string]*actionStats),
		writes:    make(map[string]*ioStats),
		publishes: make(map[string]*ioStats),
		otel:      otel,
	}
}

// RecordAction counts an action against a match, split by whether it changed state.
func (r *Recorder) RecordAction(action string, accepted bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats, ok := r.actions[action]
	if !ok {
		stats = &actionStats{}
		r.actions[action] = stats
	}
	if accepted {
		stats.accepted++
	} else {
		stats.rejected++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordAction(action, accepted)
	}
}

// RecordPersist tracks a history write to the durable store.
func (r *Recorder) RecordPersist(driver string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.recordIO(r.writes, driver, duration, err)
	if r.otel != nil {
		r.otel.recordPersist(driver, duration, err)
	}
}

// RecordPublish tracks a broadcast of the current snapshot.
func (r *Recorder) RecordPublish(transport string, err error) {
	if r == nil {
		return
	}
	r.recordIO(r.publishes, transport, 0, err)
	if r.otel != nil {
		r.otel.recordPublish(transport, err)
	}
}

// RecordDrop counts a message dropped for a slow subscriber.
func (r *Recorder) RecordDrop() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.drops++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordDrop()
	}
}

// RecordClockExpiry counts countdowns reaching zero.
func (r *Recorder) RecordClockExpiry() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.expiries++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordExpiry()
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the in-memory counters.
type Snapshot struct {
	Accepted      int
	Rejected      int
	Persists      int
	PersistErrors int
	LastPersist   time.Duration
	Publishes     int
	PublishErrors int
	Drops         int
	ClockExpiries int
}

// ActionSnapshot returns counters for one action name.
func (r *Recorder) ActionSnapshot(action string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var snap Snapshot
	if stats, ok := r.actions[action]; ok {
		snap.Accepted = stats.accepted
		snap.Rejected = stats.rejected
	}
	return snap
}

// Totals aggregates every counter.
func (r *Recorder) Totals() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{Drops: r.drops, ClockExpiries: r.expiries}
	for _, a := range r.actions {
		snap.Accepted += a.accepted
		snap.Rejected += a.rejected
	}
	for _, w := range r.writes {
		snap.Persists += w.calls
		snap.PersistErrors += w.errors
		if w.lastLatency > snap.LastPersist {
			snap.LastPersist = w.lastLatency
		}
	}
	for _, p := range r.publishes {
		snap.Publishes += p.calls
		snap.PublishErrors += p.errors
	}
	return snap
}

func (r *Recorder) recordIO(bucket map[string]*ioStats, name string, duration time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := bucket[name]
	if !ok {
		stats = &ioStats{}
		bucket[name] = stats
	}
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
}
