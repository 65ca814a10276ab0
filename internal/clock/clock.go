package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Mode selects the direction the clock runs in.
type Mode string

const (
	Countdown Mode = "countdown"
	Stopwatch Mode = "stopwatch"
)

const tickInterval = time.Second

// Clock is a one-second countdown or stopwatch. Callbacks run on the ticking goroutine,
// never while the clock's lock is held, so they may call back into the clock.
type Clock struct {
	clk      clockwork.Clock
	onExpire func()

	mu      sync.Mutex
	mode    Mode
	time    int
	running bool
	closed  bool
	gen     uint64
	done    chan struct{}
	onTick  func(int)
}

// New constructs a stopped clock showing initial seconds.
func New(clk clockwork.Clock, initial int, mode Mode, onExpire func()) *Clock {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if mode != Stopwatch {
		mode = Countdown
	}
	return &Clock{
		clk:      clk,
		onExpire: onExpire,
		mode:     mode,
		time:     initial,
	}
}

// OnTick registers an observer called with the new time after each regular tick.
func (c *Clock) OnTick(fn func(int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = fn
}

// Start begins ticking. A countdown already at zero stays stopped.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.running {
		return
	}
	if c.mode == Countdown && c.time <= 0 {
		return
	}

	c.running = true
	c.gen++
	c.done = make(chan struct{})
	ticker := c.clk.NewTicker(tickInterval)
	go c.loop(ticker, c.done, c.gen)
}

// Pause stops ticking and keeps the current time.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Reset stops ticking and sets the time.
func (c *Clock) Reset(t int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.time = t
}

// SetTime changes the displayed time without touching the running state.
func (c *Clock) SetTime(t int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.time = t
}

// SetMode switches between countdown and stopwatch; the clock is stopped first.
func (c *Clock) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	if m != Stopwatch {
		m = Countdown
	}
	c.mode = m
}

// Time returns the current value in seconds.
func (c *Clock) Time() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.time
}

// Running reports whether the clock is ticking.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Mode returns the current mode.
func (c *Clock) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Close stops the clock for good. Later calls to Start are ignored.
func (c *Clock) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.closed = true
}

func (c *Clock) stopLocked() {
	if !c.running {
		return
	}
	c.running = false
	c.gen++
	close(c.done)
}

func (c *Clock) loop(ticker clockwork.Ticker, done <-chan struct{}, gen uint64) {
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			if !c.tick(gen) {
				return
			}
		}
	}
}

// tick advances one second. It returns false once this run has ended.
func (c *Clock) tick(gen uint64) bool {
	c.mu.Lock()
	if !c.running || c.gen != gen {
		c.mu.Unlock()
		return false
	}

	if c.mode == Stopwatch {
		c.time++
		t, fn := c.time, c.onTick
		c.mu.Unlock()
		if fn != nil {
			fn(t)
		}
		return true
	}

	if c.time <= 1 {
		c.time = 0
		c.stopLocked()
		c.mu.Unlock()
		if c.onExpire != nil {
			c.onExpire()
		}
		return false
	}

	c.time--
	t, fn := c.time, c.onTick
	c.mu.Unlock()
	if fn != nil {
		fn(t)
	}
	return true
}
