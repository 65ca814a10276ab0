package testutil

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Epoch is the instant fake clocks start at in tests: 2024-03-10 12:00 UTC.
var Epoch = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// NowAt returns a clock function fixed at the provided time.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewFakeClock returns a fake clock set to Epoch.
func NewFakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(Epoch)
}
