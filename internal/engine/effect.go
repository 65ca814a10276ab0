package engine

// EffectKind is a side effect the caller performs after a transition.
type EffectKind string

const (
	EffectClockStart EffectKind = "clock_start"
	EffectClockPause EffectKind = "clock_pause"
	// EffectClockReset stops the clock and sets it to Effect.Time.
	EffectClockReset EffectKind = "clock_reset"
	// EffectScheduleReasonClear asks the caller to clear the pause reason after the display window.
	EffectScheduleReasonClear EffectKind = "schedule_reason_clear"
)

// Effect is applied in order.
type Effect struct {
	Kind EffectKind
	Time int
}

func clockStart() Effect          { return Effect{Kind: EffectClockStart} }
func clockPause() Effect          { return Effect{Kind: EffectClockPause} }
func clockReset(t int) Effect     { return Effect{Kind: EffectClockReset, Time: t} }
func scheduleReasonClear() Effect { return Effect{Kind: EffectScheduleReasonClear} }
