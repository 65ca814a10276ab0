package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrAction    = "action"
	AttrOutcome   = "outcome"
	AttrDriver    = "driver"
	AttrTransport = "transport"

	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)
