package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrLeague   = "league"
	AttrOutcome  = "outcome"
)

// League fetch outcomes.
const (
	OutcomeFetched = "ok"
	OutcomeStale   = "stale"
	OutcomeEmpty   = "empty"
	OutcomeSkipped = "skipped"
)
