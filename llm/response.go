package llm

import "github.com/teilomillet/chatagent/providers"

// Completion results are defined in the providers package, next to the wire
// parsing that produces them; they are re-exported here for callers that
// only deal with the core API.
type (
	Response   = providers.Response
	Usage      = providers.Usage
	StopReason = providers.StopReason
)

const (
	StopReasonStop      = providers.StopReasonStop
	StopReasonLength    = providers.StopReasonLength
	StopReasonToolCalls = providers.StopReasonToolCalls
)
