package utils

import (
	"github.com/tokenport/bridge-api-service/internal/types"
)

// QualifiedStatesToSourceSubmitted returns the qualified existing states to transition to "source_submitted"
func QualifiedStatesToSourceSubmitted() []types.BridgeState {
	return []types.BridgeState{types.Validated}
}

// QualifiedStatesToSourceConfirmed returns the qualified existing states to transition to "source_confirmed"
func QualifiedStatesToSourceConfirmed() []types.BridgeState {
	return []types.BridgeState{types.SourceSubmitted}
}

// QualifiedStatesToDestinationSubmitted returns the qualified existing states to transition to "destination_submitted"
// A destination_submitted -> destination_submitted transition is allowed for the stale-object retry path,
// where the submission is rebuilt against freshly resolved authority objects.
func QualifiedStatesToDestinationSubmitted() []types.BridgeState {
	return []types.BridgeState{types.SourceConfirmed, types.DestinationSubmitted}
}

// QualifiedStatesToCompleted returns the qualified existing states to transition to "completed"
func QualifiedStatesToCompleted() []types.BridgeState {
	return []types.BridgeState{types.DestinationSubmitted}
}

// QualifiedStatesToFailedSource returns the qualified existing states to transition to "failed_source".
// Only states where no source value can have moved qualify: once the source burn is confirmed
// the request must never fall back to failed_source.
func QualifiedStatesToFailedSource() []types.BridgeState {
	return []types.BridgeState{types.Validated, types.SourceSubmitted}
}

// QualifiedStatesToFailedAfterSourceConfirmed returns the qualified existing states to transition to
// "failed_after_source_confirmed". SourceSubmitted qualifies because an exhausted confirmation wait
// leaves the burn status unknown, which must be treated as possibly-confirmed, never as reversed.
func QualifiedStatesToFailedAfterSourceConfirmed() []types.BridgeState {
	return []types.BridgeState{types.SourceSubmitted, types.SourceConfirmed, types.DestinationSubmitted}
}
