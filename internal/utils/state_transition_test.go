package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokenport/bridge-api-service/internal/types"
)

func TestFailedSourceNeverQualifiesAfterConfirmation(t *testing.T) {
	// Once the source burn is confirmed the request must never fall back to
	// failed_source: value has already left the source ledger.
	states := QualifiedStatesToFailedSource()
	assert.NotContains(t, states, types.SourceConfirmed)
	assert.NotContains(t, states, types.DestinationSubmitted)
	assert.NotContains(t, states, types.Completed)
}

func TestDestinationSubmittedAllowsStaleRetry(t *testing.T) {
	// The stale-object retry path rebuilds the submission against freshly
	// resolved objects, so destination_submitted must re-qualify itself.
	assert.Contains(t, QualifiedStatesToDestinationSubmitted(), types.DestinationSubmitted)
	assert.Contains(t, QualifiedStatesToDestinationSubmitted(), types.SourceConfirmed)
}

func TestUnknownBurnStatusQualifiesForReconciliation(t *testing.T) {
	// An exhausted confirmation wait in source_submitted leaves the burn
	// possibly confirmed; the only safe terminal state is the one that
	// triggers reconciliation.
	assert.Contains(t, QualifiedStatesToFailedAfterSourceConfirmed(), types.SourceSubmitted)
	assert.NotContains(t, QualifiedStatesToFailedSource(), types.SourceConfirmed)
}

func TestTerminalStatesAcceptNoTransitions(t *testing.T) {
	terminal := []types.BridgeState{
		types.Completed,
		types.FailedValidation,
		types.FailedSource,
		types.FailedAfterSourceConfirmed,
	}

	allQualified := [][]types.BridgeState{
		QualifiedStatesToSourceSubmitted(),
		QualifiedStatesToSourceConfirmed(),
		QualifiedStatesToDestinationSubmitted(),
		QualifiedStatesToCompleted(),
		QualifiedStatesToFailedSource(),
		QualifiedStatesToFailedAfterSourceConfirmed(),
	}

	for _, state := range terminal {
		assert.True(t, state.IsTerminal())
		for _, qualified := range allQualified {
			assert.NotContains(t, qualified, state)
		}
	}
}
