package client

const ReconciliationQueueName string = "bridge_reconciliation"

const (
	ReconciliationEventType EventType = 1
)

type EventType int

// ReconciliationEvent is published for every bridge request that ends in
// failed_after_source_confirmed. Consumers are operator tools that credit,
// refund, or otherwise correct ledger state outside the automated flow.
type ReconciliationEvent struct {
	EventType       EventType `json:"event_type"` // always 1
	BridgeRequestID string    `json:"bridge_request_id"`
	Direction       string    `json:"direction"`
	Amount          string    `json:"amount"` // source ledger smallest units
	SourceTxHash    string    `json:"source_tx_hash"`
	Detail          string    `json:"detail"`
}
