package model

import (
	"time"

	"github.com/tokenport/bridge-api-service/internal/types"
)

// LedgerOperationDocument records one leg of a bridge request. The amount is
// stored as a decimal string in the target ledger's smallest unit so that
// magnitudes beyond 64 bits survive the round trip.
type LedgerOperationDocument struct {
	Kind        string `bson:"kind"`
	Ledger      string `bson:"ledger"`
	TxHash      string `bson:"tx_hash"`
	Amount      string `bson:"amount"`
	Status      string `bson:"status"`
	LedgerError string `bson:"ledger_error,omitempty"`
}

// BridgeOutcomeDocument is the terminal record of a bridge request. It is
// written exactly once and never updated afterwards; it is the single source
// of truth for reconciliation.
type BridgeOutcomeDocument struct {
	Status     string    `bson:"status"`
	Detail     string    `bson:"detail,omitempty"`
	RecordedAt time.Time `bson:"recorded_at"`
}

type BridgeRequestDocument struct {
	ID              string                   `bson:"_id"` // idempotency key
	Direction       types.Direction          `bson:"direction"`
	Amount          string                   `bson:"amount"` // source ledger smallest units
	SourceAccount   string                   `bson:"source_account"`
	DestAccount     string                   `bson:"dest_account"`
	State           types.BridgeState        `bson:"state"`
	SourceOperation *LedgerOperationDocument `bson:"source_operation,omitempty"`
	DestOperation   *LedgerOperationDocument `bson:"dest_operation,omitempty"`
	Outcome         *BridgeOutcomeDocument   `bson:"outcome,omitempty"`
	CreatedAt       time.Time                `bson:"created_at"`
	UpdatedAt       time.Time                `bson:"updated_at"`
}
