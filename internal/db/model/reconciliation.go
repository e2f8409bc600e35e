package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReconciliationEntryDocument is created for every request that ends in
// failed_after_source_confirmed: source value has left its ledger and the
// destination credit did not confirm. Operators resolve these manually and
// mark them processed.
type ReconciliationEntryDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	BridgeRequestID string             `bson:"bridge_request_id"`
	Direction       string             `bson:"direction"`
	Amount          string             `bson:"amount"`
	SourceTxHash    string             `bson:"source_tx_hash"`
	Detail          string             `bson:"detail"`
	Processed       bool               `bson:"processed"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func NewReconciliationEntryDocument(
	bridgeRequestID, direction, amount, sourceTxHash, detail string,
) *ReconciliationEntryDocument {
	return &ReconciliationEntryDocument{
		BridgeRequestID: bridgeRequestID,
		Direction:       direction,
		Amount:          amount,
		SourceTxHash:    sourceTxHash,
		Detail:          detail,
		Processed:       false,
		CreatedAt:       time.Now().UTC(),
	}
}
