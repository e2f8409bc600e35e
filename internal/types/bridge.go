package types

import (
	"math/big"
)

type Ledger string

const (
	LedgerEth Ledger = "eth"
	LedgerSui Ledger = "sui"
)

func (l Ledger) ToString() string {
	return string(l)
}

type Direction string

const (
	DirectionEthToSui Direction = "eth-to-sui"
	DirectionSuiToEth Direction = "sui-to-eth"
)

func (d Direction) ToString() string {
	return string(d)
}

func (d Direction) IsValid() bool {
	return d == DirectionEthToSui || d == DirectionSuiToEth
}

func (d Direction) SourceLedger() Ledger {
	if d == DirectionSuiToEth {
		return LedgerSui
	}
	return LedgerEth
}

func (d Direction) DestinationLedger() Ledger {
	if d == DirectionSuiToEth {
		return LedgerEth
	}
	return LedgerSui
}

type BridgeState string

const (
	Validated                  BridgeState = "validated"
	SourceSubmitted            BridgeState = "source_submitted"
	SourceConfirmed            BridgeState = "source_confirmed"
	DestinationSubmitted       BridgeState = "destination_submitted"
	Completed                  BridgeState = "completed"
	FailedValidation           BridgeState = "failed_validation"
	FailedSource               BridgeState = "failed_source"
	FailedAfterSourceConfirmed BridgeState = "failed_after_source_confirmed"
)

func (s BridgeState) ToString() string {
	return string(s)
}

// IsTerminal reports whether the state accepts no further transitions.
// FailedAfterSourceConfirmed is terminal for the request but still requires
// operator reconciliation before the books balance.
func (s BridgeState) IsTerminal() bool {
	switch s {
	case Completed, FailedValidation, FailedSource, FailedAfterSourceConfirmed:
		return true
	default:
		return false
	}
}

type OperationKind string

const (
	OperationBurn    OperationKind = "burn"
	OperationMint    OperationKind = "mint"
	OperationLock    OperationKind = "lock"
	OperationRelease OperationKind = "release"
)

type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationFailed    ConfirmationStatus = "failed"
	ConfirmationTimedOut  ConfirmationStatus = "timed_out"
)

// ObjectRef is a point-in-time reference to a mutable versioned object on the
// object-model ledger. It is valid only at the instant it was fetched; any
// submission built on it may be rejected if a concurrent transaction bumped
// the version.
type ObjectRef struct {
	ObjectID string
	Version  uint64
}

// OperationHandle identifies a submitted ledger operation. The amount is the
// value the operation was submitted with, in the target ledger's smallest
// unit.
type OperationHandle struct {
	Ledger Ledger
	Kind   OperationKind
	TxHash string
	Amount *big.Int
}

// Confirmation is the finalized (or timed out) result of a submitted
// operation. BalanceDelta carries the ledger-reported balance change for the
// counterparty account when the ledger exposes one, nil otherwise.
type Confirmation struct {
	Status       ConfirmationStatus
	TxHash       string
	LedgerError  string
	BalanceDelta *big.Int
}
