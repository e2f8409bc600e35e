package db

import (
	"context"

	"github.com/tokenport/bridge-api-service/internal/db/model"
	"github.com/tokenport/bridge-api-service/internal/types"
)

type DBClient interface {
	Ping(ctx context.Context) error
	SaveBridgeRequest(ctx context.Context, request *model.BridgeRequestDocument) error
	FindBridgeRequestByID(ctx context.Context, bridgeRequestID string) (*model.BridgeRequestDocument, error)
	TransitionToSourceSubmitted(
		ctx context.Context, bridgeRequestID string, sourceOp *model.LedgerOperationDocument,
	) error
	TransitionToSourceConfirmed(
		ctx context.Context, bridgeRequestID string, sourceOp *model.LedgerOperationDocument,
	) error
	TransitionToDestinationSubmitted(
		ctx context.Context, bridgeRequestID string, destOp *model.LedgerOperationDocument,
	) error
	SaveBridgeOutcome(
		ctx context.Context, bridgeRequestID string, outcome types.BridgeState, detail string,
		sourceOp, destOp *model.LedgerOperationDocument,
	) error
	SaveOutcomeWithReconciliation(
		ctx context.Context, bridgeRequestID string, detail string,
		sourceOp, destOp *model.LedgerOperationDocument,
		entry *model.ReconciliationEntryDocument,
	) error
	FindUnprocessedReconciliationEntries(ctx context.Context) ([]model.ReconciliationEntryDocument, error)
	MarkReconciliationEntryProcessed(ctx context.Context, bridgeRequestID string) error
}
