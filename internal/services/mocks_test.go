package services

import (
	"context"
	"math/big"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tokenport/bridge-api-service/internal/db/model"
	"github.com/tokenport/bridge-api-service/internal/types"
)

type MockDBClient struct {
	mock.Mock
}

func (m *MockDBClient) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDBClient) SaveBridgeRequest(ctx context.Context, request *model.BridgeRequestDocument) error {
	return m.Called(ctx, request).Error(0)
}

func (m *MockDBClient) FindBridgeRequestByID(ctx context.Context, bridgeRequestID string) (*model.BridgeRequestDocument, error) {
	args := m.Called(ctx, bridgeRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BridgeRequestDocument), args.Error(1)
}

func (m *MockDBClient) TransitionToSourceSubmitted(
	ctx context.Context, bridgeRequestID string, sourceOp *model.LedgerOperationDocument,
) error {
	return m.Called(ctx, bridgeRequestID, sourceOp).Error(0)
}

func (m *MockDBClient) TransitionToSourceConfirmed(
	ctx context.Context, bridgeRequestID string, sourceOp *model.LedgerOperationDocument,
) error {
	return m.Called(ctx, bridgeRequestID, sourceOp).Error(0)
}

func (m *MockDBClient) TransitionToDestinationSubmitted(
	ctx context.Context, bridgeRequestID string, destOp *model.LedgerOperationDocument,
) error {
	return m.Called(ctx, bridgeRequestID, destOp).Error(0)
}

func (m *MockDBClient) SaveBridgeOutcome(
	ctx context.Context, bridgeRequestID string, outcome types.BridgeState, detail string,
	sourceOp, destOp *model.LedgerOperationDocument,
) error {
	return m.Called(ctx, bridgeRequestID, outcome, detail, sourceOp, destOp).Error(0)
}

func (m *MockDBClient) SaveOutcomeWithReconciliation(
	ctx context.Context, bridgeRequestID string, detail string,
	sourceOp, destOp *model.LedgerOperationDocument,
	entry *model.ReconciliationEntryDocument,
) error {
	return m.Called(ctx, bridgeRequestID, detail, sourceOp, destOp, entry).Error(0)
}

func (m *MockDBClient) FindUnprocessedReconciliationEntries(ctx context.Context) ([]model.ReconciliationEntryDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReconciliationEntryDocument), args.Error(1)
}

func (m *MockDBClient) MarkReconciliationEntryProcessed(ctx context.Context, bridgeRequestID string) error {
	return m.Called(ctx, bridgeRequestID).Error(0)
}

type MockLedgerClient struct {
	mock.Mock

	ledger   types.Ledger
	decimals int
}

func (m *MockLedgerClient) Ledger() types.Ledger {
	return m.ledger
}

func (m *MockLedgerClient) Decimals() int {
	return m.decimals
}

func (m *MockLedgerClient) ValidateAddress(address string) bool {
	return m.Called(address).Bool(0)
}

func (m *MockLedgerClient) GetOwnedAsset(ctx context.Context, account string) (string, *types.Error) {
	args := m.Called(ctx, account)
	if args.Get(1) == nil {
		return args.String(0), nil
	}
	return args.String(0), args.Get(1).(*types.Error)
}

func (m *MockLedgerClient) SubmitBurn(
	ctx context.Context, account, assetID string, amount *big.Int,
) (*types.OperationHandle, *types.Error) {
	args := m.Called(ctx, account, assetID, amount)
	var handle *types.OperationHandle
	if args.Get(0) != nil {
		handle = args.Get(0).(*types.OperationHandle)
	}
	if args.Get(1) == nil {
		return handle, nil
	}
	return handle, args.Get(1).(*types.Error)
}

func (m *MockLedgerClient) SubmitMint(
	ctx context.Context, account string, amount *big.Int,
) (*types.OperationHandle, *types.Error) {
	args := m.Called(ctx, account, amount)
	var handle *types.OperationHandle
	if args.Get(0) != nil {
		handle = args.Get(0).(*types.OperationHandle)
	}
	if args.Get(1) == nil {
		return handle, nil
	}
	return handle, args.Get(1).(*types.Error)
}

func (m *MockLedgerClient) AwaitConfirmation(
	ctx context.Context, handle *types.OperationHandle, deadline time.Duration,
) (*types.Confirmation, *types.Error) {
	args := m.Called(ctx, handle, deadline)
	var conf *types.Confirmation
	if args.Get(0) != nil {
		conf = args.Get(0).(*types.Confirmation)
	}
	if args.Get(1) == nil {
		return conf, nil
	}
	return conf, args.Get(1).(*types.Error)
}

type MockQueueClient struct {
	mock.Mock
}

func (m *MockQueueClient) PublishMessage(ctx context.Context, messageBody string) error {
	return m.Called(ctx, messageBody).Error(0)
}

func (m *MockQueueClient) Ping() error {
	return m.Called().Error(0)
}

func (m *MockQueueClient) GetQueueName() string {
	return "bridge_reconciliation"
}

func (m *MockQueueClient) Stop() error {
	return m.Called().Error(0)
}
