package services

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tokenport/bridge-api-service/internal/clients"
	"github.com/tokenport/bridge-api-service/internal/db"
	"github.com/tokenport/bridge-api-service/internal/db/model"
	"github.com/tokenport/bridge-api-service/internal/observability/metrics"
	queueclient "github.com/tokenport/bridge-api-service/internal/queue/client"
	"github.com/tokenport/bridge-api-service/internal/types"
	"github.com/tokenport/bridge-api-service/internal/utils"
)

// BridgeRequest is the validated caller intent: move Amount (source ledger
// smallest units) from SourceAccount on the source ledger to DestAccount on
// the destination ledger.
type BridgeRequest struct {
	IdempotencyKey string
	Direction      types.Direction
	Amount         *big.Int
	SourceAccount  string
	DestAccount    string
}

type BridgeResult struct {
	BridgeRequestID string `json:"bridge_request_id"`
	SourceTxHandle  string `json:"source_tx_handle"`
	DestTxHandle    string `json:"dest_tx_handle"`
}

// ProcessBridgeRequest drives one bridge request through the state machine:
// validation, source burn, source confirmation, destination mint, destination
// confirmation, outcome recording. Each request is an independent unit of
// work; contention over shared destination authority objects is handled by
// the resolve-before-use discipline inside the ledger client, retried here on
// staleness.
func (s *Services) ProcessBridgeRequest(ctx context.Context, req *BridgeRequest) (*BridgeResult, *types.Error) {
	// A reused idempotency key answers from the request ledger before
	// anything else runs. A completed transfer may have consumed the very
	// asset a fresh validation pass would look for, so the stored outcome
	// must win without touching either ledger.
	existing, findErr := s.DbClient.FindBridgeRequestByID(ctx, req.IdempotencyKey)
	if findErr == nil {
		return s.replayFromDocument(ctx, existing)
	}
	if !db.IsNotFoundError(findErr) {
		log.Ctx(ctx).Error().Err(findErr).
			Str("bridgeRequestId", req.IdempotencyKey).
			Msg("error while checking idempotency key")
		return nil, types.NewInternalServiceError(findErr)
	}

	source, dest := s.Clients.ForDirection(req.Direction)

	if err := s.validateBridgeRequest(req, source, dest); err != nil {
		return s.persistFailedValidation(ctx, req, err)
	}

	// On the object-model ledger the unit to burn must be located before
	// the machine starts. No side effects yet: failure here is a clean
	// rejection.
	assetID := req.SourceAccount
	if req.Direction.SourceLedger() == types.LedgerSui {
		id, err := source.GetOwnedAsset(ctx, req.SourceAccount)
		if err != nil {
			if err.ErrorCode == types.NotFound {
				vErr := types.NewError(http.StatusBadRequest, types.ValidationError, err.Err)
				return s.persistFailedValidation(ctx, req, vErr)
			}
			return nil, err
		}
		assetID = id
	}

	requestDoc := &model.BridgeRequestDocument{
		ID:            req.IdempotencyKey,
		Direction:     req.Direction,
		Amount:        req.Amount.String(),
		SourceAccount: req.SourceAccount,
		DestAccount:   req.DestAccount,
		State:         types.Validated,
	}
	if err := s.DbClient.SaveBridgeRequest(ctx, requestDoc); err != nil {
		if db.IsDuplicateKeyError(err) {
			return s.replayBridgeRequest(ctx, req.IdempotencyKey)
		}
		log.Ctx(ctx).Error().Err(err).Msg("error while saving bridge request")
		return nil, types.NewInternalServiceError(err)
	}

	// The request is persisted and about to touch a ledger: from here on a
	// client disconnect must not abort confirmation waits or outcome
	// recording. There is no compensating un-burn.
	ctx = context.WithoutCancel(ctx)

	sourceOp, err := s.runSourceLeg(ctx, req, source, assetID)
	if err != nil {
		return nil, err
	}

	destOp, err := s.runDestinationLeg(ctx, req, source, dest, sourceOp)
	if err != nil {
		return nil, err
	}

	if err := s.DbClient.SaveBridgeOutcome(
		ctx, req.IdempotencyKey, types.Completed, "", sourceOp, destOp,
	); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("bridgeRequestId", req.IdempotencyKey).
			Msg("failed to record completed outcome")
		return nil, types.NewInternalServiceError(err)
	}
	metrics.RecordBridgeOutcome(req.Direction.ToString(), types.Completed.ToString())

	return &BridgeResult{
		BridgeRequestID: req.IdempotencyKey,
		SourceTxHandle:  sourceOp.TxHash,
		DestTxHandle:    destOp.TxHash,
	}, nil
}

// persistFailedValidation records the rejection under the idempotency key so
// that a later reuse of the key replays the same answer. A duplicate key here
// means a concurrent submission bound the key after the upfront lookup; the
// stored answer takes precedence over this rejection.
func (s *Services) persistFailedValidation(
	ctx context.Context, req *BridgeRequest, vErr *types.Error,
) (*BridgeResult, *types.Error) {
	amount := ""
	if req.Amount != nil {
		amount = req.Amount.String()
	}
	doc := &model.BridgeRequestDocument{
		ID:            req.IdempotencyKey,
		Direction:     req.Direction,
		Amount:        amount,
		SourceAccount: req.SourceAccount,
		DestAccount:   req.DestAccount,
		State:         types.FailedValidation,
		Outcome: &model.BridgeOutcomeDocument{
			Status:     types.FailedValidation.ToString(),
			Detail:     vErr.Err.Error(),
			RecordedAt: time.Now().UTC(),
		},
	}
	if err := s.DbClient.SaveBridgeRequest(ctx, doc); err != nil {
		if db.IsDuplicateKeyError(err) {
			return s.replayBridgeRequest(ctx, req.IdempotencyKey)
		}
		log.Ctx(ctx).Error().Err(err).
			Str("bridgeRequestId", req.IdempotencyKey).
			Msg("failed to record validation failure")
	}
	metrics.RecordBridgeOutcome(req.Direction.ToString(), types.FailedValidation.ToString())
	return nil, vErr
}

func (s *Services) validateBridgeRequest(
	req *BridgeRequest, source, dest clients.LedgerClient,
) *types.Error {
	if !req.Direction.IsValid() {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("unrecognized bridge direction: %s", req.Direction),
		)
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError, "amount must be a positive integer",
		)
	}
	if !source.ValidateAddress(req.SourceAccount) {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("invalid %s source account: %s", source.Ledger(), req.SourceAccount),
		)
	}
	if !dest.ValidateAddress(req.DestAccount) {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("invalid %s destination account: %s", dest.Ledger(), req.DestAccount),
		)
	}
	return nil
}

// runSourceLeg submits and confirms the source burn. On any failure before
// confirmation nothing has left the source ledger, so the request terminates
// as failed_source and the caller may retry with a fresh idempotency key. A
// confirmation wait that exhausts the operator-configured maximum leaves the
// burn status unknown: that is recorded for reconciliation, never assumed
// reversed.
func (s *Services) runSourceLeg(
	ctx context.Context, req *BridgeRequest, source clients.LedgerClient, assetID string,
) (*model.LedgerOperationDocument, *types.Error) {
	handle, err := source.SubmitBurn(ctx, req.SourceAccount, assetID, req.Amount)
	if err != nil {
		s.recordFailedSource(ctx, req, nil, fmt.Sprintf("source burn rejected: %s", err.Err))
		if err.ErrorCode == types.LedgerUnavailable {
			return nil, err
		}
		return nil, types.NewError(http.StatusBadGateway, types.SourceRejected, err.Err)
	}

	sourceOp := opDocFromHandle(handle, types.ConfirmationPending, "")
	if dbErr := s.DbClient.TransitionToSourceSubmitted(ctx, req.IdempotencyKey, sourceOp); dbErr != nil {
		// The burn is already in flight; losing this intermediate write must
		// not abort the request. The terminal outcome write carries the
		// handle again.
		log.Ctx(ctx).Error().Err(dbErr).
			Str("bridgeRequestId", req.IdempotencyKey).
			Msg("failed to record source submission")
	}

	conf := s.awaitWithRepoll(ctx, source, handle)
	switch conf.Status {
	case types.ConfirmationConfirmed:
		sourceOp = opDocFromHandle(handle, types.ConfirmationConfirmed, "")
		if dbErr := s.DbClient.TransitionToSourceConfirmed(ctx, req.IdempotencyKey, sourceOp); dbErr != nil {
			log.Ctx(ctx).Error().Err(dbErr).
				Str("bridgeRequestId", req.IdempotencyKey).
				Msg("failed to record source confirmation")
		}
		log.Ctx(ctx).Info().
			Str("bridgeRequestId", req.IdempotencyKey).
			Str("sourceTxHash", handle.TxHash).
			Msg("source burn confirmed")
		return sourceOp, nil

	case types.ConfirmationFailed:
		// Ledger-reported execution failure: nothing was transferred.
		sourceOp = opDocFromHandle(handle, types.ConfirmationFailed, conf.LedgerError)
		s.recordFailedSource(ctx, req, sourceOp, fmt.Sprintf("source burn failed on ledger: %s", conf.LedgerError))
		return nil, types.NewErrorWithMsg(
			http.StatusBadGateway, types.SourceRejected,
			fmt.Sprintf("source burn failed: %s", conf.LedgerError),
		)

	default: // timed out after the maximum wait
		sourceOp = opDocFromHandle(handle, types.ConfirmationTimedOut, "")
		s.recordReconciliation(
			ctx, req, sourceOp, nil,
			"source burn confirmation status unknown after maximum wait; manual check required",
		)
		return nil, types.NewErrorWithMsg(
			http.StatusGatewayTimeout, types.SourceTimeout,
			"source burn confirmation timed out; status unknown, do not resubmit",
		)
	}
}

// runDestinationLeg normalizes the confirmed source amount to destination
// precision and submits the mint, re-resolving authority objects on each
// stale-reference rejection up to the configured bound. Every failure path
// here happens after source value has moved, so every failure path records a
// reconciliation outcome before returning.
func (s *Services) runDestinationLeg(
	ctx context.Context, req *BridgeRequest, source, dest clients.LedgerClient,
	sourceOp *model.LedgerOperationDocument,
) (*model.LedgerOperationDocument, *types.Error) {
	converted, loss, convErr := utils.NormalizeAmount(req.Amount, source.Decimals(), dest.Decimals())
	if convErr != nil {
		s.recordReconciliation(ctx, req, sourceOp, nil, fmt.Sprintf("amount normalization failed: %s", convErr))
		return nil, types.NewInternalServiceError(convErr)
	}
	if loss.Sign() > 0 {
		// The truncated remainder is value that cannot be represented on
		// the destination ledger. It is not recoverable; the audit trail is
		// this log line.
		log.Ctx(ctx).Warn().
			Str("bridgeRequestId", req.IdempotencyKey).
			Str("requestedAmount", req.Amount.String()).
			Str("convertedAmount", converted.String()).
			Str("truncationLoss", loss.String()).
			Msg("precision conversion truncated value")
	}
	if converted.Sign() == 0 {
		s.recordReconciliation(
			ctx, req, sourceOp, nil,
			"requested amount is below destination ledger precision; burned value has no destination representation",
		)
		return nil, types.NewErrorWithMsg(
			http.StatusBadGateway, types.DestinationRejected,
			"amount too small to represent on destination ledger",
		)
	}

	var handle *types.OperationHandle
	for attempt := 0; ; attempt++ {
		var err *types.Error
		handle, err = dest.SubmitMint(ctx, req.DestAccount, converted)
		if err == nil {
			break
		}
		if err.ErrorCode == types.ObjectStale && attempt < s.cfg.Bridge.MaxStaleObjectRetries {
			// A concurrent request consumed the authority object version we
			// resolved. Re-resolve and retry; the ledger's own versioning
			// is the lock.
			metrics.RecordStaleObjectRetry(req.Direction.ToString())
			log.Ctx(ctx).Warn().
				Str("bridgeRequestId", req.IdempotencyKey).
				Int("attempt", attempt+1).
				Msg("destination authority object stale, re-resolving and retrying")
			continue
		}

		detail := fmt.Sprintf("destination mint rejected: %s", err.Err)
		if err.ErrorCode == types.ObjectStale {
			detail = fmt.Sprintf(
				"destination mint still stale after %d retries: %s", s.cfg.Bridge.MaxStaleObjectRetries, err.Err,
			)
		}
		s.recordReconciliation(ctx, req, sourceOp, nil, detail)
		return nil, types.NewError(http.StatusBadGateway, types.DestinationRejected, err.Err)
	}

	destOp := opDocFromHandle(handle, types.ConfirmationPending, "")
	if dbErr := s.DbClient.TransitionToDestinationSubmitted(ctx, req.IdempotencyKey, destOp); dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).
			Str("bridgeRequestId", req.IdempotencyKey).
			Msg("failed to record destination submission")
	}

	conf := s.awaitWithRepoll(ctx, dest, handle)
	switch conf.Status {
	case types.ConfirmationConfirmed:
		// Verify the two legs against each other before declaring success:
		// the ledger-reported destination delta must match the normalized
		// source amount.
		if conf.BalanceDelta != nil && conf.BalanceDelta.Cmp(converted) != 0 {
			detail := fmt.Sprintf(
				"destination credited %s but source burn normalizes to %s; amounts diverge",
				conf.BalanceDelta, converted,
			)
			destOp = opDocFromHandle(handle, types.ConfirmationConfirmed, "")
			s.recordReconciliation(ctx, req, sourceOp, destOp, detail)
			return nil, types.NewErrorWithMsg(http.StatusBadGateway, types.DestinationRejected, detail)
		}
		log.Ctx(ctx).Info().
			Str("bridgeRequestId", req.IdempotencyKey).
			Str("destTxHash", handle.TxHash).
			Msg("destination mint confirmed")
		return opDocFromHandle(handle, types.ConfirmationConfirmed, ""), nil

	case types.ConfirmationFailed:
		destOp = opDocFromHandle(handle, types.ConfirmationFailed, conf.LedgerError)
		s.recordReconciliation(
			ctx, req, sourceOp, destOp,
			fmt.Sprintf("destination mint failed on ledger: %s", conf.LedgerError),
		)
		return nil, types.NewErrorWithMsg(
			http.StatusBadGateway, types.DestinationRejected,
			fmt.Sprintf("destination mint failed: %s", conf.LedgerError),
		)

	default:
		destOp = opDocFromHandle(handle, types.ConfirmationTimedOut, "")
		s.recordReconciliation(
			ctx, req, sourceOp, destOp,
			"destination mint confirmation status unknown after maximum wait; manual check required",
		)
		return nil, types.NewErrorWithMsg(
			http.StatusGatewayTimeout, types.DestinationRejected,
			"destination mint confirmation timed out; status unknown",
		)
	}
}

// awaitWithRepoll waits for confirmation with the per-ledger deadline and
// keeps re-polling (never resubmitting) across timeouts and transient
// transport failures until the per-ledger maximum wait is exhausted.
func (s *Services) awaitWithRepoll(
	ctx context.Context, lc clients.LedgerClient, handle *types.OperationHandle,
) *types.Confirmation {
	deadline, maxWait := s.waitParams(lc.Ledger())
	start := time.Now()
	transportFailures := 0

	for {
		conf, err := lc.AwaitConfirmation(ctx, handle, deadline)
		if err != nil {
			transportFailures++
			if transportFailures > s.cfg.Bridge.LedgerRetryAttempts {
				return &types.Confirmation{Status: types.ConfirmationTimedOut, TxHash: handle.TxHash}
			}
			log.Ctx(ctx).Warn().Err(err.Err).
				Str("txHash", handle.TxHash).
				Int("transportFailures", transportFailures).
				Msg("confirmation wait hit a transport failure, backing off")
			utils.Sleep(s.cfg.Bridge.LedgerRetryBackoff)
			continue
		}

		if conf.Status != types.ConfirmationTimedOut {
			return conf
		}
		if time.Since(start) >= maxWait {
			return conf
		}
	}
}

func (s *Services) waitParams(ledger types.Ledger) (time.Duration, time.Duration) {
	if ledger == types.LedgerEth {
		return s.cfg.Eth.ConfirmationTimeout, s.cfg.Eth.MaxConfirmationWait
	}
	return s.cfg.Sui.ConfirmationTimeout, s.cfg.Sui.MaxConfirmationWait
}

func (s *Services) recordFailedSource(
	ctx context.Context, req *BridgeRequest, sourceOp *model.LedgerOperationDocument, detail string,
) {
	if err := s.DbClient.SaveBridgeOutcome(
		ctx, req.IdempotencyKey, types.FailedSource, detail, sourceOp, nil,
	); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("bridgeRequestId", req.IdempotencyKey).
			Msg("failed to record failed_source outcome")
	}
	metrics.RecordBridgeOutcome(req.Direction.ToString(), types.FailedSource.ToString())
}

// recordReconciliation durably records a failed_after_source_confirmed
// outcome together with its reconciliation entry, then notifies the operator
// queue. The database write happens before any caller response so a crash
// between ledger confirmation and response delivery cannot lose the record.
func (s *Services) recordReconciliation(
	ctx context.Context, req *BridgeRequest,
	sourceOp, destOp *model.LedgerOperationDocument, detail string,
) {
	sourceTxHash := ""
	if sourceOp != nil {
		sourceTxHash = sourceOp.TxHash
	}

	entry := model.NewReconciliationEntryDocument(
		req.IdempotencyKey, req.Direction.ToString(), req.Amount.String(), sourceTxHash, detail,
	)
	err := s.DbClient.SaveOutcomeWithReconciliation(
		ctx, req.IdempotencyKey, detail, sourceOp, destOp, entry,
	)
	if err != nil {
		// This is the one record that must never be lost: source value has
		// left its ledger without a destination credit.
		log.Ctx(ctx).Error().Err(err).
			Str("bridgeRequestId", req.IdempotencyKey).
			Str("detail", detail).
			Msg("CRITICAL: failed to durably record reconciliation outcome")
	}
	metrics.RecordBridgeOutcome(req.Direction.ToString(), types.FailedAfterSourceConfirmed.ToString())

	publishErr := s.Queues.PublishReconciliationEvent(ctx, &queueclient.ReconciliationEvent{
		BridgeRequestID: req.IdempotencyKey,
		Direction:       req.Direction.ToString(),
		Amount:          req.Amount.String(),
		SourceTxHash:    sourceTxHash,
		Detail:          detail,
	})
	if publishErr != nil {
		// The durable record exists; the replay command republishes
		// unprocessed entries.
		log.Ctx(ctx).Error().Err(publishErr).
			Str("bridgeRequestId", req.IdempotencyKey).
			Msg("failed to publish reconciliation event; replay required")
	}
}

// replayBridgeRequest handles a reused idempotency key: a completed request
// replays its recorded outcome without touching either ledger; a terminally
// failed request replays its recorded failure; an in-flight request is a
// conflict.
func (s *Services) replayBridgeRequest(ctx context.Context, bridgeRequestID string) (*BridgeResult, *types.Error) {
	existing, err := s.DbClient.FindBridgeRequestByID(ctx, bridgeRequestID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("bridgeRequestId", bridgeRequestID).
			Msg("error while fetching bridge request for idempotent replay")
		return nil, types.NewInternalServiceError(err)
	}

	return s.replayFromDocument(ctx, existing)
}

func (s *Services) replayFromDocument(
	ctx context.Context, existing *model.BridgeRequestDocument,
) (*BridgeResult, *types.Error) {
	if existing.State == types.Completed {
		result := &BridgeResult{BridgeRequestID: existing.ID}
		if existing.SourceOperation != nil {
			result.SourceTxHandle = existing.SourceOperation.TxHash
		}
		if existing.DestOperation != nil {
			result.DestTxHandle = existing.DestOperation.TxHash
		}
		log.Ctx(ctx).Info().
			Str("bridgeRequestId", existing.ID).
			Msg("idempotency key already completed, replaying recorded outcome")
		return result, nil
	}

	detail := ""
	if existing.Outcome != nil {
		detail = existing.Outcome.Detail
	}

	if utils.Contains([]types.BridgeState{types.FailedValidation, types.FailedSource}, existing.State) {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.SourceRejected,
			fmt.Sprintf("idempotency key previously failed before any transfer: %s", detail),
		)
	}
	if existing.State == types.FailedAfterSourceConfirmed {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.DestinationRejected,
			fmt.Sprintf("idempotency key previously failed after source confirmation, pending reconciliation: %s", detail),
		)
	}

	return nil, types.NewErrorWithMsg(
		http.StatusConflict, types.Forbidden,
		"bridge request with this idempotency key is still in flight",
	)
}

// GetBridgeRequestByID returns the stored request with its operations and
// outcome, if any.
func (s *Services) GetBridgeRequestByID(ctx context.Context, bridgeRequestID string) (*model.BridgeRequestDocument, *types.Error) {
	request, err := s.DbClient.FindBridgeRequestByID(ctx, bridgeRequestID)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "bridge request not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("error while fetching bridge request")
		return nil, types.NewInternalServiceError(err)
	}
	return request, nil
}

func opDocFromHandle(
	handle *types.OperationHandle, status types.ConfirmationStatus, ledgerError string,
) *model.LedgerOperationDocument {
	return &model.LedgerOperationDocument{
		Kind:        string(handle.Kind),
		Ledger:      handle.Ledger.ToString(),
		TxHash:      handle.TxHash,
		Amount:      handle.Amount.String(),
		Status:      string(status),
		LedgerError: ledgerError,
	}
}
