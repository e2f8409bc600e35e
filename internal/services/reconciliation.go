package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tokenport/bridge-api-service/internal/db"
	"github.com/tokenport/bridge-api-service/internal/db/model"
	queueclient "github.com/tokenport/bridge-api-service/internal/queue/client"
	"github.com/tokenport/bridge-api-service/internal/types"
)

// GetUnprocessedReconciliationEntries lists the recorded failures that still
// await operator action.
func (s *Services) GetUnprocessedReconciliationEntries(
	ctx context.Context,
) ([]model.ReconciliationEntryDocument, *types.Error) {
	entries, err := s.DbClient.FindUnprocessedReconciliationEntries(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while fetching unprocessed reconciliation entries")
		return nil, types.NewInternalServiceError(err)
	}
	return entries, nil
}

// ReplayReconciliationEvents republishes a queue event for every unprocessed
// reconciliation entry. Used after a queue outage: the request ledger is the
// system of record, the queue is rebuilt from it.
func (s *Services) ReplayReconciliationEvents(ctx context.Context) error {
	entries, err := s.DbClient.FindUnprocessedReconciliationEntries(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while fetching reconciliation entries for replay")
		return err
	}

	replayed := 0
	for _, entry := range entries {
		publishErr := s.Queues.PublishReconciliationEvent(ctx, &queueclient.ReconciliationEvent{
			BridgeRequestID: entry.BridgeRequestID,
			Direction:       entry.Direction,
			Amount:          entry.Amount,
			SourceTxHash:    entry.SourceTxHash,
			Detail:          entry.Detail,
		})
		if publishErr != nil {
			log.Ctx(ctx).Error().Err(publishErr).
				Str("bridgeRequestId", entry.BridgeRequestID).
				Msg("failed to replay reconciliation event")
			continue
		}
		replayed++
	}

	log.Ctx(ctx).Info().
		Int("totalEntries", len(entries)).
		Int("replayed", replayed).
		Msg("reconciliation event replay finished")
	return nil
}

// MarkReconciliationProcessed flags an entry as handled by the operator.
func (s *Services) MarkReconciliationProcessed(ctx context.Context, bridgeRequestID string) *types.Error {
	if err := s.DbClient.MarkReconciliationEntryProcessed(ctx, bridgeRequestID); err != nil {
		if db.IsNotFoundError(err) {
			return types.NewErrorWithMsg(
				http.StatusNotFound, types.NotFound,
				"no unprocessed reconciliation entry for this bridge request",
			)
		}
		log.Ctx(ctx).Error().Err(err).
			Str("bridgeRequestId", bridgeRequestID).
			Msg("error while marking reconciliation entry processed")
		return types.NewInternalServiceError(err)
	}
	return nil
}
