package scripts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tokenport/bridge-api-service/internal/services"
)

// ReplayReconciliationEvents republishes every unprocessed reconciliation
// entry to the operator queue. Run after a queue outage or a lost-publish
// incident; the request ledger keeps the entries, the queue is rebuilt from
// them.
func ReplayReconciliationEvents(ctx context.Context, services *services.Services) error {
	entries, err := services.GetUnprocessedReconciliationEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve unprocessed reconciliation entries: %w", err.Err)
	}

	fmt.Printf("There are %d unprocessed reconciliation entries.\n", len(entries))
	if len(entries) == 0 {
		return nil
	}

	if replayErr := services.ReplayReconciliationEvents(ctx); replayErr != nil {
		return replayErr
	}

	log.Info().Msg("Reconciliation event replay completed.")
	return nil
}
