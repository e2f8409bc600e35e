package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tokenport/bridge-api-service/internal/config"
	"github.com/tokenport/bridge-api-service/internal/queue/client"
)

type Queues struct {
	ReconciliationQueueClient client.QueueClient
	publishTimeout            time.Duration
}

func New(cfg *config.QueueConfig) *Queues {
	reconciliationQueueClient, err := client.NewQueueClient(
		cfg.Url, cfg.QueueUser, cfg.QueuePassword, cfg.ReconciliationQueueName,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating ReconciliationQueueClient")
	}
	return &Queues{
		ReconciliationQueueClient: reconciliationQueueClient,
		publishTimeout:            cfg.PublishTimeout,
	}
}

// PublishReconciliationEvent publishes an event for the operator recovery
// path. Callers persist the outcome to the request ledger first; the queue
// is a notification channel, not the system of record.
func (q *Queues) PublishReconciliationEvent(ctx context.Context, event *client.ReconciliationEvent) error {
	event.EventType = client.ReconciliationEventType

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, q.publishTimeout)
	defer cancel()

	err = q.ReconciliationQueueClient.PublishMessage(publishCtx, string(body))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("bridgeRequestId", event.BridgeRequestID).
			Msg("error while publishing reconciliation event")
		return err
	}

	log.Ctx(ctx).Info().
		Str("bridgeRequestId", event.BridgeRequestID).
		Str("queueName", q.ReconciliationQueueClient.GetQueueName()).
		Msg("reconciliation event published")
	return nil
}

func (q *Queues) IsConnectionHealthy() error {
	return q.ReconciliationQueueClient.Ping()
}

// Stop closes all queue connections
func (q *Queues) Stop() {
	if err := q.ReconciliationQueueClient.Stop(); err != nil {
		log.Error().Err(err).Msg("error while stopping ReconciliationQueueClient")
	}
}
