package db

import (
	"context"
	"errors"
	"time"

	"github.com/tokenport/bridge-api-service/internal/db/model"
	"github.com/tokenport/bridge-api-service/internal/types"
	"github.com/tokenport/bridge-api-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveOutcomeWithReconciliation records a failed_after_source_confirmed
// outcome and its reconciliation entry in one transaction. The two writes
// must be atomic: an outcome without a reconciliation entry would be
// invisible to the operator recovery path, and an entry without an outcome
// could be reconciled twice.
func (db *Database) SaveOutcomeWithReconciliation(
	ctx context.Context, bridgeRequestID string, detail string,
	sourceOp, destOp *model.LedgerOperationDocument,
	entry *model.ReconciliationEntryDocument,
) error {
	requestClient := db.Client.Database(db.DbName).Collection(model.BridgeRequestCollection)
	reconciliationClient := db.Client.Database(db.DbName).Collection(model.ReconciliationCollection)

	session, err := db.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	transactionWork := func(sessCtx mongo.SessionContext) (interface{}, error) {
		filter := bson.M{
			"_id":     bridgeRequestID,
			"state":   bson.M{"$in": utils.QualifiedStatesToFailedAfterSourceConfirmed()},
			"outcome": bson.M{"$exists": false},
		}
		set := bson.M{
			"state": types.FailedAfterSourceConfirmed,
			"outcome": &model.BridgeOutcomeDocument{
				Status:     types.FailedAfterSourceConfirmed.ToString(),
				Detail:     detail,
				RecordedAt: time.Now().UTC(),
			},
			"updated_at": time.Now().UTC(),
		}
		if sourceOp != nil {
			set["source_operation"] = sourceOp
		}
		if destOp != nil {
			set["dest_operation"] = destOp
		}

		result, err := requestClient.UpdateOne(sessCtx, filter, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, &NotFoundError{
				Key:     bridgeRequestID,
				Message: "bridge request not found or not eligible for a reconciliation outcome",
			}
		}

		_, err = reconciliationClient.InsertOne(sessCtx, entry)
		if err != nil {
			var writeErr mongo.WriteException
			if errors.As(err, &writeErr) {
				for _, e := range writeErr.WriteErrors {
					if mongo.IsDuplicateKeyError(e) {
						return nil, &DuplicateKeyError{
							Key:     bridgeRequestID,
							Message: "reconciliation entry already exists for this bridge request",
						}
					}
				}
			}
			return nil, err
		}

		return nil, nil
	}

	_, err = session.WithTransaction(ctx, transactionWork)
	if err != nil {
		return err
	}

	return nil
}

func (db *Database) FindUnprocessedReconciliationEntries(ctx context.Context) ([]model.ReconciliationEntryDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.ReconciliationCollection)
	filter := bson.M{"processed": false}
	opts := options.Find().
		SetSort(bson.M{"created_at": 1}).
		SetLimit(db.cfg.MaxPaginationLimit)

	cursor, err := client.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []model.ReconciliationEntryDocument
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (db *Database) MarkReconciliationEntryProcessed(ctx context.Context, bridgeRequestID string) error {
	client := db.Client.Database(db.DbName).Collection(model.ReconciliationCollection)
	filter := bson.M{"bridge_request_id": bridgeRequestID, "processed": false}
	update := bson.M{"$set": bson.M{"processed": true}}

	result, err := client.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     bridgeRequestID,
			Message: "no unprocessed reconciliation entry for this bridge request",
		}
	}

	return nil
}
