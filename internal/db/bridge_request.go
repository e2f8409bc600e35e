package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tokenport/bridge-api-service/internal/db/model"
	"github.com/tokenport/bridge-api-service/internal/types"
	"github.com/tokenport/bridge-api-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SaveBridgeRequest inserts a new bridge request keyed by its idempotency
// identifier. A DuplicateKeyError means the key has been used before; the
// caller decides whether to replay the stored outcome.
func (db *Database) SaveBridgeRequest(ctx context.Context, request *model.BridgeRequestDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.BridgeRequestCollection)

	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	_, err := client.InsertOne(ctx, request)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     request.ID,
						Message: "bridge request with this idempotency key already exists",
					}
				}
			}
		}
		return err
	}

	return nil
}

func (db *Database) FindBridgeRequestByID(ctx context.Context, bridgeRequestID string) (*model.BridgeRequestDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.BridgeRequestCollection)
	filter := bson.M{"_id": bridgeRequestID}

	var request model.BridgeRequestDocument
	err := client.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     bridgeRequestID,
				Message: "bridge request not found",
			}
		}
		return nil, err
	}

	return &request, nil
}

func (db *Database) TransitionToSourceSubmitted(
	ctx context.Context, bridgeRequestID string, sourceOp *model.LedgerOperationDocument,
) error {
	return db.transitionState(
		ctx, bridgeRequestID, types.SourceSubmitted,
		utils.QualifiedStatesToSourceSubmitted(),
		bson.M{"source_operation": sourceOp},
	)
}

func (db *Database) TransitionToSourceConfirmed(
	ctx context.Context, bridgeRequestID string, sourceOp *model.LedgerOperationDocument,
) error {
	return db.transitionState(
		ctx, bridgeRequestID, types.SourceConfirmed,
		utils.QualifiedStatesToSourceConfirmed(),
		bson.M{"source_operation": sourceOp},
	)
}

func (db *Database) TransitionToDestinationSubmitted(
	ctx context.Context, bridgeRequestID string, destOp *model.LedgerOperationDocument,
) error {
	return db.transitionState(
		ctx, bridgeRequestID, types.DestinationSubmitted,
		utils.QualifiedStatesToDestinationSubmitted(),
		bson.M{"dest_operation": destOp},
	)
}

// SaveBridgeOutcome records the terminal outcome of a bridge request. The
// outcome subdocument is written at most once: a second terminal write for
// the same request returns an OutcomeConflictError instead of mutating the
// record.
func (db *Database) SaveBridgeOutcome(
	ctx context.Context, bridgeRequestID string, outcome types.BridgeState, detail string,
	sourceOp, destOp *model.LedgerOperationDocument,
) error {
	client := db.Client.Database(db.DbName).Collection(model.BridgeRequestCollection)

	eligible, err := qualifiedStatesForOutcome(outcome)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":     bridgeRequestID,
		"state":   bson.M{"$in": eligible},
		"outcome": bson.M{"$exists": false},
	}
	set := bson.M{
		"state": outcome,
		"outcome": &model.BridgeOutcomeDocument{
			Status:     outcome.ToString(),
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

	result, err := client.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		// Distinguish "already recorded" from "wrong state / missing".
		existing, findErr := db.FindBridgeRequestByID(ctx, bridgeRequestID)
		if findErr == nil && existing.Outcome != nil {
			return &OutcomeConflictError{
				Key:     bridgeRequestID,
				Message: "bridge request already has a recorded outcome",
			}
		}
		return &NotFoundError{
			Key:     bridgeRequestID,
			Message: "bridge request not found or not in an eligible state for this outcome",
		}
	}

	return nil
}

// transitionState performs a guarded state transition: the update only
// applies when the stored state is one of the eligible previous states, so
// concurrent workers cannot move a request backwards.
func (db *Database) transitionState(
	ctx context.Context, bridgeRequestID string, newState types.BridgeState,
	eligiblePreviousStates []types.BridgeState, setFields bson.M,
) error {
	client := db.Client.Database(db.DbName).Collection(model.BridgeRequestCollection)

	filter := bson.M{
		"_id":   bridgeRequestID,
		"state": bson.M{"$in": eligiblePreviousStates},
	}
	set := bson.M{
		"state":      newState,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range setFields {
		set[k] = v
	}

	result, err := client.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     bridgeRequestID,
			Message: fmt.Sprintf("bridge request not found or not eligible to transition to %s", newState),
		}
	}

	return nil
}

func qualifiedStatesForOutcome(outcome types.BridgeState) ([]types.BridgeState, error) {
	switch outcome {
	case types.Completed:
		return utils.QualifiedStatesToCompleted(), nil
	case types.FailedSource:
		return utils.QualifiedStatesToFailedSource(), nil
	case types.FailedAfterSourceConfirmed:
		return utils.QualifiedStatesToFailedAfterSourceConfirmed(), nil
	default:
		return nil, fmt.Errorf("state %s is not a recordable outcome", outcome)
	}
}
