package handlers

import (
	"net/http"
	"time"

	"github.com/tokenport/bridge-api-service/internal/db/model"
	"github.com/tokenport/bridge-api-service/internal/types"
)

type ReconciliationEntryPublic struct {
	BridgeRequestID string `json:"bridge_request_id"`
	Direction       string `json:"direction"`
	Amount          string `json:"amount"`
	SourceTxHash    string `json:"source_tx_hash,omitempty"`
	Detail          string `json:"detail"`
	CreatedAt       string `json:"created_at"`
}

// GetUnprocessedReconciliationEntries godoc
// @Summary List unprocessed reconciliation entries
// @Description Returns bridge requests that failed after the source burn confirmed and still await operator correction.
// @Produce json
// @Success 200 {object} PublicResponse[[]ReconciliationEntryPublic]
// @Router /v1/reconciliation [get]
func (h *Handler) GetUnprocessedReconciliationEntries(request *http.Request) (*Result, *types.Error) {
	entries, err := h.services.GetUnprocessedReconciliationEntries(request.Context())
	if err != nil {
		return nil, err
	}

	public := make([]ReconciliationEntryPublic, 0, len(entries))
	for _, entry := range entries {
		public = append(public, toReconciliationEntryPublic(entry))
	}

	return NewResult(public), nil
}

// MarkReconciliationProcessed godoc
// @Summary Mark a reconciliation entry as processed
// @Description Flags an entry as corrected by the operator. The entry is identified by its bridge request id.
// @Produce json
// @Param bridge_request_id query string true "Bridge Request ID"
// @Success 200 "Entry marked as processed"
// @Failure 404 {object} types.Error "No unprocessed entry for this bridge request"
// @Router /v1/reconciliation/processed [post]
func (h *Handler) MarkReconciliationProcessed(request *http.Request) (*Result, *types.Error) {
	bridgeRequestID := request.URL.Query().Get("bridge_request_id")
	if bridgeRequestID == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "bridge_request_id is required",
		)
	}

	if err := h.services.MarkReconciliationProcessed(request.Context(), bridgeRequestID); err != nil {
		return nil, err
	}

	return &Result{Status: http.StatusOK}, nil
}

func toReconciliationEntryPublic(entry model.ReconciliationEntryDocument) ReconciliationEntryPublic {
	return ReconciliationEntryPublic{
		BridgeRequestID: entry.BridgeRequestID,
		Direction:       entry.Direction,
		Amount:          entry.Amount,
		SourceTxHash:    entry.SourceTxHash,
		Detail:          entry.Detail,
		CreatedAt:       entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}
