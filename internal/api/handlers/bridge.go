package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/tokenport/bridge-api-service/internal/db/model"
	"github.com/tokenport/bridge-api-service/internal/services"
	"github.com/tokenport/bridge-api-service/internal/types"
	"github.com/tokenport/bridge-api-service/internal/utils"
)

type BridgeRequestPayload struct {
	// IdempotencyKey dedupes retries of the same logical transfer. Optional:
	// a caller that omits it gets a generated key and no replay protection
	// across its own retries.
	IdempotencyKey string `json:"idempotency_key"`
	Direction      string `json:"direction"`
	// Amount in the source ledger's smallest unit, as a decimal string.
	Amount        string `json:"amount"`
	SourceAccount string `json:"source_account"`
	DestAccount   string `json:"dest_account"`
}

type LedgerOperationPublic struct {
	Kind        string `json:"kind"`
	Ledger      string `json:"ledger"`
	TxHash      string `json:"tx_hash"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	LedgerError string `json:"ledger_error,omitempty"`
}

type BridgeRequestPublic struct {
	BridgeRequestID string                 `json:"bridge_request_id"`
	Direction       string                 `json:"direction"`
	Amount          string                 `json:"amount"`
	SourceAccount   string                 `json:"source_account"`
	DestAccount     string                 `json:"dest_account"`
	State           string                 `json:"state"`
	SourceOperation *LedgerOperationPublic `json:"source_operation,omitempty"`
	DestOperation   *LedgerOperationPublic `json:"dest_operation,omitempty"`
	OutcomeDetail   string                 `json:"outcome_detail,omitempty"`
}

func parseBridgeRequestPayload(request *http.Request) (*services.BridgeRequest, *types.Error) {
	payload := &BridgeRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	amount, parseErr := utils.ParsePositiveBigInt(payload.Amount)
	if parseErr != nil {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "amount must be a positive integer string",
		)
	}

	idempotencyKey := payload.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	return &services.BridgeRequest{
		IdempotencyKey: idempotencyKey,
		Direction:      types.Direction(payload.Direction),
		Amount:         amount,
		SourceAccount:  payload.SourceAccount,
		DestAccount:    payload.DestAccount,
	}, nil
}

// BridgeTokens godoc
// @Summary Bridge tokens between ledgers
// @Description Moves the given amount from the source ledger account to the destination ledger account. Synchronous: the response is returned only after both legs are confirmed or the request has terminally failed.
// @Accept json
// @Produce json
// @Param payload body BridgeRequestPayload true "Bridge Request Payload"
// @Success 200 {object} PublicResponse[services.BridgeResult] "Both legs confirmed"
// @Failure 400 {object} types.Error "Invalid request payload"
// @Failure 502 {object} types.Error "A ledger rejected the transfer"
// @Failure 504 {object} types.Error "Confirmation status unknown after maximum wait"
// @Router /v1/bridge [post]
func (h *Handler) BridgeTokens(request *http.Request) (*Result, *types.Error) {
	req, err := parseBridgeRequestPayload(request)
	if err != nil {
		return nil, err
	}

	result, processErr := h.services.ProcessBridgeRequest(request.Context(), req)
	if processErr != nil {
		return nil, processErr
	}

	return NewResult(result), nil
}

// GetBridgeOutcome godoc
// @Summary Get bridge request outcome
// @Description Returns the stored bridge request with its ledger operations and terminal outcome, if reached.
// @Produce json
// @Param bridge_request_id query string true "Bridge Request ID (idempotency key)"
// @Success 200 {object} PublicResponse[BridgeRequestPublic]
// @Failure 404 {object} types.Error "Bridge request not found"
// @Router /v1/bridge/outcome [get]
func (h *Handler) GetBridgeOutcome(request *http.Request) (*Result, *types.Error) {
	bridgeRequestID := request.URL.Query().Get("bridge_request_id")
	if bridgeRequestID == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "bridge_request_id is required",
		)
	}

	requestDoc, err := h.services.GetBridgeRequestByID(request.Context(), bridgeRequestID)
	if err != nil {
		return nil, err
	}

	return NewResult(toBridgeRequestPublic(requestDoc)), nil
}

func toBridgeRequestPublic(doc *model.BridgeRequestDocument) *BridgeRequestPublic {
	public := &BridgeRequestPublic{
		BridgeRequestID: doc.ID,
		Direction:       doc.Direction.ToString(),
		Amount:          doc.Amount,
		SourceAccount:   doc.SourceAccount,
		DestAccount:     doc.DestAccount,
		State:           doc.State.ToString(),
		SourceOperation: toLedgerOperationPublic(doc.SourceOperation),
		DestOperation:   toLedgerOperationPublic(doc.DestOperation),
	}
	if doc.Outcome != nil {
		public.OutcomeDetail = doc.Outcome.Detail
	}
	return public
}

func toLedgerOperationPublic(op *model.LedgerOperationDocument) *LedgerOperationPublic {
	if op == nil {
		return nil
	}
	return &LedgerOperationPublic{
		Kind:        op.Kind,
		Ledger:      op.Ledger,
		TxHash:      op.TxHash,
		Amount:      op.Amount,
		Status:      op.Status,
		LedgerError: op.LedgerError,
	}
}
