package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tokenport/bridge-api-service/internal/observability/metrics"
	"github.com/tokenport/bridge-api-service/internal/types"
)

type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("sui rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// call performs a single JSON-RPC request against the Sui fullnode and
// decodes the result into out. Transport-level failures map to
// LEDGER_UNAVAILABLE (or REQUEST_TIMEOUT on deadline), node-reported errors
// are returned as a *rpcError wrapped in a BAD_REQUEST so callers can
// inspect the node's message.
func (c *SuiClient) call(ctx context.Context, method string, params []interface{}, out interface{}) *types.Error {
	timer := metrics.StartLedgerRequestTimer(types.LedgerSui.ToString(), method)
	err := c.doCall(ctx, method, params, out)
	if err != nil {
		timer(metrics.Error)
	} else {
		timer(metrics.Success)
	}
	return err
}

func (c *SuiClient) doCall(ctx context.Context, method string, params []interface{}, out interface{}) *types.Error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	body, err := json.Marshal(&rpcRequest{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to marshal %s request: %w", method, err))
	}

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, c.cfg.RPCAddr, bytes.NewBuffer(body))
	if err != nil {
		return types.NewInternalServiceError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxWithTimeout.Err() == context.DeadlineExceeded {
			return types.NewErrorWithMsg(
				http.StatusRequestTimeout, types.RequestTimeout,
				fmt.Sprintf("sui rpc %s timed out after %s", method, c.cfg.RequestTimeout),
			)
		}
		log.Ctx(ctx).Error().Err(err).Str("method", method).Msg("failed to reach sui rpc")
		return types.NewError(
			http.StatusServiceUnavailable, types.LedgerUnavailable,
			fmt.Errorf("sui rpc unavailable: %w", err),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.NewError(
			http.StatusServiceUnavailable, types.LedgerUnavailable,
			fmt.Errorf("sui rpc %s returned http %d", method, resp.StatusCode),
		)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to decode %s response: %w", method, err))
	}

	if rpcResp.Error != nil {
		return types.NewError(http.StatusBadRequest, types.BadRequest, rpcResp.Error)
	}

	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to unmarshal %s result: %w", method, err))
		}
	}

	return nil
}
