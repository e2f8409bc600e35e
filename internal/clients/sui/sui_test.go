package sui

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenport/bridge-api-service/internal/config"
	"github.com/tokenport/bridge-api-service/internal/types"
)

const (
	testPackageID   = "0x93f1b9a2c4de881f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e85"
	testTreasuryCap = "0xaaf1b9a2c4de881f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7001"
	testMinterCap   = "0xbbf1b9a2c4de881f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7002"
	testAccount     = "0x7f89f1180e2a5d2b0d79b9aa8af4a63bb5e4bc1dd32b6b5f6b0f0f4a89663c11"
	testCoinA       = "0x1111111111111111111111111111111111111111111111111111111111111111"
	testCoinB       = "0x2222222222222222222222222222222222222222222222222222222222222222"
)

// rpcHandler dispatches fake JSON-RPC responses per method.
type rpcHandler struct {
	results map[string]func(params []json.RawMessage) (interface{}, *rpcError)
}

func (h *rpcHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     int               `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	handler, ok := h.results[req.Method]
	if !ok {
		http.Error(w, fmt.Sprintf("unexpected method %s", req.Method), http.StatusBadRequest)
		return
	}

	result, rpcErr := handler(req.Params)
	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes()) // nolint:errcheck
}

func newTestClient(t *testing.T, handler *rpcHandler) (*SuiClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	seed := bytes.Repeat([]byte{7}, ed25519.SeedSize)
	cfg := &config.SuiConfig{
		RPCAddr:             server.URL,
		PackageID:           testPackageID,
		Module:              "token",
		TreasuryCapID:       testTreasuryCap,
		MinterCapID:         testMinterCap,
		Decimals:            9,
		GasBudget:           10_000_000,
		RequestTimeout:      2 * time.Second,
		ConfirmationTimeout: 100 * time.Millisecond,
		MaxConfirmationWait: 200 * time.Millisecond,
		PollInterval:        10 * time.Millisecond,
		PrivKey:             ed25519.NewKeyFromSeed(seed),
	}

	client, err := NewSuiClient(cfg)
	require.NoError(t, err)
	return client, server
}

func coinsResult(coins ...map[string]string) func([]json.RawMessage) (interface{}, *rpcError) {
	return func([]json.RawMessage) (interface{}, *rpcError) {
		return map[string]interface{}{"data": coins, "hasNextPage": false}, nil
	}
}

func objectResult(objectID string, version uint64) func([]json.RawMessage) (interface{}, *rpcError) {
	return func([]json.RawMessage) (interface{}, *rpcError) {
		return map[string]interface{}{
			"data": map[string]interface{}{
				"objectId": objectID,
				"version":  fmt.Sprintf("%d", version),
				"digest":   "digest",
			},
		}, nil
	}
}

func TestGetOwnedAssetPicksLowestCoinID(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"suix_getCoins": coinsResult(
			map[string]string{"coinObjectId": testCoinB, "balance": "500"},
			map[string]string{"coinObjectId": testCoinA, "balance": "1000"},
		),
	}})

	assetID, err := client.GetOwnedAsset(context.Background(), testAccount)
	require.Nil(t, err)
	assert.Equal(t, testCoinA, assetID)
}

func TestGetOwnedAssetNoCoins(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"suix_getCoins": coinsResult(),
	}})

	_, err := client.GetOwnedAsset(context.Background(), testAccount)
	require.NotNil(t, err)
	assert.Equal(t, types.NotFound, err.ErrorCode)
}

func TestSubmitBurnRequiresExactBalance(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"suix_getCoins": coinsResult(
			map[string]string{"coinObjectId": testCoinA, "balance": "1000"},
		),
	}})

	// A coin holding more than the requested amount must not be burned.
	_, err := client.SubmitBurn(context.Background(), testAccount, testCoinA, big.NewInt(999))
	require.NotNil(t, err)
	assert.Equal(t, types.BadRequest, err.ErrorCode)
	assert.Contains(t, err.Err.Error(), "does not match")
}

func TestSubmitBurnUnownedCoin(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"suix_getCoins": coinsResult(
			map[string]string{"coinObjectId": testCoinA, "balance": "1000"},
		),
	}})

	_, err := client.SubmitBurn(context.Background(), testAccount, testCoinB, big.NewInt(1000))
	require.NotNil(t, err)
	assert.Equal(t, types.NotFound, err.ErrorCode)
}

func executeHandlers(effectsStatus, effectsError, digest string) map[string]func([]json.RawMessage) (interface{}, *rpcError) {
	txBytes := base64.StdEncoding.EncodeToString([]byte("fake-tx-bytes"))
	return map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"sui_getObject": func(params []json.RawMessage) (interface{}, *rpcError) {
			var objectID string
			_ = json.Unmarshal(params[0], &objectID)
			return map[string]interface{}{
				"data": map[string]interface{}{
					"objectId": objectID, "version": "42", "digest": "digest",
				},
			}, nil
		},
		"unsafe_moveCall": func([]json.RawMessage) (interface{}, *rpcError) {
			return map[string]interface{}{"txBytes": txBytes}, nil
		},
		"sui_executeTransactionBlock": func([]json.RawMessage) (interface{}, *rpcError) {
			return map[string]interface{}{
				"digest": digest,
				"effects": map[string]interface{}{
					"status": map[string]string{"status": effectsStatus, "error": effectsError},
				},
			}, nil
		},
	}
}

func TestSubmitMintSuccess(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: executeHandlers("success", "", "MintDigest111")})

	handle, err := client.SubmitMint(context.Background(), testAccount, big.NewInt(1_000_000_000))
	require.Nil(t, err)
	assert.Equal(t, "MintDigest111", handle.TxHash)
	assert.Equal(t, types.OperationMint, handle.Kind)
	assert.Equal(t, types.LedgerSui, handle.Ledger)
	assert.Equal(t, "1000000000", handle.Amount.String())
}

func TestSubmitMintStaleObjectClassified(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: executeHandlers(
		"failure",
		"Object 0xbb.. version 42 is not available for consumption, current version 43",
		"StaleDigest",
	)})

	_, err := client.SubmitMint(context.Background(), testAccount, big.NewInt(1))
	require.NotNil(t, err)
	assert.Equal(t, types.ObjectStale, err.ErrorCode)
}

func TestSubmitMintExecutionFailure(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: executeHandlers(
		"failure", "MoveAbort(1) in mint", "AbortDigest",
	)})

	_, err := client.SubmitMint(context.Background(), testAccount, big.NewInt(1))
	require.NotNil(t, err)
	assert.Equal(t, types.BadRequest, err.ErrorCode)
}

func TestResolveObjectNotFound(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"sui_getObject": func([]json.RawMessage) (interface{}, *rpcError) {
			return map[string]interface{}{
				"error": map[string]string{"code": "notExist", "object_id": testCoinA},
			}, nil
		},
	}})

	_, err := client.ResolveObject(context.Background(), testCoinA)
	require.NotNil(t, err)
	assert.Equal(t, types.NotFound, err.ErrorCode)
}

func TestResolveObjectVersion(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"sui_getObject": objectResult(testTreasuryCap, 1337),
	}})

	ref, err := client.ResolveObject(context.Background(), testTreasuryCap)
	require.Nil(t, err)
	assert.Equal(t, testTreasuryCap, ref.ObjectID)
	assert.Equal(t, uint64(1337), ref.Version)
}

func TestAwaitConfirmationConfirmed(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"sui_getTransactionBlock": func([]json.RawMessage) (interface{}, *rpcError) {
			return map[string]interface{}{
				"digest": "ConfirmedDigest",
				"effects": map[string]interface{}{
					"status": map[string]string{"status": "success"},
				},
				"balanceChanges": []map[string]interface{}{
					{
						"owner":    map[string]string{"AddressOwner": testAccount},
						"coinType": fmt.Sprintf("%s::token::TOKEN", testPackageID),
						"amount":   "1000000000",
					},
				},
			}, nil
		},
	}})

	handle := &types.OperationHandle{
		Ledger: types.LedgerSui, Kind: types.OperationMint,
		TxHash: "ConfirmedDigest", Amount: big.NewInt(1_000_000_000),
	}
	conf, err := client.AwaitConfirmation(context.Background(), handle, 100*time.Millisecond)
	require.Nil(t, err)
	assert.Equal(t, types.ConfirmationConfirmed, conf.Status)
	require.NotNil(t, conf.BalanceDelta)
	assert.Equal(t, "1000000000", conf.BalanceDelta.String())
}

func TestAwaitConfirmationFailedExecution(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"sui_getTransactionBlock": func([]json.RawMessage) (interface{}, *rpcError) {
			return map[string]interface{}{
				"digest": "FailedDigest",
				"effects": map[string]interface{}{
					"status": map[string]string{"status": "failure", "error": "MoveAbort(7)"},
				},
			}, nil
		},
	}})

	handle := &types.OperationHandle{
		Ledger: types.LedgerSui, Kind: types.OperationBurn,
		TxHash: "FailedDigest", Amount: big.NewInt(1),
	}
	conf, err := client.AwaitConfirmation(context.Background(), handle, 100*time.Millisecond)
	require.Nil(t, err)
	assert.Equal(t, types.ConfirmationFailed, conf.Status)
	assert.Contains(t, conf.LedgerError, "MoveAbort")
}

func TestAwaitConfirmationTimesOut(t *testing.T) {
	// The node keeps answering "not found": the digest is not yet indexed.
	client, _ := newTestClient(t, &rpcHandler{results: map[string]func([]json.RawMessage) (interface{}, *rpcError){
		"sui_getTransactionBlock": func([]json.RawMessage) (interface{}, *rpcError) {
			return nil, &rpcError{Code: -32602, Message: "Could not find the referenced transaction"}
		},
	}})

	handle := &types.OperationHandle{
		Ledger: types.LedgerSui, Kind: types.OperationMint,
		TxHash: "UnknownDigest", Amount: big.NewInt(1),
	}
	conf, err := client.AwaitConfirmation(context.Background(), handle, 50*time.Millisecond)
	require.Nil(t, err)
	// A deadline elapse is a timeout, never an error: the operation may still
	// confirm later.
	assert.Equal(t, types.ConfirmationTimedOut, conf.Status)
	assert.Equal(t, "UnknownDigest", conf.TxHash)
}

func TestValidateAddress(t *testing.T) {
	client, _ := newTestClient(t, &rpcHandler{})
	assert.True(t, client.ValidateAddress(testAccount))
	assert.True(t, client.ValidateAddress("0x2"))
	assert.False(t, client.ValidateAddress("0x"+strings.Repeat("f", 65)))
	assert.False(t, client.ValidateAddress("not-an-address"))
}
