package sui

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tokenport/bridge-api-service/internal/config"
	"github.com/tokenport/bridge-api-service/internal/types"
	"github.com/tokenport/bridge-api-service/internal/utils"
)

// Error fragment the node reports when a transaction references an object
// version that a concurrent transaction already consumed. This is the
// optimistic-concurrency signal the resolver discipline depends on.
const staleObjectErrFragment = "not available for consumption"

const objectNotExistCode = "notExist"

type SuiClient struct {
	cfg        *config.SuiConfig
	httpClient *http.Client
	// Operator address derived from the configured key; signer and gas payer
	// for every submission.
	address string
}

func NewSuiClient(cfg *config.SuiConfig) (*SuiClient, error) {
	if cfg.PrivKey == nil {
		return nil, fmt.Errorf("sui config has no parsed private key; was Validate called?")
	}
	return &SuiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		address:    deriveAddress(cfg.PrivKey.Public().(ed25519.PublicKey)),
	}, nil
}

func (c *SuiClient) Ledger() types.Ledger {
	return types.LedgerSui
}

func (c *SuiClient) Decimals() int {
	return c.cfg.Decimals
}

func (c *SuiClient) ValidateAddress(address string) bool {
	return utils.IsValidSuiAddress(address)
}

type objectData struct {
	ObjectID string          `json:"objectId"`
	Version  json.RawMessage `json:"version"`
	Digest   string          `json:"digest"`
}

type objectResponse struct {
	Data  *objectData `json:"data"`
	Error *struct {
		Code     string `json:"code"`
		ObjectID string `json:"object_id"`
	} `json:"error"`
}

// ResolveObject fetches the current reference of a mutable object. The
// returned reference is valid only at this instant: callers must resolve
// immediately before building each submission and must never reuse a
// reference across submissions, since concurrent requests sharing the same
// authority objects race over their versions.
func (c *SuiClient) ResolveObject(ctx context.Context, objectID string) (*types.ObjectRef, *types.Error) {
	params := []interface{}{
		objectID,
		map[string]bool{"showContent": false, "showType": true, "showOwner": true},
	}

	var resp objectResponse
	if err := c.call(ctx, "sui_getObject", params, &resp); err != nil {
		if err.ErrorCode == types.BadRequest {
			// The node answered; a malformed or unknown id is not a
			// transport failure.
			return nil, types.NewError(http.StatusNotFound, types.NotFound, err.Err)
		}
		return nil, err
	}

	if resp.Error != nil {
		if resp.Error.Code == objectNotExistCode || resp.Error.Code == "deleted" {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.NotFound,
				fmt.Sprintf("sui object not found: %s", objectID),
			)
		}
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("sui object %s unavailable: %s", objectID, resp.Error.Code),
		)
	}

	if resp.Data == nil {
		return nil, types.NewErrorWithMsg(
			http.StatusNotFound, types.NotFound,
			fmt.Sprintf("sui object not found: %s", objectID),
		)
	}

	version, err := parseVersion(resp.Data.Version)
	if err != nil {
		return nil, types.NewInternalServiceError(
			fmt.Errorf("unparseable version for object %s: %w", objectID, err),
		)
	}

	return &types.ObjectRef{
		ObjectID: resp.Data.ObjectID,
		Version:  version,
	}, nil
}

type coinEntry struct {
	CoinObjectID string `json:"coinObjectId"`
	Balance      string `json:"balance"`
}

type coinPage struct {
	Data        []coinEntry `json:"data"`
	HasNextPage bool        `json:"hasNextPage"`
}

// GetOwnedAsset returns the lowest-ID coin object of the bridged type owned
// by the account. Lowest-ID selection keeps asset selection reproducible
// across retries and nodes.
func (c *SuiClient) GetOwnedAsset(ctx context.Context, account string) (string, *types.Error) {
	coins, err := c.ownedCoins(ctx, account)
	if err != nil {
		return "", err
	}
	if len(coins) == 0 {
		return "", types.NewErrorWithMsg(
			http.StatusNotFound, types.NotFound,
			fmt.Sprintf("account %s owns no %s coins", account, c.cfg.CoinType()),
		)
	}

	sort.Slice(coins, func(i, j int) bool {
		return coins[i].CoinObjectID < coins[j].CoinObjectID
	})
	return coins[0].CoinObjectID, nil
}

func (c *SuiClient) ownedCoins(ctx context.Context, account string) ([]coinEntry, *types.Error) {
	var page coinPage
	params := []interface{}{account, c.cfg.CoinType()}
	if err := c.call(ctx, "suix_getCoins", params, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// SubmitBurn burns a whole coin object. Coin units are discrete on this
// ledger, so the selected coin's balance must match the requested amount
// exactly: burning a larger coin would destroy more value than the caller
// asked to bridge.
func (c *SuiClient) SubmitBurn(
	ctx context.Context, account, assetID string, amount *big.Int,
) (*types.OperationHandle, *types.Error) {
	coins, err := c.ownedCoins(ctx, account)
	if err != nil {
		return nil, err
	}

	var balance string
	for _, coin := range coins {
		if coin.CoinObjectID == assetID {
			balance = coin.Balance
			break
		}
	}
	if balance == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusNotFound, types.NotFound,
			fmt.Sprintf("coin %s not owned by %s", assetID, account),
		)
	}
	if balance != amount.String() {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("coin %s balance %s does not match requested burn amount %s", assetID, balance, amount),
		)
	}

	digest, err := c.moveCall(ctx, "burn", []interface{}{
		c.cfg.TreasuryCapID, c.cfg.MinterCapID, assetID,
	})
	if err != nil {
		return nil, err
	}

	return &types.OperationHandle{
		Ledger: types.LedgerSui,
		Kind:   types.OperationBurn,
		TxHash: digest,
		Amount: new(big.Int).Set(amount),
	}, nil
}

func (c *SuiClient) SubmitMint(
	ctx context.Context, account string, amount *big.Int,
) (*types.OperationHandle, *types.Error) {
	digest, err := c.moveCall(ctx, "mint", []interface{}{
		c.cfg.TreasuryCapID, c.cfg.MinterCapID, amount.String(), account,
	})
	if err != nil {
		return nil, err
	}

	return &types.OperationHandle{
		Ledger: types.LedgerSui,
		Kind:   types.OperationMint,
		TxHash: digest,
		Amount: new(big.Int).Set(amount),
	}, nil
}

type txBytesResponse struct {
	TxBytes string `json:"txBytes"`
}

type txEffects struct {
	Status struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	} `json:"status"`
}

type balanceChange struct {
	Owner struct {
		AddressOwner string `json:"AddressOwner"`
	} `json:"owner"`
	CoinType string `json:"coinType"`
	Amount   string `json:"amount"`
}

type txBlockResponse struct {
	Digest         string          `json:"digest"`
	Effects        *txEffects      `json:"effects"`
	BalanceChanges []balanceChange `json:"balanceChanges"`
}

// moveCall resolves the authority objects, builds the transaction via the
// node, signs it, and executes it. Authority references are fetched here,
// immediately before submission, and discarded afterwards.
func (c *SuiClient) moveCall(ctx context.Context, function string, args []interface{}) (string, *types.Error) {
	treasuryRef, err := c.ResolveObject(ctx, c.cfg.TreasuryCapID)
	if err != nil {
		return "", err
	}
	minterRef, err := c.ResolveObject(ctx, c.cfg.MinterCapID)
	if err != nil {
		return "", err
	}

	log.Ctx(ctx).Debug().
		Str("function", function).
		Uint64("treasuryCapVersion", treasuryRef.Version).
		Uint64("minterCapVersion", minterRef.Version).
		Msg("resolved authority object references")

	var built txBytesResponse
	buildParams := []interface{}{
		c.address,
		c.cfg.PackageID,
		c.cfg.Module,
		function,
		[]string{},
		args,
		nil, // let the node pick a gas object
		strconv.FormatUint(c.cfg.GasBudget, 10),
	}
	if err := c.call(ctx, "unsafe_moveCall", buildParams, &built); err != nil {
		return "", classifySubmissionError(err)
	}

	rawTxBytes, decodeErr := base64.StdEncoding.DecodeString(built.TxBytes)
	if decodeErr != nil {
		return "", types.NewInternalServiceError(
			fmt.Errorf("failed to decode transaction bytes: %w", decodeErr),
		)
	}
	signature := signTransaction(c.cfg.PrivKey, rawTxBytes)

	var executed txBlockResponse
	execParams := []interface{}{
		built.TxBytes,
		[]string{signature},
		map[string]bool{"showEffects": true, "showBalanceChanges": true},
		"WaitForEffectsCert",
	}
	if err := c.call(ctx, "sui_executeTransactionBlock", execParams, &executed); err != nil {
		return "", classifySubmissionError(err)
	}

	if executed.Effects != nil && executed.Effects.Status.Status != "success" {
		// The node executed the transaction and reported a non-success
		// status: this is a rejection, not a pending operation.
		if strings.Contains(executed.Effects.Status.Error, staleObjectErrFragment) {
			return "", types.NewErrorWithMsg(
				http.StatusConflict, types.ObjectStale, executed.Effects.Status.Error,
			)
		}
		return "", types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("sui %s execution failed: %s", function, executed.Effects.Status.Error),
		)
	}

	return executed.Digest, nil
}

// AwaitConfirmation polls the transaction block by digest until effects are
// available or the deadline elapses.
func (c *SuiClient) AwaitConfirmation(
	ctx context.Context, handle *types.OperationHandle, deadline time.Duration,
) (*types.Confirmation, *types.Error) {
	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	params := []interface{}{
		handle.TxHash,
		map[string]bool{"showEffects": true, "showBalanceChanges": true},
	}

	for {
		var block txBlockResponse
		err := c.call(waitCtx, "sui_getTransactionBlock", params, &block)
		if err == nil && block.Effects != nil {
			return c.confirmationFromBlock(handle, &block), nil
		}
		if err != nil && err.ErrorCode != types.BadRequest && waitCtx.Err() == nil {
			log.Ctx(ctx).Warn().Err(err.Err).
				Str("digest", handle.TxHash).
				Msg("transient error while polling sui transaction block")
		}

		select {
		case <-waitCtx.Done():
			return &types.Confirmation{
				Status: types.ConfirmationTimedOut,
				TxHash: handle.TxHash,
			}, nil
		case <-ticker.C:
		}
	}
}

func (c *SuiClient) confirmationFromBlock(
	handle *types.OperationHandle, block *txBlockResponse,
) *types.Confirmation {
	if block.Effects.Status.Status != "success" {
		return &types.Confirmation{
			Status:      types.ConfirmationFailed,
			TxHash:      handle.TxHash,
			LedgerError: block.Effects.Status.Error,
		}
	}

	return &types.Confirmation{
		Status:       types.ConfirmationConfirmed,
		TxHash:       handle.TxHash,
		BalanceDelta: c.balanceDelta(block.BalanceChanges),
	}
}

// balanceDelta returns the absolute balance change of the bridged coin type,
// the ledger-reported amount actually minted or burned. Nil when the node
// reports no matching change.
func (c *SuiClient) balanceDelta(changes []balanceChange) *big.Int {
	for _, change := range changes {
		if change.CoinType != c.cfg.CoinType() {
			continue
		}
		delta, ok := new(big.Int).SetString(change.Amount, 10)
		if !ok {
			continue
		}
		return delta.Abs(delta)
	}
	return nil
}

func classifySubmissionError(err *types.Error) *types.Error {
	if err.ErrorCode == types.BadRequest && strings.Contains(err.Err.Error(), staleObjectErrFragment) {
		return types.NewError(http.StatusConflict, types.ObjectStale, err.Err)
	}
	return err
}

func parseVersion(raw json.RawMessage) (uint64, error) {
	s := strings.Trim(string(raw), `"`)
	return strconv.ParseUint(s, 10, 64)
}
