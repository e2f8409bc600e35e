package eth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	"github.com/tokenport/bridge-api-service/internal/config"
	"github.com/tokenport/bridge-api-service/internal/observability/metrics"
	"github.com/tokenport/bridge-api-service/internal/types"
	"github.com/tokenport/bridge-api-service/internal/utils"
)

// Minimal ABI of the bridged token contract: operator mint/burn plus the
// standard Transfer event used to read back the confirmed balance change.
const bridgeTokenABI = `[
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

type EthClient struct {
	cfg      *config.EthConfig
	client   *ethclient.Client
	contract *bind.BoundContract
	abi      abi.ABI
	auth     *bind.TransactOpts

	// Serializes transaction submission so concurrent bridge requests do not
	// race over the operator account nonce. Confirmation waits are not held
	// under this lock.
	submitMu sync.Mutex
}

func NewEthClient(cfg *config.EthConfig) (*EthClient, error) {
	client, err := ethclient.Dial(cfg.RPCAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial eth rpc at %s: %w", cfg.RPCAddr, err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(bridgeTokenABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bridge token abi: %w", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(cfg.PrivKey, big.NewInt(cfg.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create eth transactor: %w", err)
	}
	auth.GasLimit = cfg.GasLimit

	contract := bind.NewBoundContract(cfg.Contract, parsedABI, client, client, client)

	return &EthClient{
		cfg:      cfg,
		client:   client,
		contract: contract,
		abi:      parsedABI,
		auth:     auth,
	}, nil
}

func (c *EthClient) Ledger() types.Ledger {
	return types.LedgerEth
}

func (c *EthClient) Decimals() int {
	return c.cfg.Decimals
}

func (c *EthClient) ValidateAddress(address string) bool {
	return utils.IsValidEthAddress(address)
}

// GetOwnedAsset is a no-op on an account-model ledger: the account's balance
// is directly addressable, so the account is its own asset handle.
func (c *EthClient) GetOwnedAsset(_ context.Context, account string) (string, *types.Error) {
	if !utils.IsValidEthAddress(account) {
		return "", types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError, fmt.Sprintf("invalid eth account: %s", account),
		)
	}
	return account, nil
}

func (c *EthClient) SubmitBurn(
	ctx context.Context, account, _ string, amount *big.Int,
) (*types.OperationHandle, *types.Error) {
	tx, err := c.transact(ctx, "burn", common.HexToAddress(account), amount)
	if err != nil {
		return nil, err
	}

	return &types.OperationHandle{
		Ledger: types.LedgerEth,
		Kind:   types.OperationBurn,
		TxHash: tx.Hash().Hex(),
		Amount: new(big.Int).Set(amount),
	}, nil
}

func (c *EthClient) SubmitMint(
	ctx context.Context, account string, amount *big.Int,
) (*types.OperationHandle, *types.Error) {
	tx, err := c.transact(ctx, "mint", common.HexToAddress(account), amount)
	if err != nil {
		return nil, err
	}

	return &types.OperationHandle{
		Ledger: types.LedgerEth,
		Kind:   types.OperationMint,
		TxHash: tx.Hash().Hex(),
		Amount: new(big.Int).Set(amount),
	}, nil
}

func (c *EthClient) transact(
	ctx context.Context, method string, to common.Address, amount *big.Int,
) (*ethtypes.Transaction, *types.Error) {
	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	opts := *c.auth
	opts.Context = ctx

	timer := metrics.StartLedgerRequestTimer(types.LedgerEth.ToString(), method)
	tx, err := c.contract.Transact(&opts, method, to, amount)
	if err != nil {
		timer(metrics.Error)
		if isTransportError(err) {
			return nil, types.NewError(
				http.StatusServiceUnavailable, types.LedgerUnavailable,
				fmt.Errorf("eth rpc unavailable while submitting %s: %w", method, err),
			)
		}
		// Node-side rejection (gas estimation revert, insufficient funds,
		// nonce issues): nothing was accepted into the pool.
		return nil, types.NewError(
			http.StatusBadRequest, types.BadRequest,
			fmt.Errorf("eth %s submission rejected: %w", method, err),
		)
	}

	timer(metrics.Success)

	log.Ctx(ctx).Debug().
		Str("method", method).
		Str("txHash", tx.Hash().Hex()).
		Msg("eth transaction submitted")

	return tx, nil
}

// AwaitConfirmation polls for the transaction receipt until the deadline
// elapses. Transport errors during polling are retried until the deadline;
// only the ledger-reported execution status decides success or failure.
func (c *EthClient) AwaitConfirmation(
	ctx context.Context, handle *types.OperationHandle, deadline time.Duration,
) (*types.Confirmation, *types.Error) {
	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	txHash := common.HexToHash(handle.TxHash)
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.client.TransactionReceipt(waitCtx, txHash)
		if err == nil && receipt != nil {
			return c.confirmationFromReceipt(handle, receipt), nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) && waitCtx.Err() == nil {
			log.Ctx(ctx).Warn().Err(err).
				Str("txHash", handle.TxHash).
				Msg("transient error while polling eth receipt")
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

func (c *EthClient) confirmationFromReceipt(
	handle *types.OperationHandle, receipt *ethtypes.Receipt,
) *types.Confirmation {
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return &types.Confirmation{
			Status:      types.ConfirmationFailed,
			TxHash:      handle.TxHash,
			LedgerError: fmt.Sprintf("execution reverted in block %d", receipt.BlockNumber),
		}
	}

	return &types.Confirmation{
		Status:       types.ConfirmationConfirmed,
		TxHash:       handle.TxHash,
		BalanceDelta: c.transferValueFromLogs(receipt),
	}
}

// transferValueFromLogs extracts the value of the contract's Transfer event
// from the receipt, which is the ledger-reported amount actually moved. Nil
// when no matching event is found.
func (c *EthClient) transferValueFromLogs(receipt *ethtypes.Receipt) *big.Int {
	transferTopic := c.abi.Events["Transfer"].ID
	for _, vLog := range receipt.Logs {
		if vLog.Address != c.cfg.Contract || len(vLog.Topics) == 0 || vLog.Topics[0] != transferTopic {
			continue
		}
		values, err := c.abi.Unpack("Transfer", vLog.Data)
		if err != nil || len(values) == 0 {
			continue
		}
		if value, ok := values[0].(*big.Int); ok {
			return value
		}
	}
	return nil
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "no such host")
}
