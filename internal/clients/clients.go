package clients

import (
	"context"
	"math/big"
	"time"

	"github.com/tokenport/bridge-api-service/internal/clients/eth"
	"github.com/tokenport/bridge-api-service/internal/clients/sui"
	"github.com/tokenport/bridge-api-service/internal/config"
	"github.com/tokenport/bridge-api-service/internal/types"
)

// LedgerClient is the capability interface the orchestrator drives. One
// adapter exists per ledger; the orchestrator never sees ledger-specific RPC
// shapes.
type LedgerClient interface {
	Ledger() types.Ledger
	Decimals() int
	ValidateAddress(address string) bool
	// GetOwnedAsset locates the spendable unit to burn for the given
	// account. On the object-model ledger this is the lowest-ID owned coin
	// object of the bridged type; on the account-model ledger the account
	// itself is the asset.
	GetOwnedAsset(ctx context.Context, account string) (string, *types.Error)
	SubmitBurn(ctx context.Context, account, assetID string, amount *big.Int) (*types.OperationHandle, *types.Error)
	SubmitMint(ctx context.Context, account string, amount *big.Int) (*types.OperationHandle, *types.Error)
	// AwaitConfirmation polls the ledger until the operation is finalized or
	// the deadline elapses. A deadline elapse yields a timed_out
	// confirmation, never an error: the operation may still confirm later
	// and must not be assumed reversed.
	AwaitConfirmation(ctx context.Context, handle *types.OperationHandle, deadline time.Duration) (*types.Confirmation, *types.Error)
}

type Clients struct {
	Eth LedgerClient
	Sui LedgerClient
}

func New(cfg *config.Config) (*Clients, error) {
	ethClient, err := eth.NewEthClient(&cfg.Eth)
	if err != nil {
		return nil, err
	}
	suiClient, err := sui.NewSuiClient(&cfg.Sui)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Eth: ethClient,
		Sui: suiClient,
	}, nil
}

// ForDirection returns the (source, destination) ledger clients for a bridge
// direction.
func (c *Clients) ForDirection(direction types.Direction) (LedgerClient, LedgerClient) {
	if direction == types.DirectionSuiToEth {
		return c.Sui, c.Eth
	}
	return c.Eth, c.Sui
}
