package config

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type EthConfig struct {
	RPCAddr             string        `mapstructure:"rpc-addr"`
	PrivateKey          string        `mapstructure:"private-key"`
	ContractAddress     string        `mapstructure:"contract-address"`
	ChainID             int64         `mapstructure:"chain-id"`
	Decimals            int           `mapstructure:"decimals"`
	GasLimit            uint64        `mapstructure:"gas-limit"`
	ConfirmationTimeout time.Duration `mapstructure:"confirmation-timeout"`
	MaxConfirmationWait time.Duration `mapstructure:"max-confirmation-wait"`
	PollInterval        time.Duration `mapstructure:"poll-interval"`

	PrivKey  *ecdsa.PrivateKey
	Contract common.Address
}

func (cfg *EthConfig) Validate() error {
	parsedURL, err := url.ParseRequestURI(cfg.RPCAddr)
	if err != nil {
		return errors.New("invalid eth rpc address")
	}
	switch parsedURL.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return errors.New("eth rpc address must use http(s) or ws(s)")
	}

	if cfg.ChainID <= 0 {
		return errors.New("eth chain id must be positive")
	}

	if cfg.Decimals <= 0 {
		return errors.New("eth decimals must be positive")
	}

	if cfg.ConfirmationTimeout <= 0 {
		return errors.New("eth confirmation timeout must be positive")
	}

	if cfg.MaxConfirmationWait < cfg.ConfirmationTimeout {
		return errors.New("eth max confirmation wait must not be smaller than the confirmation timeout")
	}

	if cfg.PollInterval <= 0 {
		return errors.New("eth poll interval must be positive")
	}

	if !common.IsHexAddress(cfg.ContractAddress) {
		return fmt.Errorf("invalid eth contract address: %s", cfg.ContractAddress)
	}
	cfg.Contract = common.HexToAddress(cfg.ContractAddress)

	privKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return fmt.Errorf("invalid eth private key: %w", err)
	}
	cfg.PrivKey = privKey

	return nil
}
