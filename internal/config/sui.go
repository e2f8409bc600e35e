package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type SuiConfig struct {
	RPCAddr             string        `mapstructure:"rpc-addr"`
	PrivateKey          string        `mapstructure:"private-key"`
	PackageID           string        `mapstructure:"package-id"`
	Module              string        `mapstructure:"module"`
	TreasuryCapID       string        `mapstructure:"treasury-cap-id"`
	MinterCapID         string        `mapstructure:"minter-cap-id"`
	Decimals            int           `mapstructure:"decimals"`
	GasBudget           uint64        `mapstructure:"gas-budget"`
	RequestTimeout      time.Duration `mapstructure:"request-timeout"`
	ConfirmationTimeout time.Duration `mapstructure:"confirmation-timeout"`
	MaxConfirmationWait time.Duration `mapstructure:"max-confirmation-wait"`
	PollInterval        time.Duration `mapstructure:"poll-interval"`

	PrivKey ed25519.PrivateKey
}

func (cfg *SuiConfig) Validate() error {
	parsedURL, err := url.ParseRequestURI(cfg.RPCAddr)
	if err != nil {
		return errors.New("invalid sui rpc address")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("sui rpc address must use http or https")
	}

	if cfg.Module == "" {
		return errors.New("missing sui module name")
	}

	if cfg.Decimals <= 0 {
		return errors.New("sui decimals must be positive")
	}

	if cfg.GasBudget == 0 {
		return errors.New("sui gas budget must be positive")
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New("sui request timeout must be positive")
	}

	if cfg.ConfirmationTimeout <= 0 {
		return errors.New("sui confirmation timeout must be positive")
	}

	if cfg.MaxConfirmationWait < cfg.ConfirmationTimeout {
		return errors.New("sui max confirmation wait must not be smaller than the confirmation timeout")
	}

	if cfg.PollInterval <= 0 {
		return errors.New("sui poll interval must be positive")
	}

	for name, id := range map[string]string{
		"package-id":      cfg.PackageID,
		"treasury-cap-id": cfg.TreasuryCapID,
		"minter-cap-id":   cfg.MinterCapID,
	} {
		if !isHexObjectID(id) {
			return fmt.Errorf("invalid sui %s: %s", name, id)
		}
	}

	seed, err := hex.DecodeString(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil || len(seed) != ed25519.SeedSize {
		return errors.New("sui private key must be a 32-byte hex encoded ed25519 seed")
	}
	cfg.PrivKey = ed25519.NewKeyFromSeed(seed)

	return nil
}

// CoinType returns the fully qualified coin type of the bridged token,
// e.g. 0x93..85::token::TOKEN.
func (cfg *SuiConfig) CoinType() string {
	return fmt.Sprintf("%s::%s::%s", cfg.PackageID, cfg.Module, strings.ToUpper(cfg.Module))
}

func isHexObjectID(id string) bool {
	if !strings.HasPrefix(id, "0x") || len(id) < 3 || len(id) > 66 {
		return false
	}
	_, err := hex.DecodeString(strings.TrimPrefix(id, "0x"))
	return err == nil
}
