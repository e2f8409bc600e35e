package config

import (
	"errors"
	"time"
)

const maxStaleObjectRetryCap = 10

type BridgeConfig struct {
	MaxStaleObjectRetries int           `mapstructure:"max-stale-object-retries"`
	LedgerRetryAttempts   int           `mapstructure:"ledger-retry-attempts"`
	LedgerRetryBackoff    time.Duration `mapstructure:"ledger-retry-backoff"`
}

func (cfg *BridgeConfig) Validate() error {
	if cfg.MaxStaleObjectRetries <= 0 {
		return errors.New("max stale object retries must be positive")
	}

	// Stale retries race against other bridge requests over the shared
	// authority objects. The bound keeps a pathologically contended object
	// from pinning a request forever.
	if cfg.MaxStaleObjectRetries > maxStaleObjectRetryCap {
		return errors.New("max stale object retries is capped at 10")
	}

	if cfg.LedgerRetryAttempts <= 0 {
		return errors.New("ledger retry attempts must be positive")
	}

	if cfg.LedgerRetryBackoff <= 0 {
		return errors.New("ledger retry backoff must be positive")
	}

	return nil
}
