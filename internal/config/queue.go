package config

import (
	"fmt"
	"time"
)

type QueueConfig struct {
	Url                     string        `mapstructure:"url"`
	QueueUser               string        `mapstructure:"queue-user"`
	QueuePassword           string        `mapstructure:"queue-password"`
	ReconciliationQueueName string        `mapstructure:"reconciliation-queue-name"`
	PublishTimeout          time.Duration `mapstructure:"publish-timeout"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return fmt.Errorf("missing queue url")
	}

	if cfg.QueueUser == "" {
		return fmt.Errorf("missing queue user")
	}

	if cfg.QueuePassword == "" {
		return fmt.Errorf("missing queue password")
	}

	if cfg.ReconciliationQueueName == "" {
		return fmt.Errorf("missing reconciliation queue name")
	}

	if cfg.PublishTimeout <= 0 {
		return fmt.Errorf("publish timeout must be positive")
	}

	return nil
}
