package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tokenport/bridge-api-service/cmd/bridge-api-service/cli"
	"github.com/tokenport/bridge-api-service/cmd/bridge-api-service/scripts"
	"github.com/tokenport/bridge-api-service/internal/api"
	"github.com/tokenport/bridge-api-service/internal/clients"
	"github.com/tokenport/bridge-api-service/internal/config"
	"github.com/tokenport/bridge-api-service/internal/db/model"
	"github.com/tokenport/bridge-api-service/internal/observability/healthcheck"
	"github.com/tokenport/bridge-api-service/internal/observability/metrics"
	"github.com/tokenport/bridge-api-service/internal/queue"
	"github.com/tokenport/bridge-api-service/internal/services"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	err = model.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up bridge db model")
	}

	ledgerClients, err := clients.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger clients")
	}
	queues := queue.New(&cfg.Queue)

	services, err := services.New(ctx, cfg, ledgerClients, queues)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up bridge services layer")
	}

	// Check if the replay flag is set
	if cli.GetReplayReconciliationFlag() {
		log.Info().Msg("Replay flag is set. Starting replay of reconciliation events.")
		if err := scripts.ReplayReconciliationEvents(ctx, services); err != nil {
			log.Fatal().Err(err).Msg("error while replaying reconciliation events")
		}
		return
	}

	if err := healthcheck.StartHealthCheckCron(ctx, queues, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up bridge api service")
	}
	if err = apiServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("error while starting bridge api service")
	}
}
