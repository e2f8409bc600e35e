package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tokenport/bridge-api-service/internal/clients"
	"github.com/tokenport/bridge-api-service/internal/config"
	"github.com/tokenport/bridge-api-service/internal/db"
	"github.com/tokenport/bridge-api-service/internal/queue"
)

// Service layer contains the business logic and is used to interact with
// the database and the ledger clients.
type Services struct {
	DbClient db.DBClient
	Clients  *clients.Clients
	Queues   *queue.Queues
	cfg      *config.Config
}

func New(ctx context.Context, cfg *config.Config, clients *clients.Clients, queues *queue.Queues) (*Services, error) {
	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
		return nil, err
	}
	return &Services{
		DbClient: dbClient,
		Clients:  clients,
		Queues:   queues,
		cfg:      cfg,
	}, nil
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}
