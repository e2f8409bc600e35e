package api

import (
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/tokenport/bridge-api-service/docs"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Post("/v1/bridge", registerHandler(handlers.BridgeTokens))
	r.Get("/v1/bridge/outcome", registerHandler(handlers.GetBridgeOutcome))
	r.Get("/v1/reconciliation", registerHandler(handlers.GetUnprocessedReconciliationEntries))
	r.Post("/v1/reconciliation/processed", registerHandler(handlers.MarkReconciliationProcessed))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
