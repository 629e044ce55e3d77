//go:build wireinject
// +build wireinject

package di

import (
	"TrueArk/pkg/config"
	"TrueArk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideEphemeris,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideChartStore,
		ProvideChartPublisher,

		// Use cases
		ProvideChartComputer,
		ProvideChartService,

		// HTTP
		ProvideRateLimiter,
		ProvideHandlers,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
