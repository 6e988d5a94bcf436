//go:build wireinject
// +build wireinject

//go:generate go run -mod=mod github.com/google/wire/cmd/wire

package di

import (
	wire "github.com/google/wire"
	"pilot/internal"
	"pilot/internal/ai"
	"pilot/internal/controllers"
	"pilot/internal/providers"
	"pilot/internal/quota"
	"pilot/internal/scheduler"
	"pilot/internal/services"
	"pilot/internal/storage"
	"pilot/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewCompressor,
		storage.NewRecordStore,
		quota.NewEngineFromConfig,
		ai.NewGenerator,
		services.NewSessionService,
		wire.Bind(new(services.SessionServiceInterface), new(*services.SessionService)),
		controllers.NewApiController,
		controllers.NewHealthController,
		scheduler.NewScheduler,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
