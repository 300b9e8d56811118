//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"pagebot/internal"
	"pagebot/internal/controllers"
	"pagebot/internal/models"
	"pagebot/internal/providers"
	"pagebot/internal/services"
	"pagebot/internal/storage"
	"pagebot/internal/structures"
	"pagebot/internal/telegram"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewInstrumentedCacheProvider,
		models.NewDefaultState,
		providers.NewMetricsProvider,

		storage.NewZstdCompressor,
		storage.NewFileManager,
		storage.NewActivityLog,
		storage.NewScheduler,

		wire.Bind(new(services.StoreInterface), new(*storage.FileManager)),
		wire.Bind(new(services.RecorderInterface), new(*storage.ActivityLog)),
		wire.Bind(new(controllers.ActivityReaderInterface), new(*storage.ActivityLog)),
		wire.Bind(new(telegram.TransportInterface), new(*telegram.Bot)),

		services.NewPageService,
		services.NewFileService,
		services.NewStatsService,
		services.NewBackupService,

		telegram.NewBot,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
