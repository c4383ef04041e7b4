//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"pbcheck/internal"
	"pbcheck/internal/controllers"
	"pbcheck/internal/fetcher"
	"pbcheck/internal/lottery"
	"pbcheck/internal/parser"
	"pbcheck/internal/persistence"
	"pbcheck/internal/providers"
	"pbcheck/internal/scheduler"
	"pbcheck/internal/services"
	"pbcheck/internal/structures"
)

var checkerSet = wire.NewSet(
	provideLogger,
	provideCompressor,
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,
	providers.NewHTTPClientProvider,

	lottery.NewFetchPolicy,
	fetcher.NewHTTPFetcher,
	parser.NewParser,
	persistence.NewFileStore,
	persistence.NewRepository,
	services.NewCheckerService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		checkerSet,

		scheduler.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitChecker(cfg *structures.CliFlags) (*internal.Checker, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		checkerSet,
		internal.NewChecker,
	)

	return nil, nil, nil
}
