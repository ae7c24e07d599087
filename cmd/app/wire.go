//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/skyplan/internal/bootstrap"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	"github.com/yanqian/skyplan/internal/domain/planner"
	"github.com/yanqian/skyplan/internal/domain/recommend"
	"github.com/yanqian/skyplan/internal/infra/config"
	httpiface "github.com/yanqian/skyplan/internal/interface/http"
	"github.com/yanqian/skyplan/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRecommendConfig,
		providePlannerConfig,
		provideRefreshConfig,
		provideCatalogRepository,
		provideObserverRepository,
		provideHorizonSource,
		provideWindowCache,
		provideRegistry,
		providePublisher,
		catalog.NewService,
		observer.NewService,
		planner.NewService,
		recommend.NewService,
		recommend.NewRefresher,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
