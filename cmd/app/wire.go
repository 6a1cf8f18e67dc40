//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-dashboard/internal/bootstrap"
	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
	"github.com/yanqian/weather-dashboard/internal/infra/weatherapi"
	httpiface "github.com/yanqian/weather-dashboard/internal/interface/http"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideWeatherAPIConfig,
		provideTracing,
		provideTracer,
		weatherapi.NewClient,
		forecast.NewService,
		wire.Bind(new(forecast.Client), new(*weatherapi.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
