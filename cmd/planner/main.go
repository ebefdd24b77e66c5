package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"tourplanner/config"
	logs "tourplanner/internal/infra/log"
	"tourplanner/internal/pipeline"
	"tourplanner/internal/roadgraph"
)

var verbose = flag.Bool("verbose", false, "print the per-stop package-ID route dump after each vehicle's report")

func main() {
	flag.Parse()

	fx.New(
		injectInfra(),
		fx.Invoke(runPipeline),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		newProvider,
	)
}

func newProvider(cfg *config.Config) (*roadgraph.Provider, error) {
	return roadgraph.NewProvider(cfg.PMTiles.Source, cfg.PMTiles.RoadLayer, cfg.PMTiles.Zoom, slog.Default())
}

type runParams struct {
	fx.In
	fx.Shutdowner

	Ctx      context.Context
	Config   *config.Config
	Logger   *slog.Logger
	Provider *roadgraph.Provider
}

// runPipeline runs the planner exactly once and shuts fx down with the
// run's outcome, rather than serving requests indefinitely.
func runPipeline(p runParams) {
	err := pipeline.Run(p.Ctx, pipeline.Params{
		Config:   p.Config,
		Logger:   p.Logger,
		Provider: p.Provider,
		Verbose:  *verbose,
	})
	if err != nil {
		p.Logger.Error("pipeline run failed", slog.Any("error", err))
		if shutdownErr := p.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
			os.Exit(1)
		}

		return
	}

	if shutdownErr := p.Shutdown(); shutdownErr != nil {
		p.Logger.Error("shutdown failed", slog.Any("error", shutdownErr))
		os.Exit(1)
	}
}
