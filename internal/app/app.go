package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/specialistvlad/flowpc/internal/ctxlog"
	"github.com/specialistvlad/flowpc/internal/metrics"
	"github.com/specialistvlad/flowpc/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry

	promRegistry *prometheus.Registry
	metrics      *metrics.Collector
	httpServer   *http.Server
}

// NewApp is the constructor for the main application. It loads the
// configuration with every given loader, merges the results and validates
// them. Configuration errors are fatal startup errors and cause a panic.
func NewApp(outW io.Writer, cfg *Config, loaders ...config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := config.NewModel()
	for _, loader := range loaders {
		m, err := loader.Load(ctx, cfg.ConfigPath)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		if err := model.Merge(m); err != nil {
			panic(fmt.Errorf("failed to merge configuration: %w", err))
		}
	}
	logger.Debug("Configuration loaded and translated into unified model.", "flows", len(model.Flows), "scenarios", len(model.Scenarios))

	reg := registry.New()
	reg.PopulateFromModel(model)
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	collector, err := metrics.New(promRegistry)
	if err != nil {
		panic(fmt.Errorf("failed to register metrics: %w", err))
	}

	return &App{
		outW:         outW,
		logger:       logger,
		config:       cfg,
		registry:     reg,
		promRegistry: promRegistry,
		metrics:      collector,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the lifecycle collectors. This is primarily for testing.
func (a *App) Metrics() *metrics.Collector {
	return a.metrics
}
