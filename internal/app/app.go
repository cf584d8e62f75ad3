package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"VetNutrition/internal/catalog"
	"VetNutrition/internal/config"
	"VetNutrition/internal/energy"
	"VetNutrition/internal/infrastructure/catalogdata"
	"VetNutrition/internal/infrastructure/httpapi"
	"VetNutrition/internal/infrastructure/mcptools"
	"VetNutrition/internal/infrastructure/parser"
	"VetNutrition/internal/logging"
	"VetNutrition/internal/scanner"
	"VetNutrition/internal/usecase"
)

// Application wires configs to use cases and outer surfaces.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	planner *usecase.Planner
	server  *httpapi.Server
}

// New loads the catalogs and the state table and builds every component.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := catalogdata.New(catalogdata.Paths{
		Legacy:     cfg.Catalog.LegacyPath,
		Commercial: cfg.Catalog.CommercialPath,
		Factors:    cfg.Catalog.FactorsPath,
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog data: %w", err)
	}

	rows, err := store.Factors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load factors: %w", err)
	}
	table, err := energy.NewFactorTable(rows)
	if err != nil {
		return nil, err
	}

	legacy, err := store.LegacyFoods(ctx)
	if err != nil {
		return nil, fmt.Errorf("load legacy foods: %w", err)
	}
	commercial, err := store.CommercialFoods(ctx)
	if err != nil {
		return nil, fmt.Errorf("load commercial foods: %w", err)
	}
	unifier, err := catalog.NewUnifier(legacy, commercial, cfg.Catalog.MemoSize)
	if err != nil {
		return nil, err
	}
	baseLogger.Debug("catalog loaded", "legacy", len(legacy), "commercial", len(commercial), "entries", unifier.Len())

	registry := scanner.NewRegistry()
	registry.Register(parser.NewGuaranteeTableScanner(
		&http.Client{Timeout: cfg.Importer.Timeout},
		cfg.Importer.UserAgent,
		baseLogger.With("component", "scanner.guarantee"),
	))
	importer := parser.NewStrategyImporter(registry, cfg.Importer.Sites, baseLogger.With("component", "importer"))

	planner := usecase.NewPlanner(usecase.PlannerDeps{
		Calculator: energy.NewCalculator(table),
		Catalog:    unifier,
		Importer:   importer,
		Logger:     baseLogger.With("component", "planner"),
	})

	server := httpapi.NewServer(httpapi.Deps{
		Planner: planner,
		Tools:   mcptools.New(planner, baseLogger.With("component", "mcp")),
		Logger:  baseLogger.With("component", "http"),
	})

	return &Application{cfg: cfg, logger: baseLogger, planner: planner, server: server}, nil
}

// Planner exposes the use case for the CLI.
func (a *Application) Planner() *usecase.Planner {
	return a.planner
}

// Server exposes the HTTP adapter.
func (a *Application) Server() *httpapi.Server {
	return a.server
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	return a.server.Run(ctx, a.cfg.HTTP.Addr, a.cfg.HTTP.ReadTimeout)
}
