package runtime

import (
	"context"
	"fmt"

	"github.com/hopital-foch/ll-report/pkg/services/config"
	"github.com/hopital-foch/ll-report/pkg/services/mapping"
	"github.com/hopital-foch/ll-report/pkg/services/report"
	"github.com/hopital-foch/ll-report/pkg/store/easily"
	"github.com/hopital-foch/ll-report/pkg/store/gam"
	"github.com/hopital-foch/ll-report/pkg/store/profiles"
	"github.com/rs/zerolog"
)

// App bundles the wired report pipeline with its configuration and the
// resources to release on exit.
type App struct {
	Controller report.Controller
	Config     *config.AppConfig

	closers []func() error
}

// NewApp wires the full pipeline from a configuration file: specialty
// matrix, database profiles, both source stores and the report controller.
func NewApp(ctx context.Context, cfgPath string) (*App, error) {
	logger := zerolog.Ctx(ctx)

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	table, err := mapping.Load(cfg.MappingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load specialty matrix: %w", err)
	}
	logger.Info().Int("units", table.Len()).Str("path", cfg.MappingPath).Msg("specialty matrix loaded")

	registry, err := profiles.NewRegistry(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	gamProfile, err := registry.GetProfile("gam")
	if err != nil {
		return nil, err
	}
	easilyProfile, err := registry.GetProfile("easily")
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg}

	gamStore, err := gam.Open(gamProfile)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, gamStore.Close)

	easilyStore, err := easily.Open(easilyProfile)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.closers = append(app.closers, easilyStore.Close)

	holidays, err := cfg.HolidayDates()
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	ctrl, err := report.NewController(gamStore, easilyStore, table, report.Settings{
		ExcludedUnits: cfg.ExcludedUnits,
		Holidays:      holidays,
		Thresholds:    cfg.IndicatorThresholds(),
		Historical:    cfg.HistoricalRefs(),
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Controller = ctrl

	return app, nil
}

func (a *App) Close() error {
	var firstErr error
	for _, close := range a.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
