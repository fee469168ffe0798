package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vorsorge/depotvergleich/internal/calculation"
	"github.com/vorsorge/depotvergleich/internal/config"
	"github.com/vorsorge/depotvergleich/internal/logging"
	"github.com/vorsorge/depotvergleich/internal/metrics"
	"github.com/vorsorge/depotvergleich/internal/reference"
)

// app holds what every subcommand shares
type app struct {
	settings *config.Settings
	logger   *zap.SugaredLogger
	catalog  *reference.Catalog
}

func (a *app) init(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("settings")
	settings, err := config.LoadSettings(path)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		settings.Log.Level = lvl
	}
	a.settings = settings

	logger, err := logging.New(settings.Log.Level, settings.Log.Format)
	if err != nil {
		return err
	}
	a.logger = logger

	if settings.Data.Dir != "" {
		a.catalog, err = reference.LoadDir(settings.Data.Dir)
	} else {
		a.catalog, err = reference.Embedded()
	}
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// engine builds a projection engine wired to the settings, tariffs and metrics
func (a *app) engine(strict bool) *calculation.ProjectionEngine {
	opts := []calculation.EngineOption{
		calculation.WithEngineLogger(a.logger),
		calculation.WithTariffSource(a.catalog),
		calculation.WithTaxDefaults(a.catalog.DefaultTaxParams()),
		calculation.WithRecorder(metrics.NewRecorder()),
	}
	if strict || a.settings.Simulate.StrictAges {
		opts = append(opts, calculation.WithStrictAges())
	}
	return calculation.NewProjectionEngine(opts...)
}
