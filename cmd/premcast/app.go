package main

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/premcast/internal/calculation"
	"github.com/rgehrsitz/premcast/internal/config"
	"github.com/rgehrsitz/premcast/internal/dataset"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/rgehrsitz/premcast/internal/logging"
)

// app bundles everything a command needs once settings, model configuration
// and data are loaded.
type app struct {
	settings   *config.Settings
	config     *domain.Configuration
	logger     *logging.Logger
	dataset    *domain.Dataset
	forecaster *calculation.Forecaster
	cached     *calculation.CachedForecaster
}

func (o *rootOptions) loadSettings() (*config.Settings, error) {
	s, err := config.LoadSettings(o.settingsFile)
	if err != nil {
		return nil, err
	}
	for _, override := range []struct {
		flag string
		dst  *string
	}{
		{o.dataDir, &s.DataDir},
		{o.source, &s.Source},
		{o.dsn, &s.DSN},
		{o.configFile, &s.Config},
		{o.logLevel, &s.LogLevel},
		{o.logFormat, &s.LogFormat},
	} {
		if override.flag != "" {
			*override.dst = override.flag
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func loadConfiguration(s *config.Settings) (*domain.Configuration, error) {
	if s.Config == "" {
		return config.DefaultConfiguration(), nil
	}
	return config.NewInputParser().LoadFromFile(s.Config)
}

func loadDataset(ctx context.Context, s *config.Settings) (*domain.Dataset, error) {
	if s.Source == config.SourcePostgres {
		src, err := dataset.OpenPostgres(ctx, s.DSN)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.Load(ctx)
	}
	return dataset.NewCSVSource(s.DataDir).Load(ctx)
}

// newApp loads settings, configuration and the dataset and builds the engine.
func (o *rootOptions) newApp(ctx context.Context) (*app, error) {
	s, err := o.loadSettings()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfiguration(s)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: s.LogLevel, Format: s.LogFormat})
	if err != nil {
		return nil, err
	}

	ds, err := loadDataset(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Debugf("loaded %d population cells and %d mortality series", len(ds.Population), ds.Mortality.Len())

	f, err := calculation.NewForecaster(ds, cfg)
	if err != nil {
		return nil, err
	}
	f.SetLogger(logger.Named("forecast"))

	cached, err := calculation.NewCachedForecaster(f, s.CacheSize)
	if err != nil {
		return nil, err
	}
	return &app{settings: s, config: cfg, logger: logger, dataset: ds, forecaster: f, cached: cached}, nil
}

func (a *app) close() {
	a.logger.Sync()
}
