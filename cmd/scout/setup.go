package main

import (
	"context"
	"fmt"
	"io"
	"os"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/pkg/logger"
)

// loadConfig layers the persistent flags over config.Load.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if rootConfigPath != "" {
		if err := os.Setenv("SCOUT_CONFIG", rootConfigPath); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootPlayerFile != "" {
		cfg.PlayerFile = rootPlayerFile
	}
	if rootTestFile != "" {
		cfg.TestFile = rootTestFile
	}
	if rootLogLevel != "" {
		cfg.LogLevel = rootLogLevel
	}
	return cfg, nil
}

// initLogger points the global logger at w and applies the configured level.
func initLogger(ctx context.Context, w io.Writer, cfg *config.Config) (logger.Logger, error) {
	if err := logger.InitWithWriter(w, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	l := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		l.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return l, nil
}

// startService builds the service from cfg and performs the first load.
func startService(ctx context.Context, cfg *config.Config, l logger.Logger) (*service.Service, error) {
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	svc := service.New(
		service.WithLogger(l),
		service.WithFiles(cfg.PlayerFile, cfg.TestFile),
		service.WithCatalog(cat),
		service.WithPrecision(cfg.Precision),
		service.WithSchema(cfg.Schema),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

// bootstrap runs loadConfig, initLogger and startService for one-shot commands.
func bootstrap(ctx context.Context, stderr io.Writer) (*service.Service, *config.Config, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	l, err := initLogger(ctx, stderr, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := startService(ctx, cfg, l)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}
