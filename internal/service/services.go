// Package service wires configuration, storage, the project registry and
// logging together, and offers the day-level operations shared by the CLI
// and the TUI.
package service

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/xolan/tsheet/internal/clock"
	"github.com/xolan/tsheet/internal/config"
	"github.com/xolan/tsheet/internal/logging"
	"github.com/xolan/tsheet/internal/registry"
	"github.com/xolan/tsheet/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Config   *ConfigService
	Repo     *storage.Repository
	Projects *registry.Registry
	Clock    clock.Clock
	Logger   *log.Logger

	closeLog func() error
}

// Options tunes NewServicesWithConfig.
type Options struct {
	// Debug enables debug logging.
	Debug bool
	// Clock overrides the wall clock.
	Clock clock.Clock
	// Logger overrides the logger built from the config.
	Logger *log.Logger
}

// NewServices creates a new Services instance from the default config file.
func NewServices(opts Options) (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	return NewServicesWithConfig(cfg, configPath, opts)
}

// NewServicesWithConfig opens the storage described by cfg (useful for testing)
func NewServicesWithConfig(cfg config.Config, configPath string, opts Options) (*Services, error) {
	logger := opts.Logger
	closeLog := func() error { return nil }
	if logger == nil {
		var err error
		logger, closeLog, err = logging.New(logging.Options{Debug: opts.Debug, File: cfg.LogFile})
		if err != nil {
			return nil, err
		}
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	dataDir, err := cfg.DataPath()
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	kv, err := storage.Open(cfg.Backend, dataDir)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	logger.Debug("storage opened", "backend", cfg.Backend, "dir", dataDir)

	repo := storage.NewRepository(kv, logger)
	return &Services{
		Config:   NewConfigService(configPath, cfg),
		Repo:     repo,
		Projects: registry.New(repo, registry.WithLocale(cfg.LocaleTag())),
		Clock:    clk,
		Logger:   logger,
		closeLog: closeLog,
	}, nil
}

// Close releases the storage and the log file.
func (s *Services) Close() error {
	err := s.Repo.Close()
	if lerr := s.closeLog(); err == nil {
		err = lerr
	}
	return err
}
