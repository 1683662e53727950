package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"d42inventory/internal/config"
	"d42inventory/internal/device42"
	"d42inventory/internal/inventory"
	"d42inventory/internal/loader"
	"d42inventory/internal/logging"
	"d42inventory/internal/repository"
	"d42inventory/internal/repository/sqlite"
	"d42inventory/internal/service"
)

// app holds everything a command needs, built from the effective config
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	repo   repository.Repository
	svc    *service.InventoryService
}

// newApp wires the config into services. Logs go to stderr unless
// logging.path names a file.
func newApp(cfg *config.Config, stderr io.Writer) (*app, error) {
	level := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.NewWriter(stderr, level)
	if cfg.Logging.Path != "" {
		var err error
		if logger, err = logging.New(cfg.Logging.Path, level); err != nil {
			return nil, err
		}
	}

	a := &app{cfg: cfg, logger: logger}

	var source service.DeviceSource
	if cfg.Device42.File != "" {
		logger.Debugf("reading devices from %s", cfg.Device42.File)
		source = loader.NewFileSource(cfg.Device42.File)
	} else {
		source = device42.NewClient(cfg.Device42, device42.WithLogger(logger))
	}
	builder := inventory.NewBuilder(
		inventory.WithWorkers(cfg.Workers),
		inventory.WithLogger(logger),
	)
	opts := []service.Option{
		service.WithBuilder(builder),
		service.WithLogger(logger),
	}

	if cfg.Cache.Enabled {
		repo, err := openCache(cfg.Cache.Path)
		if err != nil {
			// a broken cache must not block the inventory
			logger.Warnf("inventory cache disabled: %v", err)
		} else {
			a.repo = repo
			opts = append(opts, service.WithCache(repo, cfg.Cache.TTL.Duration(), cfg.Cache.Keep))
		}
	}

	a.svc = service.NewInventoryService(source, opts...)
	return a, nil
}

func openCache(path string) (*sqlite.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return sqlite.New(path)
}

func (a *app) close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.logger.Warnf("close cache: %v", err)
		}
	}
	a.logger.Close()
}
