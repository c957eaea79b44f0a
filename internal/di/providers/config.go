// Package providers contains dependency injection providers for the corkboard process.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/corkboard/internal/config"
	"github.com/listenupapp/corkboard/internal/logger"
)

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("Configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.DataPath,
		"storage_backend", cfg.Storage.Backend,
		"files_mode", cfg.Files.Mode,
		"search_enabled", cfg.Search.Enabled,
	)

	return log, nil
}
