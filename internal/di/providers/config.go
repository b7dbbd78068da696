// Package providers contains dependency injection providers for the CouchQueue server.
package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/couchqueue/couchqueue-server/internal/config"
	"github.com/couchqueue/couchqueue-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig(os.Args[1:])
}

// ProvideLogger provides the structured logger.
// The container closes its rotated log file when it shuts down.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
		File:        cfg.Logger.File,
		MaxSizeMB:   cfg.Logger.MaxSizeMB,
		MaxBackups:  cfg.Logger.MaxBackups,
	})

	log.Info("Starting CouchQueue Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"database_path", cfg.Database.Path,
		"cache_path", cfg.Cache.Path,
		"llm_model", cfg.LLM.Model,
	)

	return log, nil
}
