package bootstrap

import (
	"fmt"

	"notebook-tree-be/internal/config"
	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/internal/repository/memory"
	"notebook-tree-be/internal/repository/unitofwork"
	"notebook-tree-be/pkg/database"
)

// NewRepositoryFactory opens the configured store: postgres through gorm,
// or the in-process memory store.
func NewRepositoryFactory(cfg *config.Config, sysLogger logger.ILogger) (unitofwork.RepositoryFactory, error) {
	switch cfg.Database.Driver {
	case config.StorageDriverMemory:
		sysLogger.Warn("BOOTSTRAP", "Using in-memory storage, data is lost on restart", nil)
		return memory.NewRepositoryFactory(memory.NewStore()), nil

	case config.StorageDriverPostgres:
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			err := database.Migrate(db, func(step string) {
				sysLogger.Info("BOOTSTRAP", "Migration step", map[string]interface{}{"step": step})
			})
			if err != nil {
				return nil, err
			}
		}
		return unitofwork.NewRepositoryFactory(db), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Database.Driver)
}
