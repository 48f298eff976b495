package db

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"clubdirectory/internal/config"
	"clubdirectory/internal/repository"
)

// NewMemberRepository opens the member store selected by cfg.StoreDriver.
// SQL stores are migrated before use.
func NewMemberRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.MemberRepository, error) {
	var (
		gormDB *gorm.DB
		err    error
	)
	switch cfg.StoreDriver {
	case config.DriverFile:
		return repository.NewFileRepository(cfg.MembersFile, logger)
	case config.DriverSQLite:
		gormDB, err = NewSQLite(cfg.SQLitePath)
	case config.DriverMySQL:
		gormDB, err = NewMySQL(cfg.MySQLDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	repo := repository.NewGormRepository(gormDB)
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return repo, nil
}
