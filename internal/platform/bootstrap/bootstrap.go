// Package bootstrap builds the ledger store and optional infrastructure from config.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/remittance_ledger/internal/adapters/database/boltdb"
	"github.com/SscSPs/remittance_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/remittance_ledger/internal/adapters/lock"
	"github.com/SscSPs/remittance_ledger/internal/adapters/mq"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/remittance_ledger/internal/core/services"
	"github.com/SscSPs/remittance_ledger/internal/platform/config"
	"github.com/SscSPs/remittance_ledger/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// OpenStore opens the configured LedgerStore. For postgres the schema is
// migrated first. The returned func releases the store.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.LedgerStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverBolt:
		store, err := boltdb.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Bolt store opened", slog.String("path", cfg.BoltPath))
		return store, func() { _ = store.Close() }, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		if err := RunMigrations(cfg.DatabaseURL, cfg.MigrationsURL, logger); err != nil {
			database.ClosePgxPool(pool)
			return nil, nil, err
		}
		return pgsql.NewStore(pool), func() { database.ClosePgxPool(pool) }, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

// RunMigrations applies every pending "up" migration.
func RunMigrations(databaseURL, migrationsURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(migrationsURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// ServiceOptions connects the record locker and entry publisher when they are
// configured. The returned func closes whatever was opened.
func ServiceOptions(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]services.ServiceOption, func(), error) {
	var (
		options []services.ServiceOption
		closers []func() error
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Error closing infrastructure client", slog.String("error", err.Error()))
			}
		}
	}

	if cfg.RedisAddress != "" {
		locker, err := lock.NewRedisRecordLocker(ctx, cfg.RedisAddress)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, locker.Close)
		options = append(options, services.WithRecordLocker(locker, cfg.RecordLockTTL))
		logger.Info("Record locking enabled", slog.String("redis", cfg.RedisAddress), slog.Duration("ttl", cfg.RecordLockTTL))
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := mq.NewKafkaEntryPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, publisher.Close)
		options = append(options, services.WithEntryPublisher(publisher))
		logger.Info("Entry events enabled", slog.String("topic", cfg.KafkaTopic))
	}

	return options, cleanup, nil
}
