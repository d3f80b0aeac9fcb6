// Package app wires the configured store backend into repositories. It is
// shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/transfer_reconciler/internal/core/ports/repositories"
	"github.com/SscSPs/transfer_reconciler/internal/platform/config"
	"github.com/SscSPs/transfer_reconciler/internal/repositories/database/pgsql"
	"github.com/SscSPs/transfer_reconciler/internal/repositories/memory"
	"github.com/SscSPs/transfer_reconciler/pkg/database"
)

// OpenRepositories connects the store selected by cfg.StoreBackend. For PostgreSQL
// pending migrations are applied first. The returned close function releases the
// store and is never nil.
func OpenRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		logger.Info("Using in-memory transaction store")
		return memory.NewRepositoryProvider(memory.NewTransactionStore()), func() {}, nil

	case config.StoreBackendPostgres:
		logger.Info("Running database migrations", slog.String("path", cfg.MigrationsPath))
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, func() {}, err
		}

		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, func() {}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil

	default:
		return portsrepo.RepositoryProvider{}, func() {}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
