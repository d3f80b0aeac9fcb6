package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/transfer_reconciler/internal/app"
	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/core/services"
	"github.com/SscSPs/transfer_reconciler/internal/platform/config"
	"github.com/SscSPs/transfer_reconciler/internal/platform/metrics"
)

func main() {
	if err := newRootCmd(openServices).Execute(); err != nil {
		os.Exit(1)
	}
}

// serviceOpener builds the services a command runs against. The returned close
// function releases the store.
type serviceOpener func(ctx context.Context) (*portssvc.ServiceContainer, func(), error)

// openServices loads configuration from the environment and opens the configured store.
func openServices(ctx context.Context) (*portssvc.ServiceContainer, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// Logs go to stderr so command output stays machine readable.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	repos, closeStore, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return services.NewServiceContainer(cfg, repos, metrics.New()), closeStore, nil
}
