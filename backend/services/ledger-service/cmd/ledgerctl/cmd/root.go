package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"parkledger/backend/libs/logging"
	"parkledger/backend/services/ledger-service/internal/app"
	"parkledger/backend/services/ledger-service/internal/config"
)

// storeOpener connects to the configured storage. Tests replace it.
var storeOpener = func(ctx context.Context, logger *zap.Logger) (*app.Stores, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	return app.OpenStores(ctx, cfg, logger)
}

// loggerFactory builds the CLI logger. Tests replace it.
var loggerFactory = func() (*zap.Logger, error) {
	return logging.NewLogger("ledgerctl")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "ledgerctl administers the parking ledger store",
		Long: `ledgerctl talks directly to the configured ledger storage.
It reads the same CONFIG_FILE and LEDGER_* variables as the service.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newRatesCmd(),
		newReportCmd(),
		newPurgeCmd(),
		newHashPasswordCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withStores opens storage for the duration of fn.
func withStores(cmd *cobra.Command, fn func(ctx context.Context, stores *app.Stores, logger *zap.Logger) error) error {
	logger, err := loggerFactory()
	if err != nil {
		return err
	}
	defer logger.Sync() // best-effort flush

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stores, err := storeOpener(ctx, logger)
	if err != nil {
		return err
	}
	defer stores.Close(ctx)
	return fn(ctx, stores, logger)
}
