package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/app"
	"parkledger/backend/services/ledger-service/internal/service"
)

func newPurgeCmd() *cobra.Command {
	var confirmed bool

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every session record, parked and finalized",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to purge without --yes")
			}
			return withStores(cmd, func(ctx context.Context, stores *app.Stores, logger *zap.Logger) error {
				sessions := service.NewSessionsService(stores.Sessions, logger, service.SessionsOptions{})
				deleted, err := sessions.Purge(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d sessions\n", deleted)
				return nil
			})
		},
	}

	purgeCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion of all records")
	return purgeCmd
}
