package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/app"
	"parkledger/backend/services/ledger-service/internal/models"
	"parkledger/backend/services/ledger-service/internal/service"
)

func newRatesCmd() *cobra.Command {
	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Show or replace the hourly rate table",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current hourly rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(cmd, func(ctx context.Context, stores *app.Stores, logger *zap.Logger) error {
				table, err := service.NewRatesService(stores.Prices, nil, logger).Load(ctx)
				if err != nil {
					return err
				}
				printRates(cmd, table)
				return nil
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <category>=<rate>...",
		Short: "Change hourly rates",
		Long: `Change one or more hourly rates. Categories not named keep their current rate
and the complete table is saved.
Examples:
  ledgerctl rates set Carro=12 Moto=6
  ledgerctl rates set truck=20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseRateArgs(args)
			if err != nil {
				return err
			}
			return withStores(cmd, func(ctx context.Context, stores *app.Stores, logger *zap.Logger) error {
				rates := service.NewRatesService(stores.Prices, nil, logger)
				table, err := rates.Load(ctx)
				if err != nil {
					return err
				}
				for c, rate := range changes {
					table[c] = rate
				}
				if err := rates.Save(ctx, table); err != nil {
					return err
				}
				printRates(cmd, rates.Current())
				return nil
			})
		},
	}

	ratesCmd.AddCommand(showCmd, setCmd)
	return ratesCmd
}

func parseRateArgs(args []string) (models.RateTable, error) {
	out := make(models.RateTable, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected <category>=<rate>, got %q", arg)
		}
		c, err := models.ParseCategory(key)
		if err != nil {
			return nil, err
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rate for %s: %q", c, value)
		}
		out[c] = rate
	}
	return out, nil
}

func printRates(cmd *cobra.Command, table models.RateTable) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tLABEL\tHOURLY")
	for _, c := range models.Categories {
		fmt.Fprintf(w, "%s\t%s\t%.2f\n", c, c.Label(), table.Rate(c))
	}
	_ = w.Flush()
}
