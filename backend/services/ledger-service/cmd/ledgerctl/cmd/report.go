package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/app"
	"parkledger/backend/services/ledger-service/internal/billing"
	"parkledger/backend/services/ledger-service/internal/models"
	"parkledger/backend/services/ledger-service/internal/service"
)

func newReportCmd() *cobra.Command {
	var (
		from   string
		to     string
		asJSON bool
	)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize revenue of sessions that exited within a range",
		Long: `Summarize revenue from the amounts frozen at finalization.
A bare date in --to covers that whole day.
Examples:
  ledgerctl report --from 2024-06-01 --to 2024-06-30
  ledgerctl report --from 2024-06-10T08:00:00Z --to 2024-06-10T18:00:00Z --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" || to == "" {
				return errors.New("--from and --to are required")
			}
			start, err := billing.ParseTimestamp(from, time.UTC)
			if err != nil {
				return err
			}
			end, err := billing.ParseRangeEnd(to, time.UTC)
			if err != nil {
				return err
			}

			return withStores(cmd, func(ctx context.Context, stores *app.Stores, logger *zap.Logger) error {
				report, err := service.NewReportService(stores.Sessions, logger).Revenue(ctx, start, end)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}
				printReport(cmd, report)
				return nil
			})
		},
	}

	reportCmd.Flags().StringVar(&from, "from", "", "range start (RFC3339 or YYYY-MM-DD, UTC when no offset)")
	reportCmd.Flags().StringVar(&to, "to", "", "range end (RFC3339 or YYYY-MM-DD, UTC when no offset)")
	reportCmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return reportCmd
}

func printReport(cmd *cobra.Command, report *service.RevenueReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Range:          %s .. %s\n", report.From.Format(time.RFC3339), report.To.Format(time.RFC3339))
	fmt.Fprintf(out, "Sessions:       %d\n", report.Count)
	fmt.Fprintf(out, "Total revenue:  %.2f\n", report.TotalRevenue)
	fmt.Fprintf(out, "Average ticket: %.2f\n", report.AverageTicket)
	for _, c := range models.Categories {
		if n := report.CountByCategory[c]; n > 0 {
			fmt.Fprintf(out, "  %-12s %d\n", c.Label(), n)
		}
	}
}
