package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outlay-app/outlay/internal/cli"
)

func statusCmd() *cobra.Command {
	var (
		month    int
		year     int
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show budget status for a period",
		Long: `Evaluate every active budget for a month against live ledger data:
spend, remaining, pace, and projected end-of-month totals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			month, year, err := resolvePeriod(month, year)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, err := initEngine(store)
			if err != nil {
				return err
			}

			statuses, err := eng.EvaluateAll(ctx, month, year)
			if err != nil {
				return fmt.Errorf("failed to evaluate budgets: %w", err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Budget status for %s %d", monthName(month), year)))
			if detailed {
				for i := range statuses {
					fmt.Println(cli.RenderStatusDetail(&statuses[i]))
				}
				return nil
			}
			fmt.Println(cli.RenderStatusTable(statuses))
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month (1-12, default current)")
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "render one box per budget with projections")
	return cmd
}
