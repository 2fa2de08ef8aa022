package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outlay-app/outlay/internal/cli"
	"github.com/outlay-app/outlay/internal/period"
)

func rolloverCmd() *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Close a month and carry unspent amounts forward",
		Long: `Apply rollover for every active budget of a month: each rollover-enabled
budget's remaining amount, capped at its configured percentage, is
written onto the matching next-month budget. Defaults to the previous
month. Re-running overwrites the same carry rather than stacking it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Default to the month that just ended, not the one in progress.
			if month == 0 && year == 0 {
				clock, err := resolveClock()
				if err != nil {
					return err
				}
				today := clock.Today()
				month, year = period.Previous(int(today.Month()), today.Year())
			} else {
				var err error
				month, year, err = resolvePeriod(month, year)
				if err != nil {
					return err
				}
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

			results, err := eng.CloseMonth(ctx, month, year)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("No active budgets for %s %d.", monthName(month), year)))
				return nil
			}

			for _, r := range results {
				switch {
				case r.Applied:
					fmt.Println(cli.FormatSuccess(fmt.Sprintf("Carried %s forward from budget %s",
						cli.FormatAmount(r.Carry), r.BudgetID)))
				case r.Carry > 0:
					fmt.Println(cli.FormatWarning(fmt.Sprintf("Budget %s has %s to carry but no next-month budget exists",
						r.BudgetID, cli.FormatAmount(r.Carry))))
				default:
					fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Budget %s carries nothing forward", r.BudgetID)))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month to close (1-12, default previous month)")
	cmd.Flags().IntVar(&year, "year", 0, "year to close (default previous month's year)")
	return cmd
}
