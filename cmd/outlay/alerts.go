package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outlay-app/outlay/internal/cli"
)

func alertsCmd() *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show budget alerts for a period",
		Long:  `List the budgets that are in warning or over their allowance, most severe first.`,
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

			alerts, err := eng.Alerts(ctx, month, year)
			if err != nil {
				return fmt.Errorf("failed to evaluate alerts: %w", err)
			}

			fmt.Println(cli.RenderAlerts(alerts))
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month (1-12, default current)")
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	return cmd
}
