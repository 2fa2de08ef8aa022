package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outlay-app/outlay/internal/cli"
	"github.com/outlay-app/outlay/internal/engine"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring expenses",
		Long:  `List recurring expense definitions and process the ones that are due.`,
	}

	cmd.AddCommand(listRecurringCmd())
	cmd.AddCommand(processRecurringCmd())

	return cmd
}

func listRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring expense definitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			clock, err := resolveClock()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			defs, err := store.ListRecurring(ctx)
			if err != nil {
				return fmt.Errorf("failed to list recurring definitions: %w", err)
			}

			fmt.Println(cli.FormatTitle("Recurring expenses"))
			fmt.Println(cli.RenderRecurringTable(defs, clock.Today()))
			return nil
		},
	}
}

func processRecurringCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Materialize due recurring expenses",
		Long: `Generate ledger expenses for every auto-generate definition that has
come due and advance its schedule. Reminder definitions are listed but
never written to the ledger. Safe to re-run; processed definitions are
no longer due.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, err := initEngine(store)
			if err != nil {
				return err
			}

			auto, reminders, err := eng.CheckDue(ctx)
			if err != nil {
				return err
			}

			if dryRun {
				clock, err := resolveClock()
				if err != nil {
					return err
				}
				today := clock.Today()
				if len(auto) == 0 && len(reminders) == 0 {
					fmt.Println(cli.SubtleStyle.Render("Nothing due."))
					return nil
				}
				for i := range auto {
					def := &auto[i]
					_, missed := engine.AdvancePastToday(*def, today)
					fmt.Println(cli.FormatInfo(fmt.Sprintf("Would generate %s %s (%d occurrence(s) missed)",
						def.Category, cli.FormatAmount(def.Amount), len(missed))))
				}
				for i := range reminders {
					r := &reminders[i]
					fmt.Println(cli.FormatWarning(fmt.Sprintf("Due: %s %s (%s)",
						r.Category, cli.FormatAmount(r.Amount), r.Vendor)))
				}
				return nil
			}

			generated, failed := eng.Materialize(ctx, auto)

			if len(generated) == 0 && len(reminders) == 0 && len(failed) == 0 {
				fmt.Println(cli.SubtleStyle.Render("Nothing due."))
				return nil
			}

			for _, g := range generated {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Generated %s %s dated %s",
					g.Category, cli.FormatAmount(g.Amount), g.Date.Format("2006-01-02"))))
			}
			for i := range reminders {
				r := &reminders[i]
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Due: %s %s (%s), record it manually",
					r.Category, cli.FormatAmount(r.Amount), r.Vendor)))
			}
			for _, f := range failed {
				fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", f.DefinitionID, f.Err)))
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d definition(s) failed to process", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be generated without writing anything")
	return cmd
}
