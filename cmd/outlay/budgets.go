package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/outlay-app/outlay/internal/cli"
	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/period"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage monthly budgets",
		Long:  `List, add, copy, and deactivate monthly spending budgets.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(addBudgetCmd())
	cmd.AddCommand(deactivateBudgetCmd())
	cmd.AddCommand(copyBudgetsCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets for a period",
		Long:  `Display all active budgets for a month with their targets and rollover settings.`,
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

			budgets, err := store.GetBudgets(ctx, month, year)
			if err != nil {
				return fmt.Errorf("failed to get budgets: %w", err)
			}

			if len(budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets for this period. Use 'outlay budgets add' to create one."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Budgets for %s", budgets[0].PeriodLabel())))

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BUDGET\tAMOUNT\tROLLOVER IN\tROLLOVER\tTHRESHOLD\tID")
			for i := range budgets {
				b := &budgets[i]
				label := b.Category
				if b.Scope == model.ScopeTotal {
					label = "(total)"
				}
				rollover := "off"
				if b.RolloverEnabled {
					rollover = fmt.Sprintf("cap %.0f%%", b.RolloverCap)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
					label, cli.FormatAmount(b.Amount), cli.FormatAmount(b.RolloverAmount),
					rollover, b.WarningThreshold, b.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month (1-12, default current)")
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	return cmd
}

func addBudgetCmd() *cobra.Command {
	var (
		category  string
		month     int
		year      int
		threshold float64
		rollover  bool
		capPct    float64
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Add a budget",
		Long: `Create a budget for a month. With --category the budget covers one
category; without it the budget covers total spending for the period.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			month, year, err := resolvePeriod(month, year)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			scope := model.ScopeTotal
			if category != "" {
				scope = model.ScopeCategory
			}

			budget := model.NewBudget(scope, category, amount, month, year)
			budget.WarningThreshold = threshold
			budget.RolloverEnabled = rollover
			budget.RolloverCap = capPct
			budget.Notes = notes

			if err := store.SaveBudget(ctx, &budget); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s budget of %s for %s",
				scopeLabel(&budget), cli.FormatAmount(amount), budget.PeriodLabel())))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category the budget covers (omit for a total budget)")
	cmd.Flags().IntVar(&month, "month", 0, "month (1-12, default current)")
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	cmd.Flags().Float64Var(&threshold, "threshold", 80, "warning threshold percent")
	cmd.Flags().BoolVar(&rollover, "rollover", false, "carry unspent amount into the next month")
	cmd.Flags().Float64Var(&capPct, "cap", 50, "rollover cap as percent of the budget amount")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func deactivateBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <budget-id>",
		Short: "Deactivate a budget",
		Long:  `Retire a budget without deleting its history. Deactivated budgets stop being evaluated.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateBudget(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Budget deactivated"))
			return nil
		},
	}
}

func copyBudgetsCmd() *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy budgets into the next month",
		Long: `Create next-month copies of every active budget in a period. Copies
start with no carried rollover; closing the source month fills it in.`,
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

			budgets, err := store.GetBudgets(ctx, month, year)
			if err != nil {
				return fmt.Errorf("failed to get budgets: %w", err)
			}
			if len(budgets) == 0 {
				return fmt.Errorf("no active budgets to copy for %s %d", monthName(month), year)
			}

			nextMonth, nextYear := period.Next(month, year)
			copied := 0
			for i := range budgets {
				src := &budgets[i]

				existing, err := store.GetBudgetForScope(ctx, src.Scope, src.Category, nextMonth, nextYear)
				if err != nil {
					return err
				}
				if existing != nil {
					continue
				}

				dst := model.NewBudget(src.Scope, src.Category, src.Amount, nextMonth, nextYear)
				dst.WarningThreshold = src.WarningThreshold
				dst.RolloverEnabled = src.RolloverEnabled
				dst.RolloverCap = src.RolloverCap
				dst.Notes = src.Notes

				if err := store.SaveBudget(ctx, &dst); err != nil {
					return err
				}
				copied++
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Copied %d budget(s) into %s %d", copied, monthName(nextMonth), nextYear)))
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "source month (1-12, default current)")
	cmd.Flags().IntVar(&year, "year", 0, "source year (default current)")
	return cmd
}

func scopeLabel(b *model.Budget) string {
	if b.Scope == model.ScopeTotal {
		return "total"
	}
	return b.Category
}
