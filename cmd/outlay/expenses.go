package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/outlay-app/outlay/internal/cli"
	"github.com/outlay-app/outlay/internal/model"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage ledger expenses",
		Long:  `Add, list, and delete expenses. Adding an expense warns before it tips a budget over its threshold.`,
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		category      string
		vendor        string
		paymentMethod string
		description   string
		dateStr       string
		recurring     string
		remind        bool
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Add an expense",
		Long: `Record an expense. With --recurring the entry becomes a recurring
definition instead of a ledger expense; it materializes (or reminds,
with --remind) each time it comes due.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			if amount == 0 {
				return fmt.Errorf("amount must be positive")
			}
			if category == "" {
				return fmt.Errorf("--category is required")
			}

			clock, err := resolveClock()
			if err != nil {
				return err
			}
			date := clock.Today()
			if dateStr != "" {
				date, err = time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date value %q, expected YYYY-MM-DD: %w", dateStr, err)
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			expense := model.NewExpense(amount, date, category, vendor, paymentMethod)
			expense.Description = description

			if recurring != "" {
				expense.IsRecurring = true
				expense.RecurringType = model.RecurringType(recurring)
				expense.RecurringAction = model.ActionAutoGenerate
				if remind {
					expense.RecurringAction = model.ActionReminder
				}
				expense.NextDueDate = date
			} else {
				// Warn before a save that tips a budget over its threshold.
				eng, err := initEngine(store)
				if err != nil {
					return err
				}
				alert, err := eng.PreSaveCheck(ctx, expense)
				if err != nil {
					return err
				}
				if alert != nil {
					fmt.Println(cli.FormatWarning(alert.Message))
				}
			}

			if err := store.CreateExpense(ctx, &expense); err != nil {
				return err
			}

			if expense.IsRecurring {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s recurring expense of %s, first due %s",
					recurring, cli.FormatAmount(amount), expense.NextDueDate.Format("2006-01-02"))))
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s expense of %s on %s",
					category, cli.FormatAmount(amount), date.Format("2006-01-02"))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "expense category (required)")
	cmd.Flags().StringVar(&vendor, "vendor", "", "who was paid")
	cmd.Flags().StringVar(&paymentMethod, "method", "", "payment method")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().StringVar(&dateStr, "date", "", "expense date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&recurring, "recurring", "", "recurrence frequency (daily, weekly, biweekly, monthly, quarterly, annually)")
	cmd.Flags().BoolVar(&remind, "remind", false, "remind instead of auto-generating when due (with --recurring)")
	return cmd
}

func listExpensesCmd() *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses for a period",
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

			expenses, err := store.ListExpenses(ctx, month, year)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Expenses for %s %d", monthName(month), year)))
			fmt.Println(cli.RenderExpenseTable(expenses))
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month (1-12, default current)")
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <expense-id>",
		Short: "Delete an expense",
		Long:  `Soft-delete an expense. Sums and budget evaluations stop counting it; the row stays for history.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if err := store.SoftDeleteExpense(ctx, args[0], clock.Today()); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Expense deleted"))
			return nil
		},
	}
}
