package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/outlay-app/outlay/internal/common"
	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/service"
)

// CheckDue partitions the due recurring definitions by their action.
// Auto-generate definitions are materialized; reminders are reported for
// the caller to surface, never written to the ledger.
func (e *Engine) CheckDue(ctx context.Context) (auto, reminder []model.Expense, err error) {
	defs, err := e.storage.ListRecurringDue(ctx, e.clock.Today())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list due recurring definitions: %w", err)
	}

	for _, def := range defs {
		switch def.RecurringAction {
		case model.ActionAutoGenerate:
			auto = append(auto, def)
		case model.ActionReminder:
			reminder = append(reminder, def)
		}
	}

	slog.Debug("checked due recurring definitions",
		"auto", len(auto),
		"reminders", len(reminder))

	return auto, reminder, nil
}

// Materialize creates concrete expenses from due auto-generate definitions
// and advances each definition's schedule. All-or-nothing per definition:
// if an expense cannot be created, the definition's due date is left
// untouched so the missed charge is retried next session. Failures don't
// stop the run; each is reported alongside the successes.
func (e *Engine) Materialize(ctx context.Context, auto []model.Expense) ([]service.Generated, []service.MaterializeFailure) {
	today := e.clock.Today()

	var generated []service.Generated
	var failed []service.MaterializeFailure

	for _, def := range auto {
		next, missed := AdvancePastToday(def, today)
		if len(missed) == 0 {
			continue
		}

		occurrences := missed
		if e.config.CatchUp == CatchUpLatest {
			occurrences = missed[len(missed)-1:]
		}

		created, err := e.materializeOne(ctx, def, occurrences)
		if err != nil {
			slog.Error("Failed to materialize recurring expense",
				"definition_id", def.ID,
				"vendor", def.Vendor,
				"error", err)
			failed = append(failed, service.MaterializeFailure{
				DefinitionID: def.ID,
				Err:          fmt.Errorf("%w: %v", common.ErrMaterializeFailed, err),
			})
			continue
		}
		generated = append(generated, created...)

		lastDone := occurrences[len(occurrences)-1]
		if err := e.storage.UpdateRecurringSchedule(ctx, def.ID, next, lastDone); err != nil {
			// The expense exists but the schedule didn't advance; the next
			// session will see the definition still due. Duplicate creation
			// is prevented by the occurrence-dated expense already present.
			slog.Error("Failed to advance recurring schedule",
				"definition_id", def.ID,
				"error", err)
			failed = append(failed, service.MaterializeFailure{
				DefinitionID: def.ID,
				Err:          fmt.Errorf("schedule not advanced: %w", err),
			})
			continue
		}

		slog.Info("Materialized recurring expense",
			"definition_id", def.ID,
			"vendor", def.Vendor,
			"occurrences", len(occurrences),
			"next_due", next.Format("2006-01-02"))
	}

	return generated, failed
}

// materializeOne creates the ledger expenses for one definition's missed
// occurrences. Creation failures abort before the schedule is touched.
func (e *Engine) materializeOne(ctx context.Context, def model.Expense, occurrences []time.Time) ([]service.Generated, error) {
	created := make([]service.Generated, 0, len(occurrences))

	for _, occ := range occurrences {
		expense := spawn(def, occ)

		err := common.WithRetry(ctx, func() error {
			return e.storage.CreateExpense(ctx, &expense)
		}, e.config.Retry)
		if err != nil {
			return nil, fmt.Errorf("create expense dated %s: %w", occ.Format("2006-01-02"), err)
		}

		created = append(created, service.Generated{
			ExpenseID:    expense.ID,
			DefinitionID: def.ID,
			Date:         occ,
			Amount:       expense.Amount,
			Category:     expense.Category,
			Vendor:       expense.Vendor,
		})
	}

	return created, nil
}

// spawn builds the concrete expense for one occurrence of a definition.
// The result is an ordinary ledger entry: never recurring, always linked
// back to its parent.
func spawn(def model.Expense, occurrence time.Time) model.Expense {
	now := time.Now()
	return model.Expense{
		ID:                uuid.NewString(),
		Amount:            def.Amount,
		Date:              occurrence,
		Category:          def.Category,
		Vendor:            def.Vendor,
		PaymentMethod:     def.PaymentMethod,
		Description:       def.Description,
		RecurringParentID: def.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
