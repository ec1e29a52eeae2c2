package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/centsible/budget-engine/budget"
	"github.com/centsible/budget-engine/engine"
	"github.com/centsible/budget-engine/store/memory"
)

// =============================================================================
// ELAPSED PAYDAY RECOVERY
// =============================================================================

func TestServiceConfirmPayday_ElapsedWhileDown_StillConfirmable(t *testing.T) {
	// GIVEN: A stored snapshot whose weekly payday passed yesterday,
	//        as after a restart
	// WHEN: Confirming today
	// THEN: The missed payday is deposited and recorded from its stored
	//       date - it is never silently advanced past

	ctx := context.Background()
	store := memory.New()
	today := engine.NewDate(2024, time.March, 10)

	stored := engine.BudgetSnapshot{
		Balance: money("100"),
		Cycle: engine.PayCycle{
			Frequency:   engine.FreqWeekly,
			Amount:      money("1000"),
			NextPayDate: today.AddDays(-1),
		},
		AsOf: today.AddDays(-1),
	}
	if err := store.SaveSnapshot(ctx, stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	service := budget.NewService(store)
	next, record, err := service.ConfirmPayday(ctx, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := today.AddDays(-1); !record.Date.Equal(want) {
		t.Errorf("expected record dated the missed payday %s, got %s", want, record.Date)
	}
	if !next.Balance.Equal(money("1100")) {
		t.Errorf("expected balance 1100, got %s", next.Balance)
	}
	if want := today.AddDays(6); !next.Cycle.NextPayDate.Equal(want) {
		t.Errorf("expected next payday %s, got %s", want, next.Cycle.NextPayDate)
	}
}

func TestServiceConfirmPayday_MultipleElapsed_AllRecordedInOrder(t *testing.T) {
	// Two weekly paydays elapsed; one call confirms both, oldest first.

	ctx := context.Background()
	store := memory.New()
	today := engine.NewDate(2024, time.March, 10)

	stored := engine.BudgetSnapshot{
		Balance: money("100"),
		Cycle: engine.PayCycle{
			Frequency:   engine.FreqWeekly,
			Amount:      money("1000"),
			NextPayDate: today.AddDays(-8),
		},
		AsOf: today.AddDays(-8),
	}
	if err := store.SaveSnapshot(ctx, stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	service := budget.NewService(store)
	next, last, err := service.ConfirmPayday(ctx, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.Balance.Equal(money("2100")) {
		t.Errorf("expected balance 2100, got %s", next.Balance)
	}
	if want := today.AddDays(-1); !last.Date.Equal(want) {
		t.Errorf("expected latest record dated %s, got %s", want, last.Date)
	}

	records, err := service.History(ctx, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Date.Equal(today.AddDays(-8)) || !records[1].Date.Equal(today.AddDays(-1)) {
		t.Errorf("expected records dated %s then %s, got %s and %s",
			today.AddDays(-8), today.AddDays(-1), records[0].Date, records[1].Date)
	}

	// Caught up: the next payday is in the future.
	if _, _, err := service.ConfirmPayday(ctx, today); !errors.Is(err, budget.ErrPaydayNotDue) {
		t.Errorf("expected ErrPaydayNotDue once caught up, got %v", err)
	}
}

func TestServiceWrites_KeepElapsedPayDate(t *testing.T) {
	// An unrelated write must not advance a stale NextPayDate: the
	// elapsed payday has to survive until it is confirmed.

	ctx := context.Background()
	store := memory.New()
	today := engine.NewDate(2024, time.March, 10)
	elapsed := today.AddDays(-1)

	stored := engine.BudgetSnapshot{
		Balance: money("100"),
		Cycle: engine.PayCycle{
			Frequency:   engine.FreqWeekly,
			Amount:      money("1000"),
			NextPayDate: elapsed,
		},
		AsOf: elapsed,
	}
	if err := store.SaveSnapshot(ctx, stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	service := budget.NewService(store)
	bill := engine.Bill{
		ID: "gym", Name: "Gym", Amount: money("45"),
		DueDate:   today.AddDays(3),
		Recurring: true, Frequency: engine.FreqWeekly,
	}
	if _, err := service.AddBill(ctx, bill, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	persisted, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !persisted.Cycle.NextPayDate.Equal(elapsed) {
		t.Errorf("write advanced the stored pay date to %s; the %s payday is lost",
			persisted.Cycle.NextPayDate, elapsed)
	}

	if _, record, err := service.ConfirmPayday(ctx, today); err != nil {
		t.Fatalf("payday should still be confirmable: %v", err)
	} else if !record.Date.Equal(elapsed) {
		t.Errorf("expected record dated %s, got %s", elapsed, record.Date)
	}
}
