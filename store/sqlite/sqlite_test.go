package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/budget-engine/budget"
	"github.com/centsible/budget-engine/engine"
	"github.com/centsible/budget-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSnapshot() engine.BudgetSnapshot {
	return engine.BudgetSnapshot{
		Balance: engine.MustDecimal("2450.75"),
		Cycle: engine.PayCycle{
			Frequency:   engine.FreqBiweekly,
			Amount:      engine.MustDecimal("1850.25"),
			NextPayDate: engine.NewDate(2024, time.March, 15),
		},
		Bills: []engine.Bill{
			{
				ID: "rent", Name: "Rent", Amount: engine.MustDecimal("1400"),
				DueDate:   engine.NewDate(2024, time.April, 1),
				Recurring: true, Frequency: engine.FreqMonthly,
			},
			{
				ID: "tickets", Name: "Concert tickets", Amount: engine.MustDecimal("79.99"),
				DueDate:   engine.NewDate(2024, time.March, 20),
				Recurring: false, Frequency: engine.FreqOnce, Paid: true,
			},
		},
		AsOf: engine.NewDate(2024, time.March, 10),
	}
}

// =============================================================================
// SNAPSHOT ROUND TRIP
// =============================================================================

func TestSnapshot_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, testSnapshot()))

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)

	want := testSnapshot()
	assert.True(t, got.Balance.Equal(want.Balance), "balance should round-trip exactly")
	assert.Equal(t, want.Cycle.Frequency, got.Cycle.Frequency)
	assert.True(t, got.Cycle.Amount.Equal(want.Cycle.Amount))
	assert.True(t, got.Cycle.NextPayDate.Equal(want.Cycle.NextPayDate))
	assert.True(t, got.AsOf.Equal(want.AsOf))

	require.Len(t, got.Bills, 2)
	assert.Equal(t, "rent", got.Bills[0].ID, "bill order should be preserved")
	assert.True(t, got.Bills[0].Amount.Equal(want.Bills[0].Amount))
	assert.True(t, got.Bills[1].Paid)
	assert.Equal(t, engine.FreqOnce, got.Bills[1].Frequency)
}

func TestLoadSnapshot_Empty_ErrNoSnapshot(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadSnapshot(context.Background())
	assert.ErrorIs(t, err, budget.ErrNoSnapshot)
}

func TestSaveSnapshot_ReplacesBillListWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, testSnapshot()))

	next := testSnapshot()
	next.Bills = []engine.Bill{{
		ID: "internet", Name: "Internet", Amount: engine.MustDecimal("60"),
		DueDate:   engine.NewDate(2024, time.April, 5),
		Recurring: true, Frequency: engine.FreqMonthly,
	}}
	require.NoError(t, store.SaveSnapshot(ctx, next))

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got.Bills, 1)
	assert.Equal(t, "internet", got.Bills[0].ID)
}

func TestSnapshot_ZeroDatesSurvive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := testSnapshot()
	snap.Cycle.NextPayDate = engine.Date{}
	require.NoError(t, store.SaveSnapshot(ctx, snap))

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, got.Cycle.NextPayDate.IsZero())
}

// =============================================================================
// PAYDAY HISTORY
// =============================================================================

func TestPaydayRecords_AppendAndListChronological(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := engine.PaydayRecord{
		Date:         engine.NewDate(2024, time.March, 1),
		BalanceAfter: engine.MustDecimal("1220.50"),
		BillsSettled: []string{"rent", "tickets"},
	}
	second := engine.PaydayRecord{
		Date:         engine.NewDate(2024, time.March, 15),
		BalanceAfter: engine.MustDecimal("2470.50"),
	}

	require.NoError(t, store.AppendPaydayRecord(ctx, first))
	require.NoError(t, store.AppendPaydayRecord(ctx, second))

	records, err := store.ListPaydayRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.True(t, records[0].Date.Equal(first.Date))
	assert.True(t, records[0].BalanceAfter.Equal(first.BalanceAfter))
	assert.Equal(t, []string{"rent", "tickets"}, records[0].BillsSettled)

	assert.True(t, records[1].Date.Equal(second.Date))
	assert.Empty(t, records[1].BillsSettled)
}

func TestPaydayRecords_SameDayPreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := engine.NewDate(2024, time.March, 1)

	require.NoError(t, store.AppendPaydayRecord(ctx, engine.PaydayRecord{
		Date: day, BalanceAfter: engine.MustDecimal("100"),
	}))
	require.NoError(t, store.AppendPaydayRecord(ctx, engine.PaydayRecord{
		Date: day, BalanceAfter: engine.MustDecimal("200"),
	}))

	records, err := store.ListPaydayRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].BalanceAfter.Equal(engine.MustDecimal("100")))
	assert.True(t, records[1].BalanceAfter.Equal(engine.MustDecimal("200")))
}
