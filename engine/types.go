/*
Package engine provides the core budget forecasting engine.

PURPOSE:
  This package contains the pure computational logic of the budgeting
  system: advancing recurring due dates across pay-cycle boundaries,
  projecting a day-by-day balance trajectory, grading budget health,
  and aggregating confirmed-payday history into period totals.

KEY CONCEPTS IN THIS FILE (types.go):
  - BudgetSnapshot: An immutable point-in-time view of balance, pay
    cycle, and bill list passed into every entry point
  - PayCycle: When and how much income arrives
  - Bill: A scheduled expense, recurring or once-off
  - PaydayRecord: An immutable record of a confirmed payday
  - ForecastPoint / HealthResult / PeriodTotal: Output-only values

DESIGN PRINCIPLES:
  1. Purity: No I/O, no global state, no wall clock. "Now" is always
     an explicit parameter, so every function is deterministic.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors.
  3. Fail fast: Inputs violating the documented invariants produce
     typed errors rather than silently repaired values. Repair belongs
     to the storage layer (see the budget package).

USAGE:
  points, err := engine.Project(snap, asOf, engine.DefaultHorizonDays)
  health, err := engine.Score(snap, engine.DefaultHorizonDays)

SEE ALSO:
  - date.go: Recurrence arithmetic (the one authoritative implementation)
  - forecast.go: Balance projection
  - health.go: Letter-grade scoring
  - history.go: Payday history aggregation
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// FREQUENCY - Recurrence cadence for pay cycles and bills
// =============================================================================

type Frequency string

const (
	FreqWeekly   Frequency = "weekly"
	FreqBiweekly Frequency = "biweekly"
	FreqMonthly  Frequency = "monthly"
	FreqOnce     Frequency = "once" // non-recurring bills only
	FreqNone     Frequency = ""
)

// IsRecurring reports whether the frequency describes a repeating cadence.
func (f Frequency) IsRecurring() bool {
	switch f {
	case FreqWeekly, FreqBiweekly, FreqMonthly:
		return true
	}
	return false
}

// =============================================================================
// PAY CYCLE - Scheduled income
// =============================================================================

// PayCycle describes when and how much income is deposited.
//
// Invariant: NextPayDate >= asOf after normalization by the caller.
// The engine schedules paydays forward from NextPayDate and never
// repairs a stale date (see budget.Normalize).
type PayCycle struct {
	Frequency   Frequency
	Amount      decimal.Decimal
	NextPayDate Date
}

// =============================================================================
// BILL - Scheduled expense
// =============================================================================

// Bill is a scheduled expense.
//
// Invariant: Recurring == false implies Frequency == FreqOnce. A once
// bill with Paid == true is excluded from all future projections.
type Bill struct {
	ID        string
	Name      string
	Amount    decimal.Decimal // always > 0
	DueDate   Date
	Recurring bool
	Frequency Frequency
	Paid      bool
}

// =============================================================================
// BUDGET SNAPSHOT - Engine input
// =============================================================================

// BudgetSnapshot is the immutable input to every engine call. The
// calling layer owns its lifecycle; the engine retains nothing
// between calls.
type BudgetSnapshot struct {
	Balance decimal.Decimal
	Cycle   PayCycle
	Bills   []Bill // ordered; order is preserved in same-day event output
	AsOf    Date
}

// =============================================================================
// PAYDAY RECORD - Append-only history entry
// =============================================================================

// PaydayRecord captures a confirmed payday. Created exactly once per
// confirmation and never mutated; the engine only reads sequences of
// these for aggregation.
type PaydayRecord struct {
	Date         Date
	BalanceAfter decimal.Decimal
	BillsSettled []string // Bill.ID values settled by this payday
}

// =============================================================================
// FORECAST OUTPUT
// =============================================================================

type EventType string

const (
	EventIncome  EventType = "income"
	EventExpense EventType = "expense"
)

// Event is a single balance change applied on a forecast day.
type Event struct {
	Type     EventType
	Amount   decimal.Decimal // always positive; Type carries the sign
	SourceID string          // Bill.ID, or "payday" for income
}

// ForecastPoint is one day of the projected trajectory. Days with no
// events still emit a point carrying the unchanged balance, so the
// sequence is dense and chartable as-is.
type ForecastPoint struct {
	Date             Date
	ProjectedBalance decimal.Decimal
	Events           []Event
}

// =============================================================================
// HEALTH OUTPUT
// =============================================================================

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// HealthResult classifies budget health. RatioDefined is false only
// when monthly income is zero; Ratio is meaningless in that case and
// the grade is F.
type HealthResult struct {
	Grade              Grade
	Ratio              decimal.Decimal
	RatioDefined       bool
	MonthlyIncome      decimal.Decimal
	MonthlyObligations decimal.Decimal
}

// =============================================================================
// HISTORY OUTPUT
// =============================================================================

// PeriodTotal is one fixed-length bucket of payday history.
type PeriodTotal struct {
	PeriodStart       Date
	TotalBalanceDelta decimal.Decimal
	Count             int
}

// MustDecimal parses a decimal literal, panicking on malformed input.
// Test and fixture helper; a bad literal is a programming error, never
// a silent zero.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
