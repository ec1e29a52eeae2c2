/*
normalize.go - Payload repair for loaded and synced snapshots

PURPOSE:
  The engine assumes its inputs satisfy the documented invariants and
  fails fast when they do not. Repair belongs here, at the storage
  boundary: every snapshot coming off disk or a cloud pull passes
  through repair before reaching the engine.

REPAIRS:
  - AsOf is set to now.
  - A pay cycle with an unusable frequency defaults to monthly.
  - A zero NextPayDate becomes now.
  - Non-recurring bills are coerced to frequency once.
  - Bills with an empty ID, a non-positive amount, or a recurring flag
    with an unusable cadence are dropped (there is nothing sensible to
    guess for them).

STALE PAY DATES:
  Normalize additionally advances a stale NextPayDate forward until
  >= now. That is a read-path repair only (forecast scheduling,
  display). Write paths repair without advancing: a payday that
  elapsed while the process was down must stay confirmable from its
  stored date (see Service.ConfirmPayday).
*/
package budget

import "github.com/centsible/budget-engine/engine"

// Normalize repairs a snapshot and advances a stale NextPayDate to the
// first occurrence >= now. Returns a new snapshot; the input is not
// mutated.
func Normalize(snap engine.BudgetSnapshot, now engine.Date) engine.BudgetSnapshot {
	next := repair(snap, now)
	for next.Cycle.NextPayDate.Before(now) {
		advanced, err := engine.Advance(next.Cycle.NextPayDate, next.Cycle.Frequency)
		if err != nil {
			break // unreachable: repair coerced the frequency to a recurring one
		}
		next.Cycle.NextPayDate = advanced
	}
	return next
}

// repair fixes what the engine refuses to, keeping NextPayDate as
// stored so elapsed paydays survive a restart.
func repair(snap engine.BudgetSnapshot, now engine.Date) engine.BudgetSnapshot {
	next := cloneSnapshot(snap)
	next.AsOf = now

	if !next.Cycle.Frequency.IsRecurring() {
		next.Cycle.Frequency = engine.FreqMonthly
	}
	if next.Cycle.NextPayDate.IsZero() {
		next.Cycle.NextPayDate = now
	}

	kept := next.Bills[:0]
	for _, bill := range next.Bills {
		if bill.ID == "" || !bill.Amount.IsPositive() {
			continue
		}
		if bill.Recurring && !bill.Frequency.IsRecurring() {
			continue
		}
		if !bill.Recurring {
			bill.Frequency = engine.FreqOnce
		}
		kept = append(kept, bill)
	}
	next.Bills = kept
	return next
}
