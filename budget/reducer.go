/*
Package budget is the state layer around the forecasting engine.

PURPOSE:
  Owns the canonical BudgetSnapshot lifecycle: user actions (add bill,
  mark paid, confirm payday) are pure snapshot-to-snapshot transforms
  here, persistence goes through the Store interface, and the engine
  is re-run on the result. The engine itself never mutates state; this
  package is the only writer.

REDUCER CONTRACT:
  Every action takes a snapshot by value and returns a new snapshot
  with a cloned bill list. The input is never mutated, so a caller can
  keep projecting from the old snapshot while applying an action.

SEE ALSO:
  - normalize.go: Repair step run on loaded/synced payloads
  - service.go: Store-backed orchestration used by the API layer
*/
package budget

import (
	"errors"
	"fmt"

	"github.com/centsible/budget-engine/engine"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrBillNotFound is returned when an action references a bill ID
	// absent from the snapshot.
	ErrBillNotFound = errors.New("bill not found")

	// ErrDuplicateBill is returned when adding a bill whose ID already
	// exists in the snapshot.
	ErrDuplicateBill = errors.New("duplicate bill id")

	// ErrInvalidBill is returned when a bill violates its invariants
	// (non-positive amount, empty ID, recurring/frequency mismatch).
	ErrInvalidBill = errors.New("invalid bill")

	// ErrPaydayNotDue is returned when confirming a payday whose date
	// is still in the future.
	ErrPaydayNotDue = errors.New("payday not due yet")
)

// =============================================================================
// ACTIONS
// =============================================================================

// AddBill appends a validated bill to the snapshot.
func AddBill(snap engine.BudgetSnapshot, bill engine.Bill) (engine.BudgetSnapshot, error) {
	if err := validateBill(bill); err != nil {
		return snap, err
	}
	for _, b := range snap.Bills {
		if b.ID == bill.ID {
			return snap, fmt.Errorf("%w: %s", ErrDuplicateBill, bill.ID)
		}
	}

	next := cloneSnapshot(snap)
	next.Bills = append(next.Bills, bill)
	return next, nil
}

// RemoveBill drops a bill from the snapshot.
func RemoveBill(snap engine.BudgetSnapshot, billID string) (engine.BudgetSnapshot, error) {
	next := cloneSnapshot(snap)
	for i, b := range next.Bills {
		if b.ID == billID {
			next.Bills = append(next.Bills[:i], next.Bills[i+1:]...)
			return next, nil
		}
	}
	return snap, fmt.Errorf("%w: %s", ErrBillNotFound, billID)
}

// MarkBillPaid settles a bill out of cycle. A once bill becomes paid
// and drops out of future projections; a recurring bill instead
// advances one cycle, since it is never terminally paid.
func MarkBillPaid(snap engine.BudgetSnapshot, billID string) (engine.BudgetSnapshot, error) {
	next := cloneSnapshot(snap)
	for i := range next.Bills {
		if next.Bills[i].ID != billID {
			continue
		}
		if !next.Bills[i].Recurring {
			next.Bills[i].Paid = true
			return next, nil
		}
		advanced, err := engine.Advance(next.Bills[i].DueDate, next.Bills[i].Frequency)
		if err != nil {
			return snap, err
		}
		next.Bills[i].DueDate = advanced
		return next, nil
	}
	return snap, fmt.Errorf("%w: %s", ErrBillNotFound, billID)
}

// ConfirmPayday deposits the cycle amount, settles every unpaid bill
// due on or before the payday, advances the next pay date, and emits
// the immutable PaydayRecord for history. The record is created
// exactly once per confirmation and never mutated after.
func ConfirmPayday(snap engine.BudgetSnapshot, now engine.Date) (engine.BudgetSnapshot, engine.PaydayRecord, error) {
	if !snap.Cycle.Frequency.IsRecurring() {
		return snap, engine.PaydayRecord{}, &engine.FrequencyError{
			SourceID:  "paycycle",
			Frequency: snap.Cycle.Frequency,
		}
	}

	payday := snap.Cycle.NextPayDate
	if payday.After(now) {
		return snap, engine.PaydayRecord{}, fmt.Errorf("%w: next payday %s", ErrPaydayNotDue, payday)
	}

	next := cloneSnapshot(snap)
	next.Balance = next.Balance.Add(next.Cycle.Amount)

	var settled []string
	for i := range next.Bills {
		bill := &next.Bills[i]
		if bill.Paid || bill.DueDate.After(payday) {
			continue
		}
		next.Balance = next.Balance.Sub(bill.Amount)
		settled = append(settled, bill.ID)

		if !bill.Recurring {
			bill.Paid = true
			continue
		}
		due := bill.DueDate
		for due.BeforeOrEqual(payday) {
			advanced, err := engine.Advance(due, bill.Frequency)
			if err != nil {
				return snap, engine.PaydayRecord{}, err
			}
			due = advanced
		}
		bill.DueDate = due
	}

	advanced, err := engine.Advance(payday, next.Cycle.Frequency)
	if err != nil {
		return snap, engine.PaydayRecord{}, err
	}
	next.Cycle.NextPayDate = advanced

	record := engine.PaydayRecord{
		Date:         payday,
		BalanceAfter: next.Balance,
		BillsSettled: settled,
	}
	return next, record, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func validateBill(bill engine.Bill) error {
	switch {
	case bill.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidBill)
	case !bill.Amount.IsPositive():
		return fmt.Errorf("%w: %s has non-positive amount %s", ErrInvalidBill, bill.ID, bill.Amount)
	case bill.Recurring && !bill.Frequency.IsRecurring():
		return fmt.Errorf("%w: recurring bill %s has frequency %q", ErrInvalidBill, bill.ID, bill.Frequency)
	case !bill.Recurring && bill.Frequency != engine.FreqOnce:
		return fmt.Errorf("%w: once bill %s has frequency %q", ErrInvalidBill, bill.ID, bill.Frequency)
	}
	return nil
}

func cloneSnapshot(snap engine.BudgetSnapshot) engine.BudgetSnapshot {
	next := snap
	next.Bills = make([]engine.Bill, len(snap.Bills))
	copy(next.Bills, snap.Bills)
	return next
}
