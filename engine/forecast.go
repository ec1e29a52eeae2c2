/*
forecast.go - Day-by-day balance projection

PURPOSE:
  Projects the balance trajectory over a fixed horizon from a single
  snapshot: paydays add income, bills subtract expenses, and every day
  in the horizon emits a point whether or not anything happened on it.

ALGORITHM:
  1. Schedule paydays forward from the pay cycle's next pay date.
  2. Schedule each bill: a once unpaid bill fires exactly once on its
     due date (dropped when paid or already past); a recurring bill is
     first advanced past asOf, then fires on every occurrence up to
     the horizon end.
  3. Walk the horizon day by day in ascending order applying that
     day's events and recording the resulting balance.

TIE-BREAK:
  On a day carrying both income and expenses, income applies first, so
  the recorded balance never dips due to same-day ordering artifacts.

GUARANTEES:
  - Output length is exactly horizonDays+1.
  - Deterministic and side-effect-free: identical inputs always yield
    identical output. Same-day expense order follows snapshot bill
    order.

SEE ALSO:
  - date.go: Advance/OccurrencesBetween
  - health.go: Grades the same snapshot instead of projecting it
*/
package engine

import "fmt"

// DefaultHorizonDays is the projection horizon when the caller has no
// preference.
const DefaultHorizonDays = 90

// Project produces one ForecastPoint per day of [asOf, asOf+horizonDays].
func Project(snap BudgetSnapshot, asOf Date, horizonDays int) ([]ForecastPoint, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("%w: horizon %d days", ErrInvalidRange, horizonDays)
	}
	horizonEnd := asOf.AddDays(horizonDays)

	// Events indexed by day offset from asOf. Paydays are scheduled
	// before bills so income always precedes expenses within a day.
	calendar := make([][]Event, horizonDays+1)

	if err := schedulePaydays(&snap.Cycle, asOf, horizonEnd, calendar); err != nil {
		return nil, err
	}
	for i := range snap.Bills {
		if err := scheduleBill(&snap.Bills[i], asOf, horizonEnd, calendar); err != nil {
			return nil, err
		}
	}

	points := make([]ForecastPoint, horizonDays+1)
	balance := snap.Balance
	for offset := 0; offset <= horizonDays; offset++ {
		for _, ev := range calendar[offset] {
			switch ev.Type {
			case EventIncome:
				balance = balance.Add(ev.Amount)
			case EventExpense:
				balance = balance.Sub(ev.Amount)
			}
		}
		points[offset] = ForecastPoint{
			Date:             asOf.AddDays(offset),
			ProjectedBalance: balance,
			Events:           calendar[offset],
		}
	}
	return points, nil
}

// schedulePaydays adds an income event on every payday in the window.
// The pay cycle's next pay date is >= asOf after caller normalization;
// an occurrence outside the window is simply not indexed, never
// repaired.
func schedulePaydays(cycle *PayCycle, asOf, horizonEnd Date, calendar [][]Event) error {
	if !cycle.Frequency.IsRecurring() {
		return &FrequencyError{SourceID: "paycycle", Frequency: cycle.Frequency}
	}
	if cycle.NextPayDate.IsZero() || cycle.NextPayDate.After(horizonEnd) {
		return nil
	}

	occurrences, err := OccurrencesBetween(cycle.NextPayDate, horizonEnd, cycle.Frequency)
	if err != nil {
		return err
	}
	for _, day := range occurrences {
		if day.Before(asOf) {
			continue
		}
		addEvent(calendar, asOf, day, Event{
			Type:     EventIncome,
			Amount:   cycle.Amount,
			SourceID: "payday",
		})
	}
	return nil
}

// scheduleBill adds the bill's expense events in the window.
func scheduleBill(bill *Bill, asOf, horizonEnd Date, calendar [][]Event) error {
	if !bill.Recurring {
		if bill.Frequency != FreqOnce {
			return &FrequencyError{SourceID: bill.ID, Frequency: bill.Frequency}
		}
		// Paid, or missed before asOf: treated as settled by the caller.
		if bill.Paid || bill.DueDate.Before(asOf) || bill.DueDate.After(horizonEnd) {
			return nil
		}
		addEvent(calendar, asOf, bill.DueDate, expenseEvent(bill))
		return nil
	}

	if !bill.Frequency.IsRecurring() {
		return &FrequencyError{SourceID: bill.ID, Frequency: bill.Frequency}
	}

	// A stale recurring bill catches up to the present rather than
	// firing in the past.
	first := bill.DueDate
	for first.Before(asOf) {
		next, err := Advance(first, bill.Frequency)
		if err != nil {
			return err
		}
		first = next
	}
	if first.After(horizonEnd) {
		return nil
	}

	occurrences, err := OccurrencesBetween(first, horizonEnd, bill.Frequency)
	if err != nil {
		return err
	}
	for _, day := range occurrences {
		addEvent(calendar, asOf, day, expenseEvent(bill))
	}
	return nil
}

func expenseEvent(bill *Bill) Event {
	return Event{Type: EventExpense, Amount: bill.Amount, SourceID: bill.ID}
}

func addEvent(calendar [][]Event, asOf, day Date, ev Event) {
	offset := DaysBetween(asOf, day)
	if offset < 0 || offset >= len(calendar) {
		return
	}
	calendar[offset] = append(calendar[offset], ev)
}
