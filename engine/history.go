/*
history.go - Payday history aggregation

PURPOSE:
  Filters and totals sequences of confirmed-payday records. The engine
  only reads these; creation is the State layer's job (one record per
  confirmed payday, never mutated after).

DELTA SEMANTICS:
  A record's balance delta is its BalanceAfter minus the previous
  record's BalanceAfter. The first record in a history has no baseline
  and contributes zero delta.

SPARSENESS:
  TotalsByPeriod omits zero-count windows entirely. Callers needing
  dense buckets fill the gaps themselves.
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FilterByRange returns the records falling within [start, end],
// preserving chronological order. Idempotent: filtering its own output
// with the same range returns an identical sequence.
func FilterByRange(records []PaydayRecord, start, end Date) ([]PaydayRecord, error) {
	if end.Before(start) {
		return nil, &RangeError{Start: start, End: end}
	}

	out := make([]PaydayRecord, 0, len(records))
	for _, r := range records {
		if r.Date.AfterOrEqual(start) && r.Date.BeforeOrEqual(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

// TotalsByPeriod buckets records into consecutive fixed-length windows
// anchored at the first record's date. Records must already be in
// chronological order (stores list them that way); an out-of-order
// record would land in the wrong bucket. An empty input yields an
// empty sequence, not an error.
func TotalsByPeriod(records []PaydayRecord, periodLengthDays int) ([]PeriodTotal, error) {
	if periodLengthDays <= 0 {
		return nil, fmt.Errorf("%w: period length %d days", ErrInvalidRange, periodLengthDays)
	}
	if len(records) == 0 {
		return []PeriodTotal{}, nil
	}

	anchor := records[0].Date
	var (
		out      []PeriodTotal
		previous decimal.Decimal
	)
	for i, r := range records {
		delta := decimal.Zero
		if i > 0 {
			delta = r.BalanceAfter.Sub(previous)
		}
		previous = r.BalanceAfter

		index := DaysBetween(anchor, r.Date) / periodLengthDays
		start := anchor.AddDays(index * periodLengthDays)

		if len(out) > 0 && out[len(out)-1].PeriodStart.Equal(start) {
			out[len(out)-1].TotalBalanceDelta = out[len(out)-1].TotalBalanceDelta.Add(delta)
			out[len(out)-1].Count++
			continue
		}
		out = append(out, PeriodTotal{
			PeriodStart:       start,
			TotalBalanceDelta: delta,
			Count:             1,
		})
	}
	return out, nil
}

// LatestPeriod returns the most recent non-empty bucket. This is a
// summary query: an empty history fails with ErrEmptyHistory.
func LatestPeriod(records []PaydayRecord, periodLengthDays int) (PeriodTotal, error) {
	if len(records) == 0 {
		return PeriodTotal{}, ErrEmptyHistory
	}
	totals, err := TotalsByPeriod(records, periodLengthDays)
	if err != nil {
		return PeriodTotal{}, err
	}
	return totals[len(totals)-1], nil
}
