/*
date.go - Calendar-day arithmetic for recurrence

PURPOSE:
  The one authoritative implementation of every recurrence rule in the
  system, including month-end clamping. All date math elsewhere goes
  through this file so each rule has a single test surface.

KEY RULES:
  - Dates compare by calendar day only. Callers normalize to a single
    reference timezone (UTC here) before constructing a Date.
  - Monthly advancement preserves day-of-month, clamping to the last
    valid day of the target month. The clamped day then carries
    forward: Jan 31 -> Feb 29 -> Mar 29, not Mar 31.

SEE ALSO:
  - forecast.go: Consumes Advance/OccurrencesBetween to build the
    event calendar
*/
package engine

import "time"

// =============================================================================
// DATE - Calendar-day value
// =============================================================================

// Date is a calendar day. Time-of-day and timezone are normalized away
// at construction; two Dates on the same calendar day are Equal.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a 2006-01-02 literal.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// DaysBetween returns the number of calendar days from 'from' to 'to'
// (negative if 'to' precedes 'from').
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// RECURRENCE - Advance and enumerate occurrences
// =============================================================================

// Advance computes the next occurrence of a recurring date. Weekly and
// biweekly are fixed-length deltas; monthly adds one calendar month
// preserving day-of-month, clamped to the last valid day of the target
// month when the source day does not exist there.
func Advance(d Date, freq Frequency) (Date, error) {
	switch freq {
	case FreqWeekly:
		return d.AddDays(7), nil
	case FreqBiweekly:
		return d.AddDays(14), nil
	case FreqMonthly:
		return addMonthClamped(d), nil
	default:
		return Date{}, &FrequencyError{SourceID: "advance", Frequency: freq}
	}
}

// OccurrencesBetween enumerates occurrences from start (inclusive)
// through end, applying Advance repeatedly. The sequence is recomputed
// fresh each call; there is no retained cursor.
func OccurrencesBetween(start, end Date, freq Frequency) ([]Date, error) {
	if end.Before(start) {
		return nil, &RangeError{Start: start, End: end}
	}

	var out []Date
	current := start
	for current.BeforeOrEqual(end) {
		out = append(out, current)
		next, err := Advance(current, freq)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return out, nil
}

// addMonthClamped adds one calendar month, clamping to the end of the
// target month. Go's AddDate normalizes Jan 31 + 1 month to Mar 2/3,
// which is the wrong behavior for due dates.
func addMonthClamped(d Date) Date {
	firstOfNext := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	last := daysInMonth(firstOfNext.Year(), firstOfNext.Month())
	day := d.Day()
	if day > last {
		day = last
	}
	return NewDate(firstOfNext.Year(), firstOfNext.Month(), day)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
