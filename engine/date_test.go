package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/centsible/budget-engine/engine"
)

// =============================================================================
// ADVANCE TESTS
// =============================================================================

func TestAdvance_Weekly_AddsSevenDays(t *testing.T) {
	got, err := engine.Advance(engine.NewDate(2024, time.January, 1), engine.FreqWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := engine.NewDate(2024, time.January, 8); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAdvance_Biweekly_AddsFourteenDays(t *testing.T) {
	got, err := engine.Advance(engine.NewDate(2024, time.January, 1), engine.FreqBiweekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := engine.NewDate(2024, time.January, 15); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAdvance_Monthly_ClampsToEndOfMonth(t *testing.T) {
	// GIVEN: Jan 31 in a leap year
	// WHEN: Advancing monthly twice
	// THEN: Feb 29 first, then Mar 29 - the clamped day carries forward,
	//       it is never re-derived from the original day 31

	jan31 := engine.NewDate(2024, time.January, 31)

	feb, err := engine.Advance(jan31, engine.FreqMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := engine.NewDate(2024, time.February, 29); !feb.Equal(want) {
		t.Fatalf("expected %s, got %s", want, feb)
	}

	mar, err := engine.Advance(feb, engine.FreqMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := engine.NewDate(2024, time.March, 29); !mar.Equal(want) {
		t.Errorf("expected %s, got %s", want, mar)
	}
}

func TestAdvance_Monthly_NonLeapFebruary(t *testing.T) {
	got, err := engine.Advance(engine.NewDate(2023, time.January, 31), engine.FreqMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := engine.NewDate(2023, time.February, 28); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAdvance_Monthly_DecemberWrapsYear(t *testing.T) {
	got, err := engine.Advance(engine.NewDate(2024, time.December, 15), engine.FreqMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := engine.NewDate(2025, time.January, 15); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAdvance_OnceAndNone_Invalid(t *testing.T) {
	for _, freq := range []engine.Frequency{engine.FreqOnce, engine.FreqNone, "fortnightly"} {
		_, err := engine.Advance(engine.NewDate(2024, time.January, 1), freq)
		if !errors.Is(err, engine.ErrInvalidFrequency) {
			t.Errorf("frequency %q: expected ErrInvalidFrequency, got %v", freq, err)
		}
	}
}

// =============================================================================
// OCCURRENCES TESTS
// =============================================================================

func TestOccurrencesBetween_StartInclusive(t *testing.T) {
	// GIVEN: A weekly cadence over exactly three weeks
	// WHEN: Enumerating occurrences
	// THEN: Start itself is included and the sequence stops at the bound

	start := engine.NewDate(2024, time.March, 1)
	end := engine.NewDate(2024, time.March, 15)

	got, err := engine.OccurrencesBetween(start, end, engine.FreqWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []engine.Date{
		engine.NewDate(2024, time.March, 1),
		engine.NewDate(2024, time.March, 8),
		engine.NewDate(2024, time.March, 15),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestOccurrencesBetween_EndBeforeStart_InvalidRange(t *testing.T) {
	_, err := engine.OccurrencesBetween(
		engine.NewDate(2024, time.March, 15),
		engine.NewDate(2024, time.March, 1),
		engine.FreqWeekly,
	)
	if !errors.Is(err, engine.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}

	var re *engine.RangeError
	if !errors.As(err, &re) {
		t.Errorf("expected *RangeError, got %T", err)
	}
}

func TestOccurrencesBetween_Restartable(t *testing.T) {
	// Two calls with the same bounds must produce the same sequence:
	// there is no retained cursor.

	start := engine.NewDate(2024, time.January, 1)
	end := engine.NewDate(2024, time.June, 30)

	first, err := engine.OccurrencesBetween(start, end, engine.FreqMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.OccurrencesBetween(start, end, engine.FreqMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("sequences differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("occurrence %d differs: %s vs %s", i, first[i], second[i])
		}
	}
}

// =============================================================================
// DATE COMPARISON TESTS
// =============================================================================

func TestDate_ComparesByCalendarDayOnly(t *testing.T) {
	morning := engine.DateOf(time.Date(2024, time.May, 5, 8, 30, 0, 0, time.UTC))
	evening := engine.DateOf(time.Date(2024, time.May, 5, 23, 59, 0, 0, time.UTC))
	if !morning.Equal(evening) {
		t.Error("same calendar day should compare equal regardless of time-of-day")
	}
}

func TestDaysBetween(t *testing.T) {
	from := engine.NewDate(2024, time.January, 1)
	to := engine.NewDate(2024, time.January, 11)
	if got := engine.DaysBetween(from, to); got != 10 {
		t.Errorf("expected 10 days, got %d", got)
	}
	if got := engine.DaysBetween(to, from); got != -10 {
		t.Errorf("expected -10 days, got %d", got)
	}
}
