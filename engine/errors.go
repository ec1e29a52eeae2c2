/*
errors.go - Centralized error types for the budget engine

PURPOSE:
  All engine error types in one place. The surrounding layers (State,
  API) match on the sentinels with errors.Is and on the structured
  types with errors.As.

ERROR CATEGORIES:
  1. Input errors - Frequency/range values that violate the documented
     invariants. The engine never repairs these; it fails fast.
  2. Derivation errors - DivisionUndefined (zero income) and
     EmptyHistory (summary over no records). Both still yield a
     renderable result where the caller needs one.

USAGE:
  if errors.Is(err, engine.ErrInvalidFrequency) { ... }

  var fe *engine.FrequencyError
  if errors.As(err, &fe) { log.Printf("bad frequency %q", fe.Frequency) }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidFrequency is returned when a recurring bill or pay cycle
	// carries frequency once/none or an unrecognized value, or a
	// non-recurring bill carries anything other than once.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrInvalidRange is returned when end < start is passed to any
	// range-based function, or a horizon/period length is non-positive.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrDivisionUndefined is returned when zero income is supplied to
	// the health scorer. The result alongside it is still renderable
	// (grade F, undefined ratio).
	ErrDivisionUndefined = errors.New("division undefined: zero income")

	// ErrEmptyHistory is returned by summary queries that require at
	// least one payday record. Filtering and bucketing return empty
	// sequences instead of this error.
	ErrEmptyHistory = errors.New("empty payday history")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FrequencyError reports which source carried the offending frequency.
type FrequencyError struct {
	SourceID  string // Bill.ID, or "paycycle"
	Frequency Frequency
}

func (e *FrequencyError) Error() string {
	return fmt.Sprintf("invalid frequency %q on %s", e.Frequency, e.SourceID)
}

func (e *FrequencyError) Unwrap() error { return ErrInvalidFrequency }

// RangeError reports the offending bounds.
type RangeError struct {
	Start Date
	End   Date
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s before start %s", e.End, e.Start)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidFrequency) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrEmptyHistory)
}
