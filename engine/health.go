/*
health.go - Letter-grade budget health classification

PURPOSE:
  Answers "is my budget healthy?" by comparing committed monthly
  obligations against monthly income.

NORMALIZATION:
  Income and recurring bills are normalized to monthly equivalents:
  weekly x 52/12, biweekly x 26/12, monthly x 1. Unpaid once-off bills
  are amortized over the forecast horizon in whole months
  (amount / max(1, horizonDays/30)).

GRADE BANDS (ratio = obligations / income, upper bounds inclusive):
  <= 0.50  A
  <= 0.70  B
  <= 0.85  C
  <= 1.00  D
   > 1.00  F

Zero income yields grade F with an undefined ratio plus
ErrDivisionUndefined, keeping the result renderable while still
surfacing the typed failure.
*/
package engine

import "github.com/shopspring/decimal"

var (
	monthsPerYear   = decimal.NewFromInt(12)
	weeksPerYear    = decimal.NewFromInt(52)
	biweeksPerYear  = decimal.NewFromInt(26)
	gradeThresholds = []struct {
		ceiling decimal.Decimal
		grade   Grade
	}{
		{decimal.RequireFromString("0.5"), GradeA},
		{decimal.RequireFromString("0.7"), GradeB},
		{decimal.RequireFromString("0.85"), GradeC},
		{decimal.RequireFromString("1.0"), GradeD},
	}
)

// Score classifies budget health from a snapshot. horizonDays controls
// the amortization window for once-off bills and must be non-negative.
func Score(snap BudgetSnapshot, horizonDays int) (HealthResult, error) {
	if horizonDays < 0 {
		return HealthResult{}, &RangeError{Start: snap.AsOf, End: snap.AsOf.AddDays(horizonDays)}
	}

	income, err := MonthlyEquivalent(snap.Cycle.Amount, snap.Cycle.Frequency)
	if err != nil {
		return HealthResult{}, &FrequencyError{SourceID: "paycycle", Frequency: snap.Cycle.Frequency}
	}

	// Whole months in the horizon, floored at one so short horizons do
	// not inflate once-off obligations.
	amortMonths := decimal.NewFromInt(int64(max(1, horizonDays/30)))

	obligations := decimal.Zero
	for _, bill := range snap.Bills {
		if bill.Paid {
			continue
		}
		if bill.Recurring {
			monthly, err := MonthlyEquivalent(bill.Amount, bill.Frequency)
			if err != nil {
				return HealthResult{}, &FrequencyError{SourceID: bill.ID, Frequency: bill.Frequency}
			}
			obligations = obligations.Add(monthly)
			continue
		}
		if bill.Frequency != FreqOnce {
			return HealthResult{}, &FrequencyError{SourceID: bill.ID, Frequency: bill.Frequency}
		}
		obligations = obligations.Add(bill.Amount.Div(amortMonths))
	}

	result := HealthResult{
		MonthlyIncome:      income,
		MonthlyObligations: obligations,
	}

	if income.IsZero() {
		result.Grade = GradeF
		return result, ErrDivisionUndefined
	}

	result.Ratio = obligations.Div(income)
	result.RatioDefined = true
	result.Grade = gradeFor(result.Ratio)
	return result, nil
}

// MonthlyEquivalent normalizes a per-cycle amount to its monthly
// equivalent.
func MonthlyEquivalent(amount decimal.Decimal, freq Frequency) (decimal.Decimal, error) {
	switch freq {
	case FreqWeekly:
		return amount.Mul(weeksPerYear).Div(monthsPerYear), nil
	case FreqBiweekly:
		return amount.Mul(biweeksPerYear).Div(monthsPerYear), nil
	case FreqMonthly:
		return amount, nil
	default:
		return decimal.Zero, ErrInvalidFrequency
	}
}

func gradeFor(ratio decimal.Decimal) Grade {
	for _, band := range gradeThresholds {
		if ratio.LessThanOrEqual(band.ceiling) {
			return band.grade
		}
	}
	return GradeF
}
