/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Monetary values travel as JSON strings ("1400.50"), never floats,
  so precision survives the wire the same way it survives storage.

VALIDATION:
  Validation is done in handlers and the budget reducer, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/centsible/budget-engine/engine"
)

// =============================================================================
// SNAPSHOT TYPES
// =============================================================================

// PayCycleDTO represents the pay cycle in API payloads.
type PayCycleDTO struct {
	Frequency   string `json:"frequency"`
	Amount      string `json:"amount"`
	NextPayDate string `json:"next_pay_date"`
}

// BudgetDTO represents the current snapshot.
type BudgetDTO struct {
	Balance string      `json:"balance"`
	Cycle   PayCycleDTO `json:"pay_cycle"`
	Bills   []BillDTO   `json:"bills"`
	AsOf    string      `json:"as_of"`
}

// SetBudgetRequest replaces balance and pay cycle.
type SetBudgetRequest struct {
	Balance string      `json:"balance"`
	Cycle   PayCycleDTO `json:"pay_cycle"`
}

// =============================================================================
// BILL TYPES
// =============================================================================

// BillDTO represents a bill in API responses.
type BillDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	DueDate   string `json:"due_date"`
	Recurring bool   `json:"recurring"`
	Frequency string `json:"frequency"`
	Paid      bool   `json:"paid"`
}

// CreateBillRequest is the request to add a bill. ID is optional; the
// server assigns one when empty.
type CreateBillRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	DueDate   string `json:"due_date"`
	Recurring bool   `json:"recurring"`
	Frequency string `json:"frequency,omitempty"`
}

// =============================================================================
// FORECAST / HEALTH / HISTORY TYPES
// =============================================================================

// EventDTO is one balance change on a forecast day.
type EventDTO struct {
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	SourceID string `json:"source_id"`
}

// ForecastPointDTO is one day of the projection.
type ForecastPointDTO struct {
	Date             string     `json:"date"`
	ProjectedBalance string     `json:"projected_balance"`
	Events           []EventDTO `json:"events"`
}

// HealthDTO represents the health grade. Ratio is null when income is
// zero (the ratio is undefined; the grade is F).
type HealthDTO struct {
	Grade              string  `json:"grade"`
	Ratio              *string `json:"ratio"`
	MonthlyIncome      string  `json:"monthly_income"`
	MonthlyObligations string  `json:"monthly_obligations"`
}

// PaydayRecordDTO is one confirmed payday.
type PaydayRecordDTO struct {
	Date         string   `json:"date"`
	BalanceAfter string   `json:"balance_after"`
	BillsSettled []string `json:"bills_settled"`
}

// PeriodTotalDTO is one history bucket.
type PeriodTotalDTO struct {
	PeriodStart       string `json:"period_start"`
	TotalBalanceDelta string `json:"total_balance_delta"`
	Count             int    `json:"count"`
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toBudgetDTO(snap engine.BudgetSnapshot) BudgetDTO {
	bills := make([]BillDTO, len(snap.Bills))
	for i, b := range snap.Bills {
		bills[i] = toBillDTO(b)
	}
	return BudgetDTO{
		Balance: snap.Balance.String(),
		Cycle: PayCycleDTO{
			Frequency:   string(snap.Cycle.Frequency),
			Amount:      snap.Cycle.Amount.String(),
			NextPayDate: snap.Cycle.NextPayDate.String(),
		},
		Bills: bills,
		AsOf:  snap.AsOf.String(),
	}
}

func toBillDTO(b engine.Bill) BillDTO {
	return BillDTO{
		ID:        b.ID,
		Name:      b.Name,
		Amount:    b.Amount.String(),
		DueDate:   b.DueDate.String(),
		Recurring: b.Recurring,
		Frequency: string(b.Frequency),
		Paid:      b.Paid,
	}
}

func toForecastDTOs(points []engine.ForecastPoint) []ForecastPointDTO {
	out := make([]ForecastPointDTO, len(points))
	for i, p := range points {
		events := make([]EventDTO, len(p.Events))
		for j, ev := range p.Events {
			events[j] = EventDTO{
				Type:     string(ev.Type),
				Amount:   ev.Amount.String(),
				SourceID: ev.SourceID,
			}
		}
		out[i] = ForecastPointDTO{
			Date:             p.Date.String(),
			ProjectedBalance: p.ProjectedBalance.String(),
			Events:           events,
		}
	}
	return out
}

func toHealthDTO(result engine.HealthResult) HealthDTO {
	dto := HealthDTO{
		Grade:              string(result.Grade),
		MonthlyIncome:      result.MonthlyIncome.String(),
		MonthlyObligations: result.MonthlyObligations.String(),
	}
	if result.RatioDefined {
		ratio := result.Ratio.String()
		dto.Ratio = &ratio
	}
	return dto
}

func toPaydayRecordDTOs(records []engine.PaydayRecord) []PaydayRecordDTO {
	out := make([]PaydayRecordDTO, len(records))
	for i, r := range records {
		settled := r.BillsSettled
		if settled == nil {
			settled = []string{}
		}
		out[i] = PaydayRecordDTO{
			Date:         r.Date.String(),
			BalanceAfter: r.BalanceAfter.String(),
			BillsSettled: settled,
		}
	}
	return out
}

func toPeriodTotalDTOs(totals []engine.PeriodTotal) []PeriodTotalDTO {
	out := make([]PeriodTotalDTO, len(totals))
	for i, p := range totals {
		out[i] = PeriodTotalDTO{
			PeriodStart:       p.PeriodStart.String(),
			TotalBalanceDelta: p.TotalBalanceDelta.String(),
			Count:             p.Count,
		}
	}
	return out
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, s)
	}
	return d, nil
}
