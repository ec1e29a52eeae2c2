/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Pre-built budgets that populate the store with realistic data. Each
  scenario demonstrates a specific engine behavior: comfortable
  budgets, stretched budgets, stale recurring bills catching up.

AVAILABLE SCENARIOS:
  fresh-start:  Healthy biweekly earner, a few recurring bills
  tight-month:  Obligations near income, once-off bills piling up
  catching-up:  Stale recurring bills due in the past, history seeded

HOW SCENARIOS WORK:
  1. Replace the snapshot wholesale via the budget service
  2. Optionally confirm past paydays to seed history

NOTE:
  Scenarios replace the current budget. Only use in development/demo
  environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/centsible/budget-engine/budget"
	"github.com/centsible/budget-engine/engine"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "Healthy biweekly earner with rent, utilities, and room to spare",
	},
	{
		ID:          "tight-month",
		Name:        "Tight Month",
		Description: "Obligations close to income plus once-off expenses",
	},
	{
		ID:          "catching-up",
		Name:        "Catching Up",
		Description: "Stale recurring bills due in the past, payday history seeded",
	},
}

// ListScenarios returns all demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario replaces the current budget with a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "fresh-start":
		err = h.loadFreshStartScenario(r.Context())
	case "tight-month":
		err = h.loadTightMonthScenario(r.Context())
	case "catching-up":
		err = h.loadCatchingUpScenario(r.Context())
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

func (h *Handler) loadFreshStartScenario(ctx context.Context) error {
	now := h.clock()
	cycle := engine.PayCycle{
		Frequency:   engine.FreqBiweekly,
		Amount:      engine.MustDecimal("1850"),
		NextPayDate: now.AddDays(3),
	}
	if _, err := h.Service.SetBudget(ctx, engine.MustDecimal("2400"), cycle, now); err != nil {
		return err
	}

	bills := []engine.Bill{
		{ID: "rent", Name: "Rent", Amount: engine.MustDecimal("1200"), DueDate: firstOfNextMonth(now), Recurring: true, Frequency: engine.FreqMonthly},
		{ID: "utilities", Name: "Utilities", Amount: engine.MustDecimal("140"), DueDate: now.AddDays(9), Recurring: true, Frequency: engine.FreqMonthly},
		{ID: "streaming", Name: "Streaming", Amount: engine.MustDecimal("16"), DueDate: now.AddDays(5), Recurring: true, Frequency: engine.FreqMonthly},
	}
	return h.addBills(ctx, bills, now)
}

func (h *Handler) loadTightMonthScenario(ctx context.Context) error {
	now := h.clock()
	cycle := engine.PayCycle{
		Frequency:   engine.FreqBiweekly,
		Amount:      engine.MustDecimal("1100"),
		NextPayDate: now.AddDays(6),
	}
	if _, err := h.Service.SetBudget(ctx, engine.MustDecimal("340"), cycle, now); err != nil {
		return err
	}

	bills := []engine.Bill{
		{ID: "rent", Name: "Rent", Amount: engine.MustDecimal("1450"), DueDate: firstOfNextMonth(now), Recurring: true, Frequency: engine.FreqMonthly},
		{ID: "car-loan", Name: "Car loan", Amount: engine.MustDecimal("380"), DueDate: now.AddDays(11), Recurring: true, Frequency: engine.FreqMonthly},
		{ID: "groceries", Name: "Groceries", Amount: engine.MustDecimal("110"), DueDate: now.AddDays(2), Recurring: true, Frequency: engine.FreqWeekly},
		{ID: "car-repair", Name: "Car repair", Amount: engine.MustDecimal("620"), DueDate: now.AddDays(14), Recurring: false, Frequency: engine.FreqOnce},
	}
	return h.addBills(ctx, bills, now)
}

func (h *Handler) loadCatchingUpScenario(ctx context.Context) error {
	now := h.clock()
	cycle := engine.PayCycle{
		Frequency:   engine.FreqBiweekly,
		Amount:      engine.MustDecimal("1500"),
		NextPayDate: now.AddDays(-14), // elapsed; confirmed below to seed history
	}
	if _, err := h.Service.SetBudget(ctx, engine.MustDecimal("900"), cycle, now); err != nil {
		return err
	}

	// Due dates in the past exercise the catch-up rule: the forecast
	// must schedule them from their next occurrence >= today.
	bills := []engine.Bill{
		{ID: "rent", Name: "Rent", Amount: engine.MustDecimal("1300"), DueDate: now.AddDays(-20), Recurring: true, Frequency: engine.FreqMonthly},
		{ID: "gym", Name: "Gym", Amount: engine.MustDecimal("45"), DueDate: now.AddDays(-9), Recurring: true, Frequency: engine.FreqWeekly},
	}
	if err := h.addBills(ctx, bills, now); err != nil {
		return err
	}

	// Seed history: the elapsed payday and the one landing today are
	// both due, so one confirmation records them in order.
	if _, _, err := h.Service.ConfirmPayday(ctx, now); err != nil && !errors.Is(err, budget.ErrPaydayNotDue) {
		return err
	}
	return nil
}

func (h *Handler) addBills(ctx context.Context, bills []engine.Bill, now engine.Date) error {
	for _, bill := range bills {
		if _, err := h.Service.AddBill(ctx, bill, now); err != nil {
			return err
		}
	}
	return nil
}

func firstOfNextMonth(now engine.Date) engine.Date {
	return engine.NewDate(now.Year(), now.Month()+1, 1)
}
