/*
handlers.go - HTTP API handlers for the budget engine

PURPOSE:
  Exposes the forecast & health engine via REST. Handles HTTP
  request/response, JSON serialization, and delegates everything else
  to the budget service and the pure engine.

ENDPOINTS:
  Budget:
    GET    /api/budget                Current snapshot
    PUT    /api/budget                Set balance and pay cycle

  Bills:
    GET    /api/bills                 List bills
    POST   /api/bills                 Add a bill
    POST   /api/bills/{id}/paid       Mark a bill paid
    DELETE /api/bills/{id}            Remove a bill

  Paydays:
    POST   /api/paydays/confirm       Confirm the due payday
    GET    /api/paydays               History (optional start/end)

  Engine:
    GET    /api/forecast?days=90      Day-by-day projection
    GET    /api/health?days=90        Letter-grade health
    GET    /api/history/periods?days=30  Period totals
    GET    /api/history/latest?days=30   Latest period summary

  Scenarios:
    GET    /api/scenarios             List demo scenarios
    POST   /api/scenarios/load        Load a demo scenario

ERROR HANDLING:
  Engine and reducer errors map to HTTP status:
  - 400: invalid frequency/range, malformed input
  - 404: bill not found, empty history summary
  - 409: duplicate bill, payday not due
  - 500: storage failures

"NOW":
  The engine never reads the wall clock; handlers resolve today's date
  once per request and pass it down explicitly.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/centsible/budget-engine/budget"
	"github.com/centsible/budget-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *budget.Service

	// clock resolves "today"; overridable in tests for determinism.
	clock func() engine.Date

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler over the given service.
func NewHandler(service *budget.Service) *Handler {
	return &Handler{
		Service: service,
		clock:   func() engine.Date { return engine.DateOf(time.Now().UTC()) },
	}
}

// =============================================================================
// BUDGET HANDLERS
// =============================================================================

// GetBudget returns the current snapshot.
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Snapshot(r.Context(), h.clock())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load budget", err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(snap))
}

// SetBudget replaces balance and pay cycle.
func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req SetBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	balance, err := parseAmount("balance", req.Balance)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	amount, err := parseAmount("pay amount", req.Cycle.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	nextPay, err := engine.ParseDate(req.Cycle.NextPayDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid next_pay_date", err)
		return
	}

	cycle := engine.PayCycle{
		Frequency:   engine.Frequency(req.Cycle.Frequency),
		Amount:      amount,
		NextPayDate: nextPay,
	}
	snap, err := h.Service.SetBudget(r.Context(), balance, cycle, h.clock())
	if err != nil {
		writeEngineError(w, "Failed to set budget", err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(snap))
}

// =============================================================================
// BILL HANDLERS
// =============================================================================

// ListBills returns the snapshot's bill list.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Snapshot(r.Context(), h.clock())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load budget", err)
		return
	}
	dtos := make([]BillDTO, len(snap.Bills))
	for i, b := range snap.Bills {
		dtos[i] = toBillDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBill adds a bill, assigning an ID when the client omits one.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	due, err := engine.ParseDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid due_date", err)
		return
	}

	bill := engine.Bill{
		ID:        req.ID,
		Name:      req.Name,
		Amount:    amount,
		DueDate:   due,
		Recurring: req.Recurring,
		Frequency: engine.Frequency(req.Frequency),
	}
	if bill.ID == "" {
		bill.ID = uuid.NewString()
	}
	if !bill.Recurring && bill.Frequency == engine.FreqNone {
		bill.Frequency = engine.FreqOnce
	}

	snap, err := h.Service.AddBill(r.Context(), bill, h.clock())
	if err != nil {
		writeEngineError(w, "Failed to add bill", err)
		return
	}
	for _, b := range snap.Bills {
		if b.ID == bill.ID {
			writeJSON(w, http.StatusCreated, toBillDTO(b))
			return
		}
	}
	writeJSON(w, http.StatusCreated, toBillDTO(bill))
}

// MarkBillPaid settles a bill out of cycle.
func (h *Handler) MarkBillPaid(w http.ResponseWriter, r *http.Request) {
	billID := chi.URLParam(r, "id")
	snap, err := h.Service.MarkBillPaid(r.Context(), billID, h.clock())
	if err != nil {
		writeEngineError(w, "Failed to mark bill paid", err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(snap))
}

// DeleteBill removes a bill.
func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	billID := chi.URLParam(r, "id")
	if _, err := h.Service.RemoveBill(r.Context(), billID, h.clock()); err != nil {
		writeEngineError(w, "Failed to delete bill", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYDAY HANDLERS
// =============================================================================

// ConfirmPayday applies the due payday and records it in history.
func (h *Handler) ConfirmPayday(w http.ResponseWriter, r *http.Request) {
	_, record, err := h.Service.ConfirmPayday(r.Context(), h.clock())
	if err != nil {
		writeEngineError(w, "Failed to confirm payday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaydayRecordDTOs([]engine.PaydayRecord{record})[0])
}

// ListPaydays returns history, optionally bounded by start/end.
func (h *Handler) ListPaydays(w http.ResponseWriter, r *http.Request) {
	var start, end *engine.Date
	if s := r.URL.Query().Get("start"); s != "" {
		d, err := engine.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start date", err)
			return
		}
		start = &d
	}
	if s := r.URL.Query().Get("end"); s != "" {
		d, err := engine.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end date", err)
			return
		}
		end = &d
	}

	records, err := h.Service.History(r.Context(), start, end)
	if err != nil {
		writeEngineError(w, "Failed to list paydays", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaydayRecordDTOs(records))
}

// =============================================================================
// ENGINE HANDLERS
// =============================================================================

// GetForecast projects the balance trajectory.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	horizon, err := queryDays(r, "days", engine.DefaultHorizonDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
		return
	}

	points, err := h.Service.Forecast(r.Context(), h.clock(), horizon)
	if err != nil {
		writeEngineError(w, "Failed to project forecast", err)
		return
	}
	writeJSON(w, http.StatusOK, toForecastDTOs(points))
}

// GetHealth grades the budget.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	horizon, err := queryDays(r, "days", engine.DefaultHorizonDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
		return
	}

	result, err := h.Service.Health(r.Context(), h.clock(), horizon)
	if err != nil {
		writeEngineError(w, "Failed to score health", err)
		return
	}
	writeJSON(w, http.StatusOK, toHealthDTO(result))
}

// GetHistoryPeriods buckets history into fixed windows.
func (h *Handler) GetHistoryPeriods(w http.ResponseWriter, r *http.Request) {
	length, err := queryDays(r, "days", 30)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
		return
	}

	totals, err := h.Service.HistoryTotals(r.Context(), length)
	if err != nil {
		writeEngineError(w, "Failed to aggregate history", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodTotalDTOs(totals))
}

// GetLatestPeriod summarizes the most recent bucket.
func (h *Handler) GetLatestPeriod(w http.ResponseWriter, r *http.Request) {
	length, err := queryDays(r, "days", 30)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
		return
	}

	total, err := h.Service.LatestPeriod(r.Context(), length)
	if err != nil {
		writeEngineError(w, "Failed to summarize history", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodTotalDTOs([]engine.PeriodTotal{total})[0])
}

// =============================================================================
// HELPERS
// =============================================================================

func queryDays(r *http.Request, key string, fallback int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps the engine/reducer error taxonomy to HTTP status.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, budget.ErrBillNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, engine.ErrEmptyHistory):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, budget.ErrDuplicateBill), errors.Is(err, budget.ErrPaydayNotDue):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, budget.ErrInvalidBill),
		errors.Is(err, engine.ErrInvalidFrequency),
		errors.Is(err, engine.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
