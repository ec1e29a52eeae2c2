/*
service.go - Store-backed orchestration of engine calls

PURPOSE:
  Glues the Store to the pure engine for the API layer: load, apply a
  reducer action, persist, and hand back the engine's plain-data
  results. Handlers stay thin and the engine stays I/O-free.

CONCURRENCY:
  Writes to the canonical snapshot are serialized with a mutex, per
  the engine's contract that no one mutates a snapshot while a call
  is outstanding. Reads project from a value copy and need no lock
  beyond the load itself.

STALE PAY DATES:
  Reads normalize fully, advancing a stale NextPayDate for scheduling
  and display. Writes repair without advancing, so a payday that
  elapsed while the process was down is still waiting in the stored
  snapshot when ConfirmPayday runs.
*/
package budget

import (
	"context"
	"errors"
	"sync"

	"github.com/centsible/budget-engine/engine"
	"github.com/shopspring/decimal"
)

// Service owns the canonical snapshot lifecycle on top of a Store.
type Service struct {
	store Store
	mu    sync.Mutex // serializes snapshot writes
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Snapshot loads and normalizes the current snapshot. A missing
// snapshot yields an empty normalized one rather than an error, so a
// fresh database is immediately usable.
func (s *Service) Snapshot(ctx context.Context, now engine.Date) (engine.BudgetSnapshot, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return Normalize(engine.BudgetSnapshot{}, now), nil
	}
	if err != nil {
		return engine.BudgetSnapshot{}, err
	}
	return Normalize(snap, now), nil
}

// loadForWrite loads the stored snapshot for a mutation. Unlike
// Snapshot it keeps a stale NextPayDate: a write must never silently
// advance past an unconfirmed payday.
func (s *Service) loadForWrite(ctx context.Context, now engine.Date) (engine.BudgetSnapshot, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return repair(engine.BudgetSnapshot{}, now), nil
	}
	if err != nil {
		return engine.BudgetSnapshot{}, err
	}
	return repair(snap, now), nil
}

// SetBudget replaces balance and pay cycle, keeping the bill list.
func (s *Service) SetBudget(ctx context.Context, balance decimal.Decimal, cycle engine.PayCycle, now engine.Date) (engine.BudgetSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadForWrite(ctx, now)
	if err != nil {
		return engine.BudgetSnapshot{}, err
	}
	current.Balance = balance
	current.Cycle = cycle
	next := repair(current, now)
	if err := s.store.SaveSnapshot(ctx, next); err != nil {
		return engine.BudgetSnapshot{}, err
	}
	return next, nil
}

// AddBill validates and persists a new bill.
func (s *Service) AddBill(ctx context.Context, bill engine.Bill, now engine.Date) (engine.BudgetSnapshot, error) {
	return s.apply(ctx, now, func(snap engine.BudgetSnapshot) (engine.BudgetSnapshot, error) {
		return AddBill(snap, bill)
	})
}

// RemoveBill deletes a bill.
func (s *Service) RemoveBill(ctx context.Context, billID string, now engine.Date) (engine.BudgetSnapshot, error) {
	return s.apply(ctx, now, func(snap engine.BudgetSnapshot) (engine.BudgetSnapshot, error) {
		return RemoveBill(snap, billID)
	})
}

// MarkBillPaid settles a bill out of cycle.
func (s *Service) MarkBillPaid(ctx context.Context, billID string, now engine.Date) (engine.BudgetSnapshot, error) {
	return s.apply(ctx, now, func(snap engine.BudgetSnapshot) (engine.BudgetSnapshot, error) {
		return MarkBillPaid(snap, billID)
	})
}

// ConfirmPayday applies every payday due on or before now, oldest
// first, appending one record per payday. Paydays that elapsed while
// the process was down are confirmed from their stored dates, never
// skipped. Returns the snapshot after the last confirmation together
// with its record.
func (s *Service) ConfirmPayday(ctx context.Context, now engine.Date) (engine.BudgetSnapshot, engine.PaydayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadForWrite(ctx, now)
	if err != nil {
		return engine.BudgetSnapshot{}, engine.PaydayRecord{}, err
	}

	next, record, err := ConfirmPayday(snap, now)
	if err != nil {
		return engine.BudgetSnapshot{}, engine.PaydayRecord{}, err
	}
	records := []engine.PaydayRecord{record}
	for !next.Cycle.NextPayDate.After(now) {
		following, rec, err := ConfirmPayday(next, now)
		if err != nil {
			return engine.BudgetSnapshot{}, engine.PaydayRecord{}, err
		}
		next = following
		records = append(records, rec)
	}

	if err := s.store.SaveSnapshot(ctx, next); err != nil {
		return engine.BudgetSnapshot{}, engine.PaydayRecord{}, err
	}
	for _, rec := range records {
		if err := s.store.AppendPaydayRecord(ctx, rec); err != nil {
			return engine.BudgetSnapshot{}, engine.PaydayRecord{}, err
		}
	}
	return next, records[len(records)-1], nil
}

// Forecast projects the current snapshot over the horizon.
func (s *Service) Forecast(ctx context.Context, now engine.Date, horizonDays int) ([]engine.ForecastPoint, error) {
	snap, err := s.Snapshot(ctx, now)
	if err != nil {
		return nil, err
	}
	return engine.Project(snap, now, horizonDays)
}

// Health grades the current snapshot. ErrDivisionUndefined is not an
// error here: the F result is renderable and expected with no income.
func (s *Service) Health(ctx context.Context, now engine.Date, horizonDays int) (engine.HealthResult, error) {
	snap, err := s.Snapshot(ctx, now)
	if err != nil {
		return engine.HealthResult{}, err
	}
	result, err := engine.Score(snap, horizonDays)
	if errors.Is(err, engine.ErrDivisionUndefined) {
		return result, nil
	}
	return result, err
}

// History returns payday records, optionally filtered to [start, end].
func (s *Service) History(ctx context.Context, start, end *engine.Date) ([]engine.PaydayRecord, error) {
	records, err := s.store.ListPaydayRecords(ctx)
	if err != nil {
		return nil, err
	}
	if start == nil && end == nil {
		return records, nil
	}
	lo, hi := engine.NewDate(1, 1, 1), engine.NewDate(9999, 12, 31)
	if start != nil {
		lo = *start
	}
	if end != nil {
		hi = *end
	}
	return engine.FilterByRange(records, lo, hi)
}

// HistoryTotals buckets the full history into fixed windows.
func (s *Service) HistoryTotals(ctx context.Context, periodLengthDays int) ([]engine.PeriodTotal, error) {
	records, err := s.store.ListPaydayRecords(ctx)
	if err != nil {
		return nil, err
	}
	return engine.TotalsByPeriod(records, periodLengthDays)
}

// LatestPeriod summarizes the most recent bucket.
func (s *Service) LatestPeriod(ctx context.Context, periodLengthDays int) (engine.PeriodTotal, error) {
	records, err := s.store.ListPaydayRecords(ctx)
	if err != nil {
		return engine.PeriodTotal{}, err
	}
	return engine.LatestPeriod(records, periodLengthDays)
}

func (s *Service) apply(ctx context.Context, now engine.Date, action func(engine.BudgetSnapshot) (engine.BudgetSnapshot, error)) (engine.BudgetSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadForWrite(ctx, now)
	if err != nil {
		return engine.BudgetSnapshot{}, err
	}
	next, err := action(snap)
	if err != nil {
		return engine.BudgetSnapshot{}, err
	}
	if err := s.store.SaveSnapshot(ctx, next); err != nil {
		return engine.BudgetSnapshot{}, err
	}
	return next, nil
}
