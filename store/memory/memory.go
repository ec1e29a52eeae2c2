// Package memory provides an in-memory budget.Store for tests and dev mode.
package memory

import (
	"context"
	"sync"

	"github.com/centsible/budget-engine/budget"
	"github.com/centsible/budget-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu      sync.RWMutex
	snap    engine.BudgetSnapshot
	hasSnap bool
	records []engine.PaydayRecord
}

var _ budget.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) LoadSnapshot(_ context.Context) (engine.BudgetSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasSnap {
		return engine.BudgetSnapshot{}, budget.ErrNoSnapshot
	}
	return copySnapshot(s.snap), nil
}

func (s *Store) SaveSnapshot(_ context.Context, snap engine.BudgetSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = copySnapshot(snap)
	s.hasSnap = true
	return nil
}

// AppendPaydayRecord is append-only; there is no update or delete.
func (s *Store) AppendPaydayRecord(_ context.Context, rec engine.PaydayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settled := make([]string, len(rec.BillsSettled))
	copy(settled, rec.BillsSettled)
	rec.BillsSettled = settled
	s.records = append(s.records, rec)
	return nil
}

func (s *Store) ListPaydayRecords(_ context.Context) ([]engine.PaydayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.PaydayRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) Close() error { return nil }

func copySnapshot(snap engine.BudgetSnapshot) engine.BudgetSnapshot {
	out := snap
	out.Bills = make([]engine.Bill, len(snap.Bills))
	copy(out.Bills, snap.Bills)
	return out
}
