/*
store.go - Persistence boundary for the state layer

PURPOSE:
  The Store interface is the only gateway between the budget state and
  durable storage. Snapshots are replaced wholesale (a cloud sync pull
  swaps the entire snapshot, never patches it incrementally); payday
  history is strictly append-only.

CRITICAL INVARIANTS:
  1. History is APPEND-ONLY: no update, no delete. A confirmed payday
     is a fact; corrections happen by confirming further paydays.
  2. SaveSnapshot replaces balance, pay cycle, and the whole bill list
     atomically.
  3. ListPaydayRecords returns records in chronological order.

SEE ALSO:
  - store/sqlite: Durable implementation
  - store/memory: In-memory implementation for tests and dev mode
*/
package budget

import (
	"context"
	"errors"

	"github.com/centsible/budget-engine/engine"
)

// ErrNoSnapshot is returned by LoadSnapshot before any snapshot has
// been saved.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Store persists the canonical snapshot and the payday history.
type Store interface {
	// LoadSnapshot returns the stored snapshot. AsOf is whatever was
	// saved; callers normalize before handing it to the engine.
	LoadSnapshot(ctx context.Context) (engine.BudgetSnapshot, error)

	// SaveSnapshot replaces the stored snapshot wholesale.
	SaveSnapshot(ctx context.Context, snap engine.BudgetSnapshot) error

	// AppendPaydayRecord appends one confirmed payday. Append-only.
	AppendPaydayRecord(ctx context.Context, rec engine.PaydayRecord) error

	// ListPaydayRecords returns all records in chronological order.
	ListPaydayRecords(ctx context.Context) ([]engine.PaydayRecord, error)

	Close() error
}
