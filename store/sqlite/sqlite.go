/*
Package sqlite provides a SQLite-backed implementation of budget.Store.

PURPOSE:
  Durable storage for the canonical snapshot and the payday history.

KEY TABLES:
  budget:         Single-row snapshot header (balance + pay cycle)
  bills:          The snapshot's bill list, ordered by position
  payday_records: Append-only history of confirmed paydays

APPEND-ONLY ENFORCEMENT:
  payday_records has no UPDATE and no DELETE statements anywhere in
  this package. A confirmed payday is a fact; corrections happen by
  confirming further paydays.

SNAPSHOT REPLACEMENT:
  SaveSnapshot replaces the header and the whole bill list in one
  transaction. This matches the sync model upstream: a cloud pull
  swaps the entire snapshot, never patches it incrementally.

PRECISION:
  Monetary amounts are persisted as decimal strings, never floats, so
  values round-trip exactly. Dates are stored as 2006-01-02 strings.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/budget.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - budget/store.go: Interface definition
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/centsible/budget-engine/budget"
	"github.com/centsible/budget-engine/engine"
)

// Store implements budget.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ budget.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS budget (
		id            INTEGER PRIMARY KEY CHECK (id = 1),
		balance       TEXT NOT NULL,
		pay_frequency TEXT NOT NULL,
		pay_amount    TEXT NOT NULL,
		next_pay_date TEXT NOT NULL,
		as_of         TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bills (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		amount    TEXT NOT NULL,
		due_date  TEXT NOT NULL,
		recurring INTEGER NOT NULL,
		frequency TEXT NOT NULL,
		paid      INTEGER NOT NULL,
		position  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payday_records (
		seq           INTEGER PRIMARY KEY AUTOINCREMENT,
		date          TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		bills_settled TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bills_position ON bills(position);
	CREATE INDEX IF NOT EXISTS idx_payday_records_date ON payday_records(date);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// =============================================================================
// SNAPSHOT
// =============================================================================

func (s *Store) LoadSnapshot(ctx context.Context) (engine.BudgetSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		snap                       engine.BudgetSnapshot
		balance, payAmount         string
		payFreq, nextPayDate, asOf string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT balance, pay_frequency, pay_amount, next_pay_date, as_of FROM budget WHERE id = 1`,
	).Scan(&balance, &payFreq, &payAmount, &nextPayDate, &asOf)
	if err == sql.ErrNoRows {
		return engine.BudgetSnapshot{}, budget.ErrNoSnapshot
	}
	if err != nil {
		return engine.BudgetSnapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if snap.Balance, err = decimal.NewFromString(balance); err != nil {
		return engine.BudgetSnapshot{}, fmt.Errorf("corrupt balance %q: %w", balance, err)
	}
	if snap.Cycle.Amount, err = decimal.NewFromString(payAmount); err != nil {
		return engine.BudgetSnapshot{}, fmt.Errorf("corrupt pay amount %q: %w", payAmount, err)
	}
	snap.Cycle.Frequency = engine.Frequency(payFreq)
	if snap.Cycle.NextPayDate, err = parseDate(nextPayDate); err != nil {
		return engine.BudgetSnapshot{}, err
	}
	if snap.AsOf, err = parseDate(asOf); err != nil {
		return engine.BudgetSnapshot{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, amount, due_date, recurring, frequency, paid FROM bills ORDER BY position`)
	if err != nil {
		return engine.BudgetSnapshot{}, fmt.Errorf("failed to load bills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bill            engine.Bill
			amount, due     string
			recurring, paid int
			freq            string
		)
		if err := rows.Scan(&bill.ID, &bill.Name, &amount, &due, &recurring, &freq, &paid); err != nil {
			return engine.BudgetSnapshot{}, fmt.Errorf("failed to scan bill: %w", err)
		}
		if bill.Amount, err = decimal.NewFromString(amount); err != nil {
			return engine.BudgetSnapshot{}, fmt.Errorf("corrupt bill amount %q: %w", amount, err)
		}
		if bill.DueDate, err = parseDate(due); err != nil {
			return engine.BudgetSnapshot{}, err
		}
		bill.Recurring = recurring != 0
		bill.Frequency = engine.Frequency(freq)
		bill.Paid = paid != 0
		snap.Bills = append(snap.Bills, bill)
	}
	return snap, rows.Err()
}

func (s *Store) SaveSnapshot(ctx context.Context, snap engine.BudgetSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO budget (id, balance, pay_frequency, pay_amount, next_pay_date, as_of)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			balance = excluded.balance,
			pay_frequency = excluded.pay_frequency,
			pay_amount = excluded.pay_amount,
			next_pay_date = excluded.next_pay_date,
			as_of = excluded.as_of`,
		snap.Balance.String(),
		string(snap.Cycle.Frequency),
		snap.Cycle.Amount.String(),
		formatDate(snap.Cycle.NextPayDate),
		formatDate(snap.AsOf),
	)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	// The bill list is replaced wholesale with the snapshot.
	if _, err := tx.ExecContext(ctx, `DELETE FROM bills`); err != nil {
		return fmt.Errorf("failed to clear bills: %w", err)
	}
	for i, bill := range snap.Bills {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bills (id, name, amount, due_date, recurring, frequency, paid, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			bill.ID, bill.Name, bill.Amount.String(), formatDate(bill.DueDate),
			boolToInt(bill.Recurring), string(bill.Frequency), boolToInt(bill.Paid), i,
		)
		if err != nil {
			return fmt.Errorf("failed to save bill %s: %w", bill.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// PAYDAY HISTORY - Append-only
// =============================================================================

// AppendPaydayRecord inserts one record. This is the only write to
// payday_records in the entire package.
func (s *Store) AppendPaydayRecord(ctx context.Context, rec engine.PaydayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settled, err := json.Marshal(rec.BillsSettled)
	if err != nil {
		return fmt.Errorf("failed to encode settled bills: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO payday_records (date, balance_after, bills_settled)
		VALUES (?, ?, ?)`,
		formatDate(rec.Date), rec.BalanceAfter.String(), string(settled),
	)
	if err != nil {
		return fmt.Errorf("failed to append payday record: %w", err)
	}
	return nil
}

func (s *Store) ListPaydayRecords(ctx context.Context) ([]engine.PaydayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, balance_after, bills_settled FROM payday_records ORDER BY date, seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payday records: %w", err)
	}
	defer rows.Close()

	var records []engine.PaydayRecord
	for rows.Next() {
		var (
			rec                    engine.PaydayRecord
			date, balance, settled string
		)
		if err := rows.Scan(&date, &balance, &settled); err != nil {
			return nil, fmt.Errorf("failed to scan payday record: %w", err)
		}
		if rec.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if rec.BalanceAfter, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("corrupt balance %q: %w", balance, err)
		}
		if err := json.Unmarshal([]byte(settled), &rec.BillsSettled); err != nil {
			return nil, fmt.Errorf("corrupt settled bills %q: %w", settled, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func formatDate(d engine.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parseDate(s string) (engine.Date, error) {
	if s == "" {
		return engine.Date{}, nil
	}
	d, err := engine.ParseDate(s)
	if err != nil {
		return engine.Date{}, fmt.Errorf("corrupt date %q: %w", s, err)
	}
	return d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
