/*
scheduler.go - Automated payday confirmation

PURPOSE:
  Periodically checks whether the next pay date has passed and, when
  enabled, confirms the payday automatically so balances and history
  stay current without user interaction.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Confirms repeatedly in one pass when multiple paydays are overdue
  - Disabled by default; users who prefer manual confirmation keep it

USAGE:
  scheduler := NewPaydayScheduler(service)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ConfirmPayday endpoint (manual confirmation)
  - budget/reducer.go: ConfirmPayday action
*/
package api

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/centsible/budget-engine/budget"
	"github.com/centsible/budget-engine/engine"
)

// PaydayScheduler auto-confirms overdue paydays.
type PaydayScheduler struct {
	Service       *budget.Service
	CheckInterval time.Duration
	Enabled       bool

	clock  func() engine.Date
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPaydayScheduler creates a scheduler with a one-hour check interval.
func NewPaydayScheduler(service *budget.Service) *PaydayScheduler {
	return &PaydayScheduler{
		Service:       service,
		CheckInterval: 1 * time.Hour,
		clock:         func() engine.Date { return engine.DateOf(time.Now().UTC()) },
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (ps *PaydayScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)
	go ps.run()

	log.Printf("[Scheduler] Started with check interval: %v", ps.CheckInterval)
}

// Stop shuts the scheduler down and waits for the loop to exit.
func (ps *PaydayScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker == nil {
		return
	}
	ps.ticker.Stop()
	close(ps.stop)
	ps.wg.Wait()
	ps.ticker = nil
	log.Println("[Scheduler] Stopped")
}

func (ps *PaydayScheduler) run() {
	defer ps.wg.Done()

	// Check once at startup, then on every tick.
	ps.confirmDue(context.Background())
	for {
		select {
		case <-ps.ticker.C:
			ps.confirmDue(context.Background())
		case <-ps.stop:
			return
		}
	}
}

// confirmDue confirms every overdue payday. ErrPaydayNotDue is the
// normal stopping condition, not a failure.
func (ps *PaydayScheduler) confirmDue(ctx context.Context) {
	now := ps.clock()
	for {
		_, record, err := ps.Service.ConfirmPayday(ctx, now)
		if errors.Is(err, budget.ErrPaydayNotDue) {
			return
		}
		if err != nil {
			log.Printf("[Scheduler] Failed to confirm payday: %v", err)
			return
		}
		log.Printf("[Scheduler] Confirmed payday %s (balance %s, %d bills settled)",
			record.Date, record.BalanceAfter, len(record.BillsSettled))
	}
}
