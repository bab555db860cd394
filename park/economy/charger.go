package economy

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Charge is a single pending currency deduction.
type Charge struct {
	Player uuid.UUID
	Kind   Kind
	Amount int64
}

// Charger runs currency deductions on a background worker so that they stay
// off the node's transaction loop. Completion callbacks are handed back
// through the dispatch function, which must run them on the loop again before
// they touch shared state. A submitted charge always runs to completion; there
// is no cancellation.
type Charger struct {
	ledger   Ledger
	log      *slog.Logger
	dispatch func(func())

	jobs    chan chargeJob
	running sync.WaitGroup
}

type chargeJob struct {
	charge Charge
	done   func(err error)
}

// NewCharger returns a Charger deducting from ledger. The dispatch function
// receives every completion callback, typically Park.Exec.
func NewCharger(ledger Ledger, log *slog.Logger, dispatch func(func())) *Charger {
	if log == nil {
		log = slog.Default()
	}
	c := &Charger{
		ledger:   ledger,
		log:      log,
		dispatch: dispatch,
		jobs:     make(chan chargeJob, 64),
	}
	c.running.Add(1)
	go c.work()
	return c
}

// Submit queues a charge. Once the deduction finished, done is dispatched with
// its result: nil on success, ErrInsufficient when the funds ran out between
// check and charge, or the underlying error on ledger failure. Submit must not
// be called after Close.
func (c *Charger) Submit(charge Charge, done func(err error)) {
	c.jobs <- chargeJob{charge: charge, done: done}
}

// Close stops the Charger after draining the charges already submitted.
func (c *Charger) Close() error {
	close(c.jobs)
	c.running.Wait()
	return nil
}

func (c *Charger) work() {
	defer c.running.Done()
	for job := range c.jobs {
		err := c.ledger.Withdraw(context.Background(), job.charge.Player, job.charge.Kind, job.charge.Amount)
		if err != nil {
			c.log.Debug("charge failed", "player", job.charge.Player, "kind", job.charge.Kind.String(), "amount", job.charge.Amount, "err", err)
		}
		if job.done != nil {
			c.dispatch(func() { job.done(err) })
		}
	}
}
