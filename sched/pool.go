package sched

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/liumiaowilson/atom/backoff"
	"github.com/liumiaowilson/atom/ext"
)

// Pool is the asynchronous in-process scheduler: a fixed set of worker
// goroutines drains a buffered submission queue and drives one OnRun
// cycle per dequeued runner. Resubmission pacing is delegated to a
// backoff strategy so an interrupted engine gives the host's budget
// counters room to recover before its next cycle.
//
// Serialized re-entry holds without locking: a runner is enqueued at most
// once at a time because its only resubmission path is from inside its
// own OnRun.
type Pool struct {
	store       *Store
	concurrency int
	queueSize   int
	delay       backoff.Strategy
	logger      *slog.Logger
	extensions  *ext.Registry

	queue    chan Runner
	failures chan error
	stopCh   chan struct{}
	workers  *errgroup.Group
	mu       sync.Mutex
	running  bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithConcurrency sets the number of worker goroutines.
func WithConcurrency(n int) PoolOption {
	return func(p *Pool) { p.concurrency = n }
}

// WithQueueSize sets the submission queue buffer size.
func WithQueueSize(n int) PoolOption {
	return func(p *Pool) { p.queueSize = n }
}

// WithDelay sets the pacing strategy applied before hand-off
// resubmissions. First submissions are never delayed.
func WithDelay(s backoff.Strategy) PoolOption {
	return func(p *Pool) { p.delay = s }
}

// WithExtensions sets the extension registry notified on shutdown.
func WithExtensions(reg *ext.Registry) PoolOption {
	return func(p *Pool) { p.extensions = reg }
}

// NewPool creates a scheduler pool.
func NewPool(logger *slog.Logger, opts ...PoolOption) *Pool {
	p := &Pool{
		store:       NewStore(),
		concurrency: 4,
		queueSize:   64,
		delay:       backoff.DefaultStrategy(),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.queue = make(chan Runner, p.queueSize)
	p.failures = make(chan error, 16)
	return p
}

// Store returns the pool's run record store.
func (p *Pool) Store() *Store { return p.store }

// Failures returns the channel carrying terminal run errors: fatal
// hand-off budget errors and compute failures passed through by engines.
func (p *Pool) Failures() <-chan error { return p.failures }

// Start launches the worker goroutines. It returns immediately. A
// stopped pool may be started again; submissions still queued from the
// previous life are picked up by the new workers.
func (p *Pool) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	p.running = true
	p.stopCh = make(chan struct{})

	p.logger.Info("scheduler pool starting",
		slog.Int("concurrency", p.concurrency),
		slog.Int("queue_size", p.queueSize),
	)

	stop := p.stopCh
	p.workers = &errgroup.Group{}
	for range p.concurrency {
		p.workers.Go(func() error { return p.workLoop(stop) })
	}

	return nil
}

// Stop signals all workers to stop and waits for them to finish.
// If the context deadline expires first, Stop returns without waiting
// further; in-flight cycles keep running until their current unit ends.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	stop := p.stopCh
	p.mu.Unlock()

	p.logger.Info("scheduler pool stopping")
	close(stop)

	done := make(chan struct{})
	go func() {
		//nolint:errcheck // workers only return nil; Wait is for synchronization
		p.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("scheduler pool stopped gracefully")
	case <-ctx.Done():
		p.logger.Warn("scheduler pool shutdown timed out")
	}

	if p.extensions != nil {
		p.extensions.EmitShutdown(ctx)
	}
	return nil
}

// Submit records the submission and enqueues r for a worker, applying the
// pacing delay on hand-off resubmissions.
func (p *Pool) Submit(_ context.Context, r Runner) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrStopped
	}
	p.mu.Unlock()

	handoffs := p.store.submit(r.RunID())
	if handoffs > 0 && p.delay != nil {
		if d := p.delay.Delay(handoffs); d > 0 {
			time.AfterFunc(d, func() { p.enqueue(r) })
			return nil
		}
	}

	p.enqueue(r)
	return nil
}

func (p *Pool) enqueue(r Runner) {
	p.mu.Lock()
	stop := p.stopCh
	p.mu.Unlock()

	select {
	case p.queue <- r:
	case <-stop:
		p.logger.Warn("scheduler stopping, dropping submission",
			slog.String("run_id", r.RunID().String()),
		)
	}
}

// workLoop is run by each worker goroutine until stop is closed. The
// channel is bound to one Start/Stop life; a restarted pool hands its
// new workers a fresh one.
func (p *Pool) workLoop(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		case r := <-p.queue:
			p.runCycle(r)
		}
	}
}

// runCycle drives one OnRun invocation and settles the run record.
func (p *Pool) runCycle(r Runner) {
	runID := r.RunID()
	before := p.store.handoffs(runID)
	p.store.markRunning(runID)

	err := r.OnRun(context.Background())
	if err != nil {
		p.store.markFailed(runID, err)
		p.logger.Error("run failed",
			slog.String("run_id", runID.String()),
			slog.String("error", err.Error()),
		)
		select {
		case p.failures <- err:
		default:
			p.logger.Warn("failure channel full, dropping error",
				slog.String("run_id", runID.String()),
			)
		}
		return
	}

	// The hand-off count is unchanged only when the runner did not
	// resubmit itself during this cycle, i.e. the step tree finished.
	// The resubmitted cycle may already be running on another worker, so
	// the record state alone cannot distinguish the two cases.
	if p.store.handoffs(runID) == before {
		p.store.markCompleted(runID)
	}
}
