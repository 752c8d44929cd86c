package sched_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/liumiaowilson/atom/backoff"
	"github.com/liumiaowilson/atom/id"
	"github.com/liumiaowilson/atom/sched"
)

// fakeRunner counts OnRun cycles and resubmits itself through the
// scheduler until it has run `cycles` times.
type fakeRunner struct {
	id     id.RunID
	sched  sched.Scheduler
	cycles int
	runs   atomic.Int32
	err    error
	done   chan struct{}
}

func newFakeRunner(s sched.Scheduler, cycles int) *fakeRunner {
	return &fakeRunner{
		id:     id.NewRunID(),
		sched:  s,
		cycles: cycles,
		done:   make(chan struct{}),
	}
}

func (r *fakeRunner) RunID() id.RunID { return r.id }

func (r *fakeRunner) OnRun(ctx context.Context) error {
	n := int(r.runs.Add(1))
	if r.err != nil {
		return r.err
	}
	if n < r.cycles {
		return r.sched.Submit(ctx, r)
	}
	close(r.done)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInlineDrivesRunToCompletion(t *testing.T) {
	s := sched.NewInline()
	r := newFakeRunner(s, 3)

	if err := s.Submit(context.Background(), r); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got := int(r.runs.Load()); got != 3 {
		t.Errorf("runs = %d, want 3", got)
	}
	if s.Submissions() != 3 {
		t.Errorf("Submissions = %d, want 3", s.Submissions())
	}
}

func TestInlinePropagatesError(t *testing.T) {
	s := sched.NewInline()
	r := newFakeRunner(s, 1)
	r.err = errors.New("terminal")

	if err := s.Submit(context.Background(), r); !errors.Is(err, r.err) {
		t.Errorf("Submit error = %v, want %v", err, r.err)
	}
}

func newTestPool(t *testing.T, opts ...sched.PoolOption) *sched.Pool {
	t.Helper()
	opts = append([]sched.PoolOption{
		sched.WithConcurrency(2),
		sched.WithDelay(backoff.NewNone()),
	}, opts...)
	p := sched.NewPool(quietLogger(), opts...)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := p.Stop(ctx); err != nil {
			t.Errorf("Stop: %v", err)
		}
	})
	return p
}

func TestPoolRunsAndCompletesRunner(t *testing.T) {
	p := newTestPool(t)
	r := newFakeRunner(p, 1)

	if err := p.Submit(context.Background(), r); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not complete")
	}

	waitForState(t, p.Store(), r.RunID(), sched.StateCompleted)

	rec, ok := p.Store().Get(r.RunID())
	if !ok {
		t.Fatal("run record missing")
	}
	if rec.Handoffs != 0 {
		t.Errorf("Handoffs = %d, want 0", rec.Handoffs)
	}
	if rec.StartedAt == nil || rec.CompletedAt == nil {
		t.Error("expected StartedAt and CompletedAt to be set")
	}
}

func TestPoolCountsHandoffs(t *testing.T) {
	p := newTestPool(t)
	r := newFakeRunner(p, 4)

	if err := p.Submit(context.Background(), r); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not complete")
	}

	waitForState(t, p.Store(), r.RunID(), sched.StateCompleted)

	rec, _ := p.Store().Get(r.RunID())
	if rec.Handoffs != 3 {
		t.Errorf("Handoffs = %d, want 3", rec.Handoffs)
	}
}

func TestPoolDeliversFailures(t *testing.T) {
	p := newTestPool(t)
	r := newFakeRunner(p, 1)
	r.err = errors.New("fatal budget error")

	if err := p.Submit(context.Background(), r); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case err := <-p.Failures():
		if !errors.Is(err, r.err) {
			t.Errorf("failure = %v, want %v", err, r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no failure delivered")
	}

	waitForState(t, p.Store(), r.RunID(), sched.StateFailed)

	rec, _ := p.Store().Get(r.RunID())
	if rec.Error == "" {
		t.Error("expected record error to be set")
	}
}

func TestPoolRestart(t *testing.T) {
	p := sched.NewPool(quietLogger(),
		sched.WithConcurrency(2),
		sched.WithDelay(backoff.NewNone()),
	)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := p.Submit(context.Background(), newFakeRunner(p, 1)); !errors.Is(err, sched.ErrStopped) {
		t.Fatalf("Submit while stopped = %v, want ErrStopped", err)
	}

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := p.Stop(ctx); err != nil {
			t.Errorf("Stop: %v", err)
		}
	})

	r := newFakeRunner(p, 2)
	if err := p.Submit(context.Background(), r); err != nil {
		t.Fatalf("Submit after restart: %v", err)
	}

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not complete after restart")
	}
	waitForState(t, p.Store(), r.RunID(), sched.StateCompleted)
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := sched.NewPool(quietLogger())
	if err := p.Submit(context.Background(), newFakeRunner(p, 1)); !errors.Is(err, sched.ErrStopped) {
		t.Errorf("Submit before Start = %v, want ErrStopped", err)
	}
}

func waitForState(t *testing.T, store *sched.Store, runID id.RunID, want sched.RunState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rec, ok := store.Get(runID); ok && rec.State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	rec, _ := store.Get(runID)
	t.Fatalf("run state = %q, want %q", rec.State, want)
}
