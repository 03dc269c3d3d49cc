// Package refresh runs a function on a fixed interval until cancelled,
// skipping ticks that arrive while the previous run is still in flight.
package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var ticks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hcm",
	Subsystem: "refresh",
	Name:      "ticks_total",
	Help:      "Auto-refresh ticks by result (ok, error, skipped).",
}, []string{"result"})

type Func func(ctx context.Context) error

type Task struct {
	fn  Func
	log logrus.FieldLogger

	// sched serializes Schedule and Stop so at most one loop is installed.
	sched    sync.Mutex
	mu       sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	interval time.Duration

	inFlight atomic.Bool
	runs     atomic.Int64
	skipped  atomic.Int64
}

func New(fn Func, log logrus.FieldLogger) *Task {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Task{fn: fn, log: log}
}

// Schedule replaces any running schedule. A non-positive interval only stops it.
func (t *Task) Schedule(parent context.Context, interval time.Duration) {
	t.sched.Lock()
	defer t.sched.Unlock()
	t.stop()
	if interval <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	t.interval = interval
	t.wg.Add(1)
	go t.loop(ctx, interval)
}

// Stop cancels the schedule and waits for the loop and any in-flight run.
func (t *Task) Stop() {
	t.sched.Lock()
	defer t.sched.Unlock()
	t.stop()
}

func (t *Task) stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.interval = 0
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.wg.Wait()
}

func (t *Task) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

func (t *Task) Scheduled() bool {
	return t.Interval() > 0
}

// Runs and Skipped count completed runs and ticks dropped because a run was
// already in flight.
func (t *Task) Runs() int64    { return t.runs.Load() }
func (t *Task) Skipped() int64 { return t.skipped.Load() }

func (t *Task) loop(ctx context.Context, interval time.Duration) {
	defer t.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !t.inFlight.CompareAndSwap(false, true) {
			t.skipped.Add(1)
			ticks.WithLabelValues("skipped").Inc()
			t.log.Debug("refresh: previous run still in flight, tick skipped")
			continue
		}
		t.wg.Add(1)
		go t.run(ctx)
	}
}

func (t *Task) run(ctx context.Context) {
	defer t.wg.Done()
	defer t.inFlight.Store(false)

	err := t.fn(ctx)
	t.runs.Add(1)
	switch {
	case err == nil:
		ticks.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled):
		ticks.WithLabelValues("cancelled").Inc()
	default:
		ticks.WithLabelValues("error").Inc()
		t.log.WithError(err).Warn("refresh: run failed")
	}
}
