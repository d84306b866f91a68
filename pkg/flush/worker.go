package flush

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// DrainFunc drains whatever backing store the worker is responsible for.
// force requests an unconditional drain regardless of threshold, used for
// the periodic tick's steady-state call (force=false) and for the final
// drain performed on Stop (force=true).
type DrainFunc func(force bool) error

// Worker periodically invokes a DrainFunc on a fixed interval until
// stopped. It is safe to Start at most once per Worker value; construct a
// new Worker to restart after a Stop.
type Worker struct {
	interval time.Duration
	drain    DrainFunc
	log      *logrus.Entry

	running   atomic.Bool
	originPID int

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// New constructs a Worker that calls drain roughly every interval.
func New(interval time.Duration, drain DrainFunc, log *logrus.Entry) *Worker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Worker{
		interval: interval,
		drain:    drain,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Running reports whether the worker's loop goroutine is currently active.
func (w *Worker) Running() bool { return w.running.Load() }

// Start launches the worker's loop goroutine, recording pid as the
// originating process. Start is idempotent: calling it again while already
// running is a no-op.
func (w *Worker) Start(pid int) {
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	w.originPID = pid
	go w.loop()
}

func (w *Worker) loop() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.drain(false); err != nil {
			w.log.WithError(err).Warn("flush: periodic drain failed")
		}

		select {
		case <-ticker.C:
		case <-w.stopCh:
			if err := w.drain(true); err != nil {
				w.log.WithError(err).Warn("flush: final drain failed")
			}
			return
		}
	}
}

// Stop signals the worker to perform one final forced drain and exit. If
// pid does not match the process that called Start, the loop goroutine
// belongs to a different process than the caller (it survived a fork into
// pid), so Stop is a no-op: it does not signal stopCh, does not trigger the
// forced drain, and does not wait. Stop is idempotent and safe to call even
// if Start was never called.
func (w *Worker) Stop(pid int) {
	if !w.running.Load() {
		return
	}
	if pid != w.originPID {
		w.log.Warn("flush: stop requested from a different process than start, ignoring")
		return
	}

	w.stopOnce.Do(func() {
		w.running.Store(false)
		close(w.stopCh)
	})
	<-w.doneCh
}
