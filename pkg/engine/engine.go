package engine

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mradosav-amd/cache/pkg/arena"
	"github.com/mradosav-amd/cache/pkg/codec"
	"github.com/mradosav-amd/cache/pkg/flush"
	"github.com/mradosav-amd/cache/pkg/metrics"
	"github.com/mradosav-amd/cache/pkg/sample"
)

// ErrNotRunning is returned by Store when the engine has not been started,
// or has already been shut down.
var ErrNotRunning = errors.New("engine: not running")

// ErrUnsupportedType is returned by Store when v's TypeID equals
// sample.FragmentedSpace, the one identifier reserved for the arena's own
// fragmentation fillers. Go's structural typing cannot reject this at
// compile time, so it is the one dynamic type check Store performs.
var ErrUnsupportedType = errors.New("engine: value's TypeID is reserved for fragmentation fillers")

// Config holds the tunables an Engine needs at construction time. It has
// no notion of YAML or flags; see pkg/config for the on-disk shape these
// values are usually loaded from.
type Config struct {
	// OutputPath is the file the engine's flush worker appends drained
	// records to. The directory must exist or be creatable.
	OutputPath string
	// BufferSize is the arena's total capacity in bytes.
	BufferSize int
	// FlushThreshold is the used-byte count at or above which a periodic
	// (non-forced) drain actually writes to the file.
	FlushThreshold int
	// FlushInterval is how often the flush worker wakes up to attempt a
	// drain.
	FlushInterval time.Duration
}

// Engine owns a ring arena, the background worker that drains it, and the
// file the worker drains into. Construct one with New, call Start before
// any Store call, and Shutdown exactly once when done.
type Engine struct {
	cfg     Config
	arena   *arena.Arena
	worker  *flush.Worker
	metrics *metrics.Metrics
	log     *logrus.Entry

	fileMu sync.Mutex
	file   *os.File
	writer *bufio.Writer

	running   atomic.Bool
	originPID int
}

// New constructs an Engine from cfg. It does not open the output file or
// start the flush worker; call Start for that.
func New(cfg Config, m *metrics.Metrics, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		cfg:     cfg,
		arena:   arena.New(cfg.BufferSize),
		metrics: m,
		log:     log,
	}
}

// Start opens the engine's output file and launches its flush worker,
// recording pid as the worker's origin process. Start is idempotent: if
// the engine is already running, it returns nil without reopening the
// file.
func (e *Engine) Start(pid int) error {
	if !e.running.CompareAndSwap(false, true) {
		return nil
	}
	e.originPID = pid

	if err := os.MkdirAll(filepath.Dir(e.cfg.OutputPath), 0750); err != nil {
		e.running.Store(false)
		return fmt.Errorf("engine: creating output directory: %w", err)
	}
	file, err := os.OpenFile(e.cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		e.running.Store(false)
		return fmt.Errorf("engine: opening output file: %w", err)
	}

	e.fileMu.Lock()
	e.file = file
	e.writer = bufio.NewWriter(file)
	e.fileMu.Unlock()

	e.worker = flush.New(e.cfg.FlushInterval, e.drain, e.log)
	e.worker.Start(pid)
	e.log.WithField("output", e.cfg.OutputPath).Info("engine: started")
	return nil
}

// Shutdown stops the flush worker (performing one final forced drain) and
// closes the output file. It only does so when called from the process that
// called Start: a Shutdown from any other pid is a no-op, matching Worker's
// own origin-pid gating, and never flips running or touches the file.
// Shutdown is idempotent.
func (e *Engine) Shutdown(pid int) error {
	if !e.running.Load() {
		return nil
	}
	if pid != e.originPID {
		e.log.Warn("engine: shutdown requested from a different process than start, ignoring")
		return nil
	}
	if !e.running.CompareAndSwap(true, false) {
		return nil
	}

	e.worker.Stop(pid)

	e.fileMu.Lock()
	defer e.fileMu.Unlock()
	if e.writer != nil {
		if err := e.writer.Flush(); err != nil {
			e.log.WithError(err).Warn("engine: flushing writer on shutdown")
		}
	}
	if e.file != nil {
		if err := e.file.Close(); err != nil {
			return fmt.Errorf("engine: closing output file: %w", err)
		}
	}
	e.log.Info("engine: shut down")
	return nil
}

// Store serializes v into the arena. It returns ErrNotRunning if the
// engine has not been started or has already been shut down,
// ErrUnsupportedType if v.TypeID() collides with sample.FragmentedSpace,
// and otherwise whatever error the arena reservation or serialization
// produced (typically arena.ErrArenaOverflow).
func (e *Engine) Store(v sample.Type) error {
	if !e.running.Load() {
		return ErrNotRunning
	}
	if v.TypeID() == sample.FragmentedSpace {
		e.metrics.ObserveStoreError("unsupported_type")
		return ErrUnsupportedType
	}

	payloadSize := v.ByteSize()
	fragmentsBefore := e.arena.FragmentCount()
	buf, err := e.arena.Reserve(sample.HeaderSize + payloadSize)
	if err != nil {
		e.metrics.ObserveStoreError("arena_overflow")
		return err
	}
	if delta := e.arena.FragmentCount() - fragmentsBefore; delta > 0 {
		for i := int64(0); i < delta; i++ {
			e.metrics.ObserveFragmentation()
		}
	}

	w := codec.NewWriter(buf)
	sample.WriteHeader(w, sample.Header{TypeID: v.TypeID(), PayloadSize: uint64(payloadSize)})
	if err := v.Serialize(w); err != nil {
		e.metrics.ObserveStoreError("serialize")
		return fmt.Errorf("engine: serializing %T: %w", v, err)
	}

	e.metrics.ObserveStore(fmt.Sprintf("%d", v.TypeID()))
	e.metrics.SetArenaUsedBytes(e.arena.Used())
	return nil
}

// Used reports the arena's current used-byte count, mainly for the
// /debug/engine HTTP surface and tests.
func (e *Engine) Used() int { return e.arena.Used() }

// Running reports whether the engine is between a successful Start and its
// matching Shutdown.
func (e *Engine) Running() bool { return e.running.Load() }

func (e *Engine) drain(force bool) error {
	start := time.Now()

	e.fileMu.Lock()
	w := e.writer
	e.fileMu.Unlock()
	if w == nil {
		return nil
	}

	n, err := e.arena.DrainTo(w, e.cfg.FlushThreshold, force)
	if err == nil && n > 0 {
		e.fileMu.Lock()
		err = w.Flush()
		e.fileMu.Unlock()
	}
	e.metrics.ObserveDrain(n, time.Since(start))
	e.metrics.SetArenaUsedBytes(e.arena.Used())
	return err
}
