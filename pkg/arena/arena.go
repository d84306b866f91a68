// Package arena implements the fixed-size, wrap-around byte buffer shared
// by all producers and drained by the flush worker. It is grounded on
// buffered_storage::reserve_memory_space/fragment_memory/execute_flush in
// the original trace-cache implementation: a single mutex guards two
// indices, head and tail, and a reservation that would cross the buffer's
// physical end triggers an explicit fragmentation record instead of
// splitting the record across the wrap.
package arena

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/mradosav-amd/cache/pkg/codec"
	"github.com/mradosav-amd/cache/pkg/sample"
)

// ErrArenaOverflow is returned when a single record's framed size cannot
// ever fit in the arena, even immediately after a fragmentation, or when
// serving a reservation would overwrite bytes that have not been drained.
var ErrArenaOverflow = errors.New("arena: record does not fit in buffer")

// Arena is a fixed-size ring buffer of bytes. All bytes in [tail, head)
// (modulo wrap) are valid framed records or fragmentation fillers. The
// arena never reports itself completely full: a zero-length used region is
// the only unambiguous empty/full discriminator available with two plain
// indices, so the last usable byte before head would catch up to tail is
// always left untouched.
type Arena struct {
	mu   sync.Mutex
	buf  []byte
	head int
	tail int

	fragmentCount atomic.Int64
}

// New allocates an Arena with the given capacity in bytes.
func New(size int) *Arena {
	if size <= 0 {
		panic("arena: size must be positive")
	}
	return &Arena{buf: make([]byte, size)}
}

// Size returns the arena's total capacity in bytes.
func (a *Arena) Size() int { return len(a.buf) }

// Used returns the number of bytes currently committed but not yet
// drained, i.e. the size of [tail, head) modulo wrap.
func (a *Arena) Used() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usedLocked()
}

func (a *Arena) usedLocked() int {
	if a.head >= a.tail {
		return a.head - a.tail
	}
	return len(a.buf) - a.tail + a.head
}

// Reserve returns a slice of exactly n contiguous bytes, exclusive to the
// caller until it finishes writing into it. If the reservation would cross
// the buffer's physical end, Reserve first fragments the remaining tail
// region and retries from offset 0. Reserve fails with ErrArenaOverflow if
// n plus a header could never fit in the buffer at all, or if the bytes it
// would hand out (or the fragmentation filler it would write) overlap the
// undrained region [tail, head).
func (a *Arena) Reserve(n int) ([]byte, error) {
	if n+sample.HeaderSize > len(a.buf) {
		return nil, fmt.Errorf("%w: %d bytes requested, capacity %d", ErrArenaOverflow, n, len(a.buf))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	wrap := a.head+n+sample.HeaderSize > len(a.buf)
	// Refuse a reservation that would overwrite undrained bytes or bring
	// head back onto tail, which would make the undrained region read as
	// empty.
	if (a.head < a.tail && (wrap || a.head+n >= a.tail)) || (wrap && n >= a.tail) {
		return nil, fmt.Errorf("%w: %d bytes requested, %d undrained", ErrArenaOverflow, n, a.usedLocked())
	}
	if wrap {
		a.fragmentLocked()
	}
	start := a.head
	a.head += n
	return a.buf[start:a.head], nil
}

// fragmentLocked writes a fragmentation header at head describing the
// remaining bytes to the buffer's physical end, then resets head to 0.
// Filler bytes themselves are left untouched; the parser only reads the
// header and skips PayloadSize bytes, so their contents are never
// inspected. Must be called with mu held.
func (a *Arena) fragmentLocked() {
	remaining := len(a.buf) - a.head - sample.HeaderSize
	w := codec.NewWriter(a.buf[a.head : a.head+sample.HeaderSize])
	sample.WriteHeader(w, sample.Header{TypeID: sample.FragmentedSpace, PayloadSize: uint64(remaining)})
	a.head = 0
	a.fragmentCount.Add(1)
}

// FragmentCount returns the cumulative number of fragmentation wraps this
// arena has performed since construction.
func (a *Arena) FragmentCount() int64 {
	return a.fragmentCount.Load()
}

// DrainTo snapshots (head, tail) under the mutex, then writes the
// committed region [tail, head) to w outside the mutex. If head equals
// tail there is nothing to drain. Unless force is set, DrainTo also
// declines to drain (returning 0, nil) when the used region is below
// threshold. Once it decides to drain, it advances tail to the snapshotted
// head before releasing the mutex and before writing, so bytes whose write
// to w fails are not offered to a later drain.
func (a *Arena) DrainTo(w io.Writer, threshold int, force bool) (int, error) {
	a.mu.Lock()
	head, tail := a.head, a.tail
	if head == tail {
		a.mu.Unlock()
		return 0, nil
	}
	used := a.usedLocked()
	if !force && used < threshold {
		a.mu.Unlock()
		return 0, nil
	}
	a.tail = head
	a.mu.Unlock()

	if head > tail {
		n, err := w.Write(a.buf[tail:head])
		return n, err
	}

	n1, err := w.Write(a.buf[tail:])
	if err != nil {
		return n1, err
	}
	n2, err := w.Write(a.buf[:head])
	return n1 + n2, err
}
