// Package flush runs the background goroutine that periodically drains an
// arena to its output file. It is grounded on flush_worker_t in the
// original trace-cache implementation: a worker records the PID that
// started it, loops draining on a timer until told to stop, then performs
// one final forced drain before exiting. Stop initiated from a different
// process than Start (e.g. after a fork) is a no-op: it neither signals the
// worker nor triggers the forced drain, and it does not block waiting for
// the worker goroutine, since that goroutine does not exist in the calling
// process.
package flush
