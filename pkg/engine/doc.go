// Package engine ties together an arena, a background flush worker, and an
// output file into the single object application code calls Store on. It
// is grounded on buffered_storage in the original trace-cache
// implementation: start/shutdown gate a worker goroutine by origin PID,
// and Store refuses to run while the engine isn't started.
package engine
