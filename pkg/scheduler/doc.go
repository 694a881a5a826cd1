// Package scheduler drives symbol execution for one message at a time: it
// repeatedly selects the highest-ranked runnable symbol, dispatches it, and
// reacts to completions until no symbols remain runnable, the accumulated
// score makes remaining checks immaterial, a fatal symbol fires, or the
// message deadline elapses.
//
// One Execution is owned by exactly one Run call; many Run calls proceed
// concurrently, one per in-flight message. Asynchronous symbol handlers run
// in their own goroutines and report back through a completion channel, so
// independent I/O waits overlap while the drive loop itself stays
// single-threaded and the Execution needs no internal locking.
package scheduler
