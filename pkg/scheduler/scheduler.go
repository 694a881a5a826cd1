package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"mercator-hq/vesta/pkg/message"
	"mercator-hq/vesta/pkg/stats"
	"mercator-hq/vesta/pkg/symbol"
)

// Scheduler drives executions to completion. It is stateless apart from the
// shared adaptive statistics store and may run any number of executions
// concurrently.
type Scheduler struct {
	stats  *stats.Store
	logger *slog.Logger
}

// New creates a scheduler backed by the given statistics store. A nil store
// gets a fresh one; a nil logger falls back to slog.Default().
func New(statsStore *stats.Store, logger *slog.Logger) *Scheduler {
	if statsStore == nil {
		statsStore = stats.NewStore(stats.DefaultAlpha)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		stats:  statsStore,
		logger: logger.With("component", "scheduler"),
	}
}

// Stats returns the shared statistics store.
func (s *Scheduler) Stats() *stats.Store {
	return s.stats
}

// completion carries an asynchronous handler's response back to the drive
// loop.
type completion struct {
	name    string
	resp    symbol.Response
	err     error
	elapsed time.Duration
}

// finalizeReason distinguishes why scheduling stopped.
type finalizeReason int

const (
	reasonExhausted finalizeReason = iota
	reasonEarlyExit
	reasonFatal
	reasonDeadline
)

// Run drives the execution until no symbols remain runnable, the early-exit
// predicate fires, a fatal symbol fires, or the deadline elapses. It always
// returns a verdict; the error is non-nil only when the caller's context was
// cancelled, and even then the (degraded) verdict is valid.
func (s *Scheduler) Run(ctx context.Context, exec *Execution) (*Verdict, error) {
	if exec == nil {
		return nil, fmt.Errorf("execution cannot be nil")
	}
	if exec.finalized {
		return nil, fmt.Errorf("execution %s already finalized", exec.ScanID)
	}

	logger := s.logger.With("scan_id", exec.ScanID)
	logger.Debug("starting scan",
		"symbols", len(exec.slots),
		"deadline", exec.Deadline,
		"settings", exec.Settings,
	)

	// Buffered to the symbol population so a completing handler never
	// blocks, even after finalization.
	completions := make(chan completion, len(exec.slots))

	hctx := ctx
	var cancel context.CancelFunc
	if !exec.Deadline.IsZero() {
		hctx, cancel = context.WithDeadline(ctx, exec.Deadline)
		defer cancel()
	}

	var deadlineC <-chan time.Time
	if !exec.Deadline.IsZero() {
		timer := time.NewTimer(time.Until(exec.Deadline))
		defer timer.Stop()
		deadlineC = timer.C
	}

	for {
		if !exec.Deadline.IsZero() && !time.Now().Before(exec.Deadline) {
			return s.finalize(exec, reasonDeadline, completions, logger), nil
		}
		if exec.fatal != "" {
			return s.finalize(exec, reasonFatal, completions, logger), nil
		}
		if exec.earlyExit {
			return s.finalize(exec, reasonEarlyExit, completions, logger), nil
		}

		if d := s.nextReady(exec); d != nil {
			s.dispatch(hctx, exec, d, completions, logger)
			continue
		}

		if exec.outstanding == 0 {
			return s.finalize(exec, reasonExhausted, completions, logger), nil
		}

		select {
		case c := <-completions:
			exec.outstanding--
			s.recordCompletion(exec, c, logger)
		case <-deadlineC:
			return s.finalize(exec, reasonDeadline, completions, logger), nil
		case <-ctx.Done():
			logger.Warn("scan cancelled by caller", "error", ctx.Err())
			return s.finalize(exec, reasonDeadline, completions, logger), ctx.Err()
		}
	}
}

// dispatch runs a synchronous symbol inline or starts an asynchronous one.
// Any error or panic is contained at the symbol boundary and recorded as a
// failed outcome; it never aborts the message.
func (s *Scheduler) dispatch(ctx context.Context, exec *Execution, d *symbol.Descriptor, completions chan<- completion, logger *slog.Logger) {
	sl := exec.slots[d.Name]
	sl.state = stateRunning
	logger.Debug("dispatching symbol", "symbol", d.Name, "kind", d.Kind.String(), "priority", d.Priority)

	switch d.Kind {
	case symbol.KindSynchronous:
		start := time.Now()
		resp, err := safeCheck(ctx, d.Handler, exec.Msg, nil)
		exec.record(buildResult(exec, d, resp, err, time.Since(start)))
		if err != nil {
			logger.Warn("symbol check failed", "symbol", d.Name, "error", err)
		}

	case symbol.KindAsynchronous:
		exec.outstanding++
		start := time.Now()
		var delivered atomic.Bool
		sink := symbol.Sink(func(resp symbol.Response, err error) {
			if !delivered.CompareAndSwap(false, true) {
				logger.Warn("duplicate completion dropped", "symbol", d.Name)
				return
			}
			completions <- completion{name: d.Name, resp: resp, err: err, elapsed: time.Since(start)}
		})

		go func() {
			_, err := safeCheck(ctx, d.Handler, exec.Msg, sink)
			if err != nil {
				// Dispatch could not be started; treated identically to a
				// per-symbol execution error.
				sink(symbol.Response{}, err)
			}
		}()
	}
}

// safeCheck invokes a handler with panic containment.
func safeCheck(ctx context.Context, h symbol.Handler, msg *message.Message, sink symbol.Sink) (resp symbol.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Check(ctx, msg, sink)
}

// recordCompletion folds an asynchronous completion into the context,
// exactly as the synchronous contribution path does.
func (s *Scheduler) recordCompletion(exec *Execution, c completion, logger *slog.Logger) {
	sl, ok := exec.slots[c.name]
	if !ok {
		logger.Warn("completion for unknown symbol dropped", "symbol", c.name)
		return
	}
	exec.record(buildResult(exec, sl.desc, c.resp, c.err, c.elapsed))
	if c.err != nil {
		logger.Warn("symbol check failed", "symbol", c.name, "error", c.err)
	}
}

// buildResult converts a handler response into the recorded result,
// applying the declared weight, the handler multiplier, and the configured
// clamps.
func buildResult(exec *Execution, d *symbol.Descriptor, resp symbol.Response, err error, elapsed time.Duration) *symbol.Result {
	res := &symbol.Result{
		Symbol:      d.Name,
		Description: resp.Description,
		Elapsed:     elapsed,
	}
	switch {
	case err != nil:
		res.Outcome = symbol.OutcomeFailed
		res.Err = err
	case resp.Fired:
		res.Outcome = symbol.OutcomeFired
		mult := resp.Multiplier
		if mult == 0 {
			mult = 1
		}
		res.Score = exec.acc.Thresholds().Clamp(d.Weight * mult)
	default:
		res.Outcome = symbol.OutcomeNoMatch
	}
	return res
}

// finalize closes out the execution: remaining pending symbols receive their
// synthetic outcome, deferred stats observations are flushed, and any
// still-outstanding asynchronous completions are drained in the background
// for observability only; they cannot reopen the verdict.
func (s *Scheduler) finalize(exec *Execution, reason finalizeReason, completions <-chan completion, logger *slog.Logger) *Verdict {
	exec.finalized = true

	synthetic := symbol.OutcomeSkipped
	if reason == reasonDeadline {
		synthetic = symbol.OutcomeTimeout
		exec.degraded = true
	}

	for _, name := range exec.order {
		sl := exec.slots[name]
		switch sl.state {
		case statePending:
			if reason != reasonExhausted {
				exec.record(&symbol.Result{Symbol: name, Outcome: synthetic})
			}
		case stateRunning:
			// Dispatched asynchronous operations that never completed are
			// recorded as timed out; on early exit or fatal their late
			// results drain below, logged only.
			if reason == reasonDeadline {
				exec.record(&symbol.Result{Symbol: name, Outcome: symbol.OutcomeTimeout})
			}
		}
	}

	for _, obs := range exec.observations {
		s.stats.Observe(obs.name, obs.fired, obs.elapsed)
	}

	if n := exec.outstanding; n > 0 {
		go s.drain(completions, n, drainTimeout, logger)
	}

	verdict := &Verdict{
		ScanID:      exec.ScanID,
		Score:       exec.acc.Total(),
		Category:    exec.acc.Category(),
		Results:     exec.results,
		EarlyExit:   reason == reasonEarlyExit,
		Degraded:    exec.degraded,
		FatalSymbol: exec.fatal,
		Elapsed:     exec.Elapsed(),
	}

	logger.Info("scan finalized",
		"score", verdict.Score,
		"category", verdict.Category,
		"results", len(verdict.Results),
		"early_exit", verdict.EarlyExit,
		"degraded", verdict.Degraded,
		"fatal_symbol", verdict.FatalSymbol,
		"elapsed", verdict.Elapsed,
	)
	return verdict
}

// drainTimeout bounds how long a background drain waits for handlers that
// never invoke their sink. Well past any sane message deadline.
const drainTimeout = time.Minute

// drain accepts late completions for an already-finalized execution so the
// underlying I/O layer does not leak. Late results feed the statistics
// store and the log, nothing else. Errored completions skip the store: a
// handler aborted by finalization reports its cancellation, not the
// symbol's real cost or fire rate.
func (s *Scheduler) drain(completions <-chan completion, n int, timeout time.Duration, logger *slog.Logger) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for i := 0; i < n; i++ {
		select {
		case c := <-completions:
			if c.err == nil {
				s.stats.Observe(c.name, c.resp.Fired, c.elapsed)
			}
			logger.Debug("late completion after finalization",
				"symbol", c.name,
				"fired", c.resp.Fired,
				"error", c.err,
				"elapsed", c.elapsed,
			)
		case <-timer.C:
			logger.Warn("abandoning drain, completion sink never invoked", "missing", n-i)
			return
		}
	}
}
