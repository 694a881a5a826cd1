package scheduler

import (
	"time"

	"github.com/google/uuid"

	"mercator-hq/vesta/pkg/message"
	"mercator-hq/vesta/pkg/scoring"
	"mercator-hq/vesta/pkg/symbol"
	"mercator-hq/vesta/pkg/symbol/graph"
	"mercator-hq/vesta/pkg/symbol/registry"
)

// symbolState tracks one symbol's progress within a single execution.
type symbolState int

const (
	statePending symbolState = iota
	stateRunning
	stateDone
)

// slot is the per-symbol execution record.
type slot struct {
	desc   *symbol.Descriptor
	state  symbolState
	result *symbol.Result
}

// observation is a deferred stats update, flushed when the context is
// finalized.
type observation struct {
	name    string
	fired   bool
	elapsed time.Duration
}

// Execution is the per-message execution context. It is created fresh for
// each message, owned exclusively by the Run call driving it, and never
// outlives the message. It needs no internal locking.
type Execution struct {
	// ScanID identifies this execution in logs and the journal.
	ScanID uuid.UUID

	// Msg is the opaque parsed message under inspection.
	Msg *message.Message

	// Settings names the active settings profile, or "".
	Settings string

	// Deadline is the absolute time budget for the whole message.
	Deadline time.Time

	graph *graph.Graph
	slots map[string]*slot

	// order holds all symbol names sorted ascending; iterating it makes
	// ready-set selection deterministic.
	order []string

	acc *scoring.Accumulator

	// outstanding counts dispatched asynchronous operations that have not
	// completed yet.
	outstanding int

	// earlyExit is set once the accumulator crosses a stop threshold and
	// never cleared.
	earlyExit bool

	finalized bool
	fatal     string
	degraded  bool

	// results is the append-only, dispatch-ordered result list.
	results []symbol.Result

	observations []observation
	started      time.Time
}

// Options configures a new execution.
type Options struct {
	// Deadline is the absolute budget for the message. Zero means the
	// caller's context is the only limit.
	Deadline time.Time

	// Settings names the settings profile active for this scan.
	Settings string

	// Thresholds configures scoring and early exit.
	Thresholds scoring.Thresholds
}

// NewExecution seeds a context against one configuration generation.
// Symbols disabled under the active settings profile are marked skipped up
// front; they satisfy their dependents like any other done symbol.
func NewExecution(reg *registry.Registry, g *graph.Graph, msg *message.Message, opts Options) *Execution {
	descs := reg.All()
	exec := &Execution{
		ScanID:   uuid.New(),
		Msg:      msg,
		Settings: opts.Settings,
		Deadline: opts.Deadline,
		graph:    g,
		slots:    make(map[string]*slot, len(descs)),
		order:    make([]string, 0, len(descs)),
		acc:      scoring.NewAccumulator(opts.Thresholds),
		started:  time.Now(),
	}

	for _, d := range descs {
		exec.slots[d.Name] = &slot{desc: d}
		exec.order = append(exec.order, d.Name)
	}

	for _, d := range descs {
		if d.SkippedIn(opts.Settings) {
			exec.record(&symbol.Result{Symbol: d.Name, Outcome: symbol.OutcomeSkipped})
		}
	}

	return exec
}

// record transitions a symbol to done and appends its result. It is the
// single path by which results enter the context, which enforces the
// at-most-once property.
func (e *Execution) record(res *symbol.Result) {
	sl, ok := e.slots[res.Symbol]
	if !ok || sl.state == stateDone {
		return
	}
	sl.state = stateDone
	sl.result = res
	e.results = append(e.results, *res)
	e.acc.Add(res, sl.desc.IgnorePassthrough)
	if res.Ran() {
		e.observations = append(e.observations, observation{
			name:    res.Symbol,
			fired:   res.Fired(),
			elapsed: res.Elapsed,
		})
	}
	if e.acc.ShouldStop() {
		e.earlyExit = true
	}
	if res.Fired() && sl.desc.Fatal {
		e.fatal = res.Symbol
	}
}

// depsSatisfied reports whether every direct dependency of the named symbol
// has reached a done state. Dependency satisfaction means "ran and
// returned", not "fired".
func (e *Execution) depsSatisfied(name string) bool {
	for _, dep := range e.graph.DirectDependencies(name) {
		sl, ok := e.slots[dep]
		if !ok || sl.state != stateDone {
			return false
		}
	}
	return true
}

// Results returns the dispatch-ordered result list.
func (e *Execution) Results() []symbol.Result {
	return e.results
}

// Score returns the current composite score.
func (e *Execution) Score() float64 {
	return e.acc.Total()
}

// Elapsed returns the wall time since the execution was created.
func (e *Execution) Elapsed() time.Duration {
	return time.Since(e.started)
}
