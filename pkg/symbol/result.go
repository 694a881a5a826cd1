package symbol

import (
	"fmt"
	"time"
)

// Outcome classifies how a symbol's execution concluded.
type Outcome int

const (
	// OutcomeNoMatch means the symbol ran and its condition did not match.
	OutcomeNoMatch Outcome = iota

	// OutcomeFired means the symbol ran and matched the message.
	OutcomeFired

	// OutcomeFailed means the check itself errored (lookup failure,
	// dispatch exhaustion). Distinct from "ran, did not fire"; dependents
	// still proceed.
	OutcomeFailed

	// OutcomeTimeout is synthetic: the message deadline elapsed before the
	// symbol ran or completed.
	OutcomeTimeout

	// OutcomeSkipped is synthetic: scheduling stopped (fatal symbol, early
	// exit, or settings profile) before the symbol was dispatched.
	OutcomeSkipped
)

// String returns the outcome name used in logs and the journal.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeFired:
		return "fired"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the recorded execution outcome of one symbol for one message.
// Results are append-only within an execution context; a symbol produces at
// most one result per message.
type Result struct {
	// Symbol is the symbol identifier.
	Symbol string `json:"symbol"`

	// Outcome classifies the execution.
	Outcome Outcome `json:"outcome"`

	// Score is the final contribution folded into the message score:
	// weight x multiplier, clamped to the configured bounds. Zero unless
	// the symbol fired.
	Score float64 `json:"score"`

	// Description is free-form text supplied by the handler.
	Description string `json:"description,omitempty"`

	// Elapsed is the handler execution time. Zero for synthetic outcomes.
	Elapsed time.Duration `json:"elapsed"`

	// Err carries the handler error for OutcomeFailed.
	Err error `json:"-"`
}

// Fired reports whether the symbol matched the message.
func (r *Result) Fired() bool {
	return r.Outcome == OutcomeFired
}

// Ran reports whether the handler actually executed, as opposed to the
// scheduler recording a synthetic outcome.
func (r *Result) Ran() bool {
	switch r.Outcome {
	case OutcomeFired, OutcomeNoMatch, OutcomeFailed:
		return true
	default:
		return false
	}
}
