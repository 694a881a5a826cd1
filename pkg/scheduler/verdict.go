package scheduler

import (
	"time"

	"github.com/google/uuid"

	"mercator-hq/vesta/pkg/scoring"
	"mercator-hq/vesta/pkg/symbol"
)

// Verdict is the finalized outcome of scheduling one message. Consumers
// derive the accept/reject/rewrite action from thresholds external to this
// core.
type Verdict struct {
	// ScanID identifies the execution that produced this verdict.
	ScanID uuid.UUID `json:"scan_id"`

	// Score is the accumulated composite score.
	Score float64 `json:"score"`

	// Category is the verdict class derived from the configured
	// thresholds.
	Category scoring.Category `json:"category"`

	// Results is the ordered list of symbol results, in dispatch order.
	Results []symbol.Result `json:"results"`

	// EarlyExit reports that scheduling stopped once the score crossed a
	// stop threshold.
	EarlyExit bool `json:"early_exit"`

	// Degraded reports that the message deadline forced finalization with
	// partial results. A degraded verdict is not a failed one.
	Degraded bool `json:"degraded"`

	// FatalSymbol names the fatal symbol that short-circuited the scan,
	// if any.
	FatalSymbol string `json:"fatal_symbol,omitempty"`

	// Elapsed is the total scheduling time for the message.
	Elapsed time.Duration `json:"elapsed"`

	// Generation is the configuration generation the scan ran against.
	Generation uint64 `json:"generation"`
}
