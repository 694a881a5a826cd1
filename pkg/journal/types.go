package journal

import (
	"time"
)

// SymbolRecord is the journal-side projection of one symbol result.
type SymbolRecord struct {
	Symbol      string  `json:"symbol"`
	Outcome     string  `json:"outcome"`
	Score       float64 `json:"score"`
	Description string  `json:"description,omitempty"`
	ElapsedUS   int64   `json:"elapsed_us"`
	Error       string  `json:"error,omitempty"`
}

// Record is one finalized scan.
type Record struct {
	// ScanID is the execution identifier.
	ScanID string

	// QueueID is the upstream message identifier, if any.
	QueueID string

	// Score is the final composite score.
	Score float64

	// Category is the verdict class.
	Category string

	// EarlyExit, Degraded, and FatalSymbol mirror the verdict flags.
	EarlyExit   bool
	Degraded    bool
	FatalSymbol string

	// Generation is the configuration generation the scan ran against.
	Generation uint64

	// Elapsed is the total scheduling time.
	Elapsed time.Duration

	// Symbols holds the ordered symbol results.
	Symbols []SymbolRecord

	// RecordedAt is when the record was accepted by the journal.
	RecordedAt time.Time
}
