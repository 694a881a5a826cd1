// Package scoring folds per-symbol contributions into a running composite
// score and exposes the early-exit predicate the scheduler consults after
// every contribution.
package scoring

import (
	"fmt"

	"mercator-hq/vesta/pkg/symbol"
)

// Category is the verdict class derived from the final score. The
// accept/reject action itself is policy layered above the engine.
type Category string

const (
	// CategoryHam means the score stayed below the probable-spam threshold.
	CategoryHam Category = "ham"

	// CategoryProbableSpam means the score crossed the probable threshold
	// but not the spam threshold.
	CategoryProbableSpam Category = "probable-spam"

	// CategorySpam means the score crossed the spam threshold.
	CategorySpam Category = "spam"
)

// Thresholds configures score clamping, early exit, and verdict classes.
type Thresholds struct {
	// StopSpam is the evaluative score at or above which remaining checks
	// cannot change the categorical outcome toward ham. Must be positive.
	StopSpam float64

	// StopHam is the evaluative score at or below which remaining checks
	// cannot change the categorical outcome toward spam. Must be negative.
	StopHam float64

	// SpamScore is the final-score boundary for CategorySpam.
	SpamScore float64

	// ProbableScore is the final-score boundary for CategoryProbableSpam.
	ProbableScore float64

	// SymbolMin and SymbolMax clamp any single symbol's contribution.
	SymbolMin float64
	SymbolMax float64
}

// Validate checks the threshold invariants.
func (t Thresholds) Validate() error {
	if t.StopSpam <= 0 {
		return fmt.Errorf("stop_spam must be positive, got %g", t.StopSpam)
	}
	if t.StopHam >= 0 {
		return fmt.Errorf("stop_ham must be negative, got %g", t.StopHam)
	}
	if t.SymbolMin > t.SymbolMax {
		return fmt.Errorf("symbol_min %g exceeds symbol_max %g", t.SymbolMin, t.SymbolMax)
	}
	if t.ProbableScore > t.SpamScore {
		return fmt.Errorf("probable_score %g exceeds spam_score %g", t.ProbableScore, t.SpamScore)
	}
	return nil
}

// Clamp bounds a single symbol's contribution to [SymbolMin, SymbolMax].
func (t Thresholds) Clamp(score float64) float64 {
	if score < t.SymbolMin {
		return t.SymbolMin
	}
	if score > t.SymbolMax {
		return t.SymbolMax
	}
	return score
}

// Category classifies a final score.
func (t Thresholds) Category(score float64) Category {
	switch {
	case score >= t.SpamScore:
		return CategorySpam
	case score >= t.ProbableScore:
		return CategoryProbableSpam
	default:
		return CategoryHam
	}
}

// Accumulator tracks the running composite score for one message. It is
// owned by a single execution context and needs no internal locking.
type Accumulator struct {
	thresholds Thresholds

	// total is the full score, including passthrough contributions.
	total float64

	// evaluative excludes contributions from ignore-passthrough symbols;
	// only it feeds the early-exit predicate.
	evaluative float64
}

// NewAccumulator creates an accumulator with the given thresholds.
func NewAccumulator(t Thresholds) *Accumulator {
	return &Accumulator{thresholds: t}
}

// Add folds one symbol result into the running totals. Contributions from
// ignore-passthrough symbols count toward the final score but are excluded
// from the early-exit input.
func (a *Accumulator) Add(res *symbol.Result, ignorePassthrough bool) {
	if res.Outcome != symbol.OutcomeFired {
		return
	}
	a.total += res.Score
	if !ignorePassthrough {
		a.evaluative += res.Score
	}
}

// ShouldStop reports whether the evaluative score has crossed a stop
// threshold in either direction. It is pure: it inspects the running total
// and has no side effects.
func (a *Accumulator) ShouldStop() bool {
	return a.evaluative >= a.thresholds.StopSpam || a.evaluative <= a.thresholds.StopHam
}

// Total returns the full running score.
func (a *Accumulator) Total() float64 {
	return a.total
}

// Category classifies the current total.
func (a *Accumulator) Category() Category {
	return a.thresholds.Category(a.total)
}

// Thresholds returns the configured thresholds.
func (a *Accumulator) Thresholds() Thresholds {
	return a.thresholds
}
