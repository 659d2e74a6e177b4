// Package engine implements the deterministic rule evaluator.
//
// Evaluate is a pure, total function over one configuration snapshot: it
// never panics past its boundary, holds no state between calls, and is safe
// to call concurrently from any number of goroutines.
//
// Evaluation order is fixed for reproducible results:
//  1. Schema pass - every required attribute without a set value yields a
//     schema-level violation.
//  2. Rule pass - approved rules, in their given order. Unapproved drafts
//     are invisible. A malformed rule is skipped; it never aborts the pass
//     or corrupts results for unrelated attributes.
//
// Comparison semantics (the coercion table in package ir) are shared with
// the SAT validator so the two strategies agree on any configuration they
// can both decide.
package engine
