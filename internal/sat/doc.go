// Package sat implements the satisfiability-based validator.
//
// Where the deterministic evaluator checks each rule against the current
// values in isolation, this validator proves global consistency: it asks
// whether any complete assignment over the observed value universes
// satisfies every approved rule simultaneously, with the current
// configuration pinned as assumptions. An unsatisfiable answer means the
// configuration cannot be completed into a valid product, even if no single
// rule is directly violated yet.
//
// Encoding: every (attribute, literal) pair observed in declared options,
// rule literals, or the current configuration becomes one boolean solver
// variable; an exactly-one constraint per attribute makes the variables
// behave as a finite integer domain. Numeric attributes pass through
// unencoded - the raw integer (truncated toward zero) is the code.
// Comparison atoms expand to disjunctions of the universe members that
// satisfy the condition under ir.Satisfies, the same predicate the
// deterministic evaluator uses, so the two strategies cannot drift apart.
//
// The backend is gophersat's boolean-formula layer (bf.Solve).
//
// Concurrency: the validator is NOT reentrant. A single-flight guard drops
// any request arriving while a check is in flight and reports the
// configuration as valid without touching the solver. This documented
// trade-off favors availability over soundness: a true violation can be
// missed during solver churn. Callers wanting debounce or retry implement
// it outside this package.
package sat
