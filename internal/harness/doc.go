// Package harness runs declarative validation scenarios through both
// validation strategies and compares their verdicts.
//
// The deterministic evaluator and the SAT validator are built on the same
// condition predicate, so for any configuration whose values fall inside
// the encoded universes the two must agree on validity. The harness makes
// that property checkable per scenario, and snapshots both results as
// golden files so behavioral drift in either engine shows up as a diff.
package harness
