// Package project handles import and export of project documents: the
// attributes, rules, and current configuration that together describe one
// CPQ product.
//
// Projects travel as YAML. On import the raw document is validated against
// an embedded CUE schema before decoding, so malformed operators, unknown
// rule kinds, and out-of-range confidence scores are rejected with file
// positions instead of surfacing later as skipped rules. The engine itself
// stays tolerant (a malformed rule at validation time is skipped, not
// fatal); strictness lives at the import boundary where a human can fix
// the file.
package project
