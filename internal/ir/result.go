package ir

// Severity grades a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Reserved rule IDs for violations not originating from a single rule.
const (
	// RuleIDSchema marks required-field violations from the schema pass.
	RuleIDSchema = "__schema__"
	// RuleIDSolver marks aggregate or system-level violations from the
	// SAT path, which cannot localize a single offending rule.
	RuleIDSolver = "__solver__"
)

// ValidationViolation reports one way the configuration conflicts with the
// schema or the rule set. Attributes lists the implicated attribute IDs for
// UI navigation; it may span the whole configuration for solver-detected
// violations.
type ValidationViolation struct {
	RuleID     string   `json:"rule_id"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Provenance string   `json:"provenance,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
}

// ValidationResult is the shared contract of both validation strategies.
//
// INVARIANT: Valid is true exactly when Violations is empty. Construct
// results through NewValidationResult so the two can never disagree.
type ValidationResult struct {
	Valid      bool                  `json:"valid"`
	Violations []ValidationViolation `json:"violations"`
}

// NewValidationResult builds a result whose validity flag is derived from
// the violation list.
func NewValidationResult(violations []ValidationViolation) ValidationResult {
	return ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}
