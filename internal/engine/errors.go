package engine

import "fmt"

// FaultCode categorizes evaluation faults. Faults are internal bookkeeping:
// per the propagation policy, no single-rule fault ever surfaces to the
// caller as an error or prevents evaluation of the remaining rules.
type FaultCode string

const (
	// FaultMalformedRule indicates a rule failing its shape invariant
	// (kind/consequence mismatch or unknown operator).
	FaultMalformedRule FaultCode = "MALFORMED_RULE"

	// FaultUnknownAttribute indicates a condition referencing an attribute
	// absent from the schema.
	FaultUnknownAttribute FaultCode = "UNKNOWN_ATTRIBUTE"

	// FaultBadOperand indicates a condition whose comparison value cannot
	// serve its operator (e.g. "in" without a sequence).
	FaultBadOperand FaultCode = "BAD_OPERAND"
)

// EvalFault describes why one rule was skipped during a pass.
type EvalFault struct {
	Code    FaultCode
	RuleID  string
	Message string
}

// Error implements the error interface.
func (f *EvalFault) Error() string {
	if f.RuleID != "" {
		return fmt.Sprintf("%s: %s (rule=%s)", f.Code, f.Message, f.RuleID)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}
