package engine

import (
	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// conditionMet evaluates a single condition against the configuration.
//
// The comparison semantics live in ir.Satisfies, shared with the SAT
// translator. The returned error marks a malformed condition; the caller
// skips that rule and continues.
func conditionMet(cond ir.RuleCondition, cfg ir.Configuration) (bool, error) {
	met, err := ir.Satisfies(cond, cfg.Get(cond.Attribute))
	if err != nil {
		code := FaultMalformedRule
		if ir.ValidOperators[cond.Operator] {
			code = FaultBadOperand
		}
		return false, &EvalFault{Code: code, Message: err.Error()}
	}
	return met, nil
}
