package ir

import "fmt"

// Satisfies reports whether a value meets a condition under the shared
// semantics table. Both validation strategies go through this one function:
// the deterministic evaluator applies it to the configured value, the SAT
// translator applies it to every member of an attribute's encoded universe.
//
//   - ordering operators compare numerically after coercion; a side without
//     a numeric reading is "not met", never an error
//   - == / != use the loose-equality coercion table
//   - "in" is true iff the configured value is loosely equal to a member of
//     the sequence
//   - an unset value meets no condition, for any operator
//
// An error marks a malformed condition (unknown operator, missing operand,
// "in" without a sequence); callers skip the owning rule.
func Satisfies(cond RuleCondition, v Value) (bool, error) {
	if err := cond.CheckOperand(); err != nil {
		return false, err
	}
	if !IsSet(v) {
		return false, nil
	}

	switch cond.Operator {
	case OpGreater:
		cmp, ok := CompareNumeric(v, cond.Value)
		return ok && cmp > 0, nil
	case OpGreaterEqual:
		cmp, ok := CompareNumeric(v, cond.Value)
		return ok && cmp >= 0, nil
	case OpLess:
		cmp, ok := CompareNumeric(v, cond.Value)
		return ok && cmp < 0, nil
	case OpLessEqual:
		cmp, ok := CompareNumeric(v, cond.Value)
		return ok && cmp <= 0, nil
	case OpEqual:
		return LooseEqual(v, cond.Value), nil
	case OpNotEqual:
		return !LooseEqual(v, cond.Value), nil
	case OpIn:
		for _, member := range cond.Values {
			if LooseEqual(v, member) {
				return true, nil
			}
		}
		return false, nil
	default:
		// Unreachable after CheckOperand, kept for totality.
		return false, fmt.Errorf("unknown operator %q", cond.Operator)
	}
}

// CheckOperand validates the operator/value pairing of a condition.
func (c RuleCondition) CheckOperand() error {
	if !ValidOperators[c.Operator] {
		return fmt.Errorf("unknown operator %q", c.Operator)
	}
	if c.Operator == OpIn {
		if c.Values == nil {
			return fmt.Errorf("operator %q requires a sequence of values", OpIn)
		}
		return nil
	}
	if c.Value == nil {
		return fmt.Errorf("operator %q requires a comparison value", c.Operator)
	}
	return nil
}
