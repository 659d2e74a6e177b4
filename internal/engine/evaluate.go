package engine

import (
	"fmt"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// Evaluate validates a configuration against the schema and rule set using
// direct comparison semantics.
//
// Result ordering is deterministic: schema violations first (in attribute
// declaration order), then rule violations in the same order as the input
// rule slice. Unapproved rules are skipped; malformed rules are skipped
// without aborting the pass.
func Evaluate(cfg ir.Configuration, rules []ir.Rule, attrs []ir.ProductAttribute) ir.ValidationResult {
	var violations []ir.ValidationViolation

	// Schema pass: required attributes must hold a set value.
	for _, attr := range attrs {
		if !attr.Required {
			continue
		}
		if ir.IsSet(cfg.Get(attr.ID)) {
			continue
		}
		violations = append(violations, ir.ValidationViolation{
			RuleID:     ir.RuleIDSchema,
			Message:    fmt.Sprintf("required attribute %q (%s) is not set", attr.ID, attr.Name),
			Severity:   ir.SeverityError,
			Provenance: ir.ProvenanceManual,
			Attributes: []string{attr.ID},
		})
	}

	// Rule pass, in given order.
	index := ir.AttributeIndex(attrs)
	for _, rule := range rules {
		if !rule.Approved {
			continue
		}
		if err := checkAttributeRefs(rule, index); err != nil {
			// Same skip policy the solver's translation check applies.
			continue
		}
		v, err := evalRule(rule, cfg)
		if err != nil {
			// Single-rule fault: skip, continue with the rest.
			continue
		}
		if v != nil {
			violations = append(violations, *v)
		}
	}

	return ir.NewValidationResult(violations)
}

// checkAttributeRefs verifies every attribute a rule mentions exists in the
// schema. A rule referencing an unknown attribute is skipped as a fault,
// matching the solver's translation check.
func checkAttributeRefs(rule ir.Rule, attrs map[string]ir.ProductAttribute) error {
	if _, ok := attrs[rule.Condition.Attribute]; !ok {
		return &EvalFault{
			Code:    FaultUnknownAttribute,
			RuleID:  rule.ID,
			Message: fmt.Sprintf("unknown attribute %q", rule.Condition.Attribute),
		}
	}
	if rule.Consequence != nil {
		if _, ok := attrs[rule.Consequence.Attribute]; !ok {
			return &EvalFault{
				Code:    FaultUnknownAttribute,
				RuleID:  rule.ID,
				Message: fmt.Sprintf("unknown attribute %q", rule.Consequence.Attribute),
			}
		}
	}
	return nil
}

// evalRule evaluates one approved rule, returning a violation when the rule
// is broken by the current configuration, nil when it holds, and an error
// when the rule itself is malformed.
func evalRule(rule ir.Rule, cfg ir.Configuration) (*ir.ValidationViolation, error) {
	if err := rule.CheckShape(); err != nil {
		return nil, &EvalFault{Code: FaultMalformedRule, RuleID: rule.ID, Message: err.Error()}
	}

	met, err := conditionMet(rule.Condition, cfg)
	if err != nil {
		return nil, err
	}
	if !met {
		return nil, nil
	}

	switch rule.Kind {
	case ir.KindImplication:
		consequenceMet, err := conditionMet(*rule.Consequence, cfg)
		if err != nil {
			return nil, err
		}
		if consequenceMet {
			return nil, nil
		}
		return &ir.ValidationViolation{
			RuleID:     rule.ID,
			Message:    violationMessage(rule),
			Severity:   ir.SeverityError,
			Provenance: rule.Provenance,
			Attributes: implicatedAttributes(rule.Condition.Attribute, rule.Consequence.Attribute),
		}, nil
	case ir.KindExclusion:
		// The matched state itself is forbidden.
		return &ir.ValidationViolation{
			RuleID:     rule.ID,
			Message:    violationMessage(rule),
			Severity:   ir.SeverityError,
			Provenance: rule.Provenance,
			Attributes: []string{rule.Condition.Attribute},
		}, nil
	default:
		return nil, &EvalFault{Code: FaultMalformedRule, RuleID: rule.ID, Message: "unknown rule kind"}
	}
}

func violationMessage(rule ir.Rule) string {
	if rule.Description != "" {
		return fmt.Sprintf("rule %q violated: %s", rule.ID, rule.Description)
	}
	return fmt.Sprintf("rule %q violated", rule.ID)
}

// implicatedAttributes joins condition and consequence attributes without
// duplicating a self-referential rule's single attribute.
func implicatedAttributes(condAttr, consAttr string) []string {
	if condAttr == consAttr {
		return []string{condAttr}
	}
	return []string{condAttr, consAttr}
}
