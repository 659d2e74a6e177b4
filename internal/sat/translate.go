package sat

import (
	"fmt"
	"log/slog"

	"github.com/crillab/gophersat/bf"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// varName names the solver variable asserting "attribute holds the value
// with this code".
func varName(attrID string, code int) string {
	return fmt.Sprintf("%s=%d", attrID, code)
}

// checkRules filters the rule set down to approved rules whose shape and
// attribute references survive translation. A rule that fails is skipped
// and logged, never fatal.
func checkRules(rules []ir.Rule, attrs map[string]ir.ProductAttribute, log *slog.Logger) []ir.Rule {
	checked := make([]ir.Rule, 0, len(rules))
	for _, r := range rules {
		if !r.Approved {
			continue
		}
		if err := r.CheckShape(); err != nil {
			log.Warn("skipping untranslatable rule", "rule", r.ID, "error", err)
			continue
		}
		if _, ok := attrs[r.Condition.Attribute]; !ok {
			log.Warn("skipping untranslatable rule",
				"rule", r.ID, "error", fmt.Sprintf("unknown attribute %q", r.Condition.Attribute))
			continue
		}
		if r.Consequence != nil {
			if _, ok := attrs[r.Consequence.Attribute]; !ok {
				log.Warn("skipping untranslatable rule",
					"rule", r.ID, "error", fmt.Sprintf("unknown attribute %q", r.Consequence.Attribute))
				continue
			}
		}
		checked = append(checked, r)
	}
	return checked
}

// seedLiterals feeds every literal a condition mentions into the encoder so
// the attribute universes are complete before formulas are built. Encoding
// failures here are tolerated: a literal that cannot be coded (say, a
// non-numeric string compared against a numeric attribute) simply never
// satisfies the condition, matching the deterministic semantics.
func seedLiterals(enc *Encoder, rules []ir.Rule) {
	seedCondition := func(cond ir.RuleCondition) {
		if cond.Operator == ir.OpIn {
			for _, member := range cond.Values {
				_, _ = enc.Code(cond.Attribute, member)
			}
			return
		}
		_, _ = enc.Code(cond.Attribute, cond.Value)
	}
	for _, r := range rules {
		seedCondition(r.Condition)
		if r.Consequence != nil {
			seedCondition(*r.Consequence)
		}
	}
}

// conditionFormula expands a condition into the disjunction of the
// universe members that satisfy it under the shared predicate. A condition
// no member satisfies is simply false.
func conditionFormula(enc *Encoder, cond ir.RuleCondition) bf.Formula {
	var sat []bf.Formula
	for _, member := range enc.Universe(cond.Attribute) {
		met, err := ir.Satisfies(cond, member.Value)
		if err != nil {
			// Malformed conditions are filtered by checkRules; treat any
			// residue as unsatisfiable rather than guessing.
			return bf.False
		}
		if met {
			sat = append(sat, bf.Var(varName(cond.Attribute, member.Code)))
		}
	}
	if len(sat) == 0 {
		return bf.False
	}
	return bf.Or(sat...)
}

// ruleFormula translates one checked rule: implications become
// condition => consequence, exclusions become not(condition).
func ruleFormula(enc *Encoder, r ir.Rule) bf.Formula {
	cond := conditionFormula(enc, r.Condition)
	switch r.Kind {
	case ir.KindImplication:
		return bf.Implies(cond, conditionFormula(enc, *r.Consequence))
	default:
		return bf.Not(cond)
	}
}

// domainFormula asserts that each attribute with a non-empty universe holds
// exactly one of its observed values. Attributes nothing mentions stay
// unconstrained.
func domainFormula(enc *Encoder, attrs []ir.ProductAttribute) []bf.Formula {
	var formulas []bf.Formula
	for _, a := range attrs {
		universe := enc.Universe(a.ID)
		if len(universe) == 0 {
			continue
		}
		names := make([]string, len(universe))
		for i, member := range universe {
			names[i] = varName(a.ID, member.Code)
		}
		formulas = append(formulas, bf.Unique(names...))
	}
	return formulas
}

// assumptionFormulas pins the current configuration as unit equalities.
// Only set values participate; an entry that cannot be encoded (unknown
// attribute, no numeric reading) is skipped with a log line rather than
// poisoning the whole check.
func assumptionFormulas(enc *Encoder, cfg ir.Configuration, log *slog.Logger) []bf.Formula {
	var formulas []bf.Formula
	for _, id := range cfg.SetIDs() {
		code, err := enc.Code(id, cfg.Get(id))
		if err != nil {
			log.Warn("skipping unencodable configuration value", "attribute", id, "error", err)
			continue
		}
		formulas = append(formulas, bf.Var(varName(id, code)))
	}
	return formulas
}
