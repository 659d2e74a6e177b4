package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

func makeTestAttributes() []ir.ProductAttribute {
	return []ir.ProductAttribute{
		{ID: "motor_hp", Name: "Motor HP", Type: ir.AttributeNumber, Required: true},
		{ID: "cooling_capacity", Name: "Cooling Capacity", Type: ir.AttributeNumber},
		{
			ID:   "cooling_unit",
			Name: "Cooling Unit",
			Type: ir.AttributeString,
			Options: []ir.AttributeOption{
				{Label: "ACM 600", Value: ir.Text("ACM-600")},
				{Label: "ACM 800", Value: ir.Text("ACM-800")},
			},
		},
	}
}

func makeCoolingImplication() ir.Rule {
	return ir.Rule{
		ID:          "hp-cooling",
		Description: "motors above 10 HP need at least 5000 BTU cooling",
		Kind:        ir.KindImplication,
		Condition: ir.RuleCondition{
			Attribute: "motor_hp",
			Operator:  ir.OpGreater,
			Value:     ir.Number(10),
		},
		Consequence: &ir.RuleCondition{
			Attribute: "cooling_capacity",
			Operator:  ir.OpGreaterEqual,
			Value:     ir.Number(5000),
		},
		Approved:   true,
		Provenance: ir.ProvenanceManual,
	}
}

func makeExclusion() ir.Rule {
	return ir.Rule{
		ID:          "no-acm-600",
		Description: "the ACM-600 unit is discontinued",
		Kind:        ir.KindExclusion,
		Condition: ir.RuleCondition{
			Attribute: "cooling_unit",
			Operator:  ir.OpEqual,
			Value:     ir.Text("ACM-600"),
		},
		Approved:   true,
		Provenance: ir.ProvenanceManual,
	}
}

func TestEvaluate_RequiredFieldMissing(t *testing.T) {
	cfg := ir.Configuration{"cooling_capacity": ir.Number(5000)}

	res := Evaluate(cfg, nil, makeTestAttributes())

	assert.False(t, res.Valid)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, ir.RuleIDSchema, res.Violations[0].RuleID)
	assert.Equal(t, []string{"motor_hp"}, res.Violations[0].Attributes)
	assert.Equal(t, ir.SeverityError, res.Violations[0].Severity)
}

func TestEvaluate_EmptyStringCountsAsUnset(t *testing.T) {
	cfg := ir.Configuration{"motor_hp": ir.Text("")}

	res := Evaluate(cfg, nil, makeTestAttributes())

	assert.False(t, res.Valid)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, ir.RuleIDSchema, res.Violations[0].RuleID)
}

func TestEvaluate_ImplicationViolated(t *testing.T) {
	cfg := ir.Configuration{
		"motor_hp":         ir.Number(12),
		"cooling_capacity": ir.Number(4000),
	}

	res := Evaluate(cfg, []ir.Rule{makeCoolingImplication()}, makeTestAttributes())

	assert.False(t, res.Valid)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "hp-cooling", res.Violations[0].RuleID)
	assert.Equal(t, []string{"motor_hp", "cooling_capacity"}, res.Violations[0].Attributes)
}

func TestEvaluate_ImplicationSatisfied(t *testing.T) {
	cfg := ir.Configuration{
		"motor_hp":         ir.Number(12),
		"cooling_capacity": ir.Number(7000),
	}

	res := Evaluate(cfg, []ir.Rule{makeCoolingImplication()}, makeTestAttributes())

	assert.True(t, res.Valid)
	assert.Empty(t, res.Violations)
}

func TestEvaluate_ImplicationConditionNotMet(t *testing.T) {
	cfg := ir.Configuration{
		"motor_hp":         ir.Number(8),
		"cooling_capacity": ir.Number(100),
	}

	res := Evaluate(cfg, []ir.Rule{makeCoolingImplication()}, makeTestAttributes())

	assert.True(t, res.Valid)
}

func TestEvaluate_ExclusionViolated(t *testing.T) {
	cfg := ir.Configuration{
		"motor_hp":     ir.Number(5),
		"cooling_unit": ir.Text("ACM-600"),
	}

	res := Evaluate(cfg, []ir.Rule{makeExclusion()}, makeTestAttributes())

	assert.False(t, res.Valid)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "no-acm-600", res.Violations[0].RuleID)
	assert.Equal(t, []string{"cooling_unit"}, res.Violations[0].Attributes)
}

func TestEvaluate_ExclusionNotTriggered(t *testing.T) {
	cfg := ir.Configuration{
		"motor_hp":     ir.Number(5),
		"cooling_unit": ir.Text("ACM-800"),
	}

	res := Evaluate(cfg, []ir.Rule{makeExclusion()}, makeTestAttributes())

	assert.True(t, res.Valid)
}

func TestEvaluate_UnapprovedRuleInvisible(t *testing.T) {
	draft := makeExclusion()
	draft.Approved = false
	cfg := ir.Configuration{
		"motor_hp":     ir.Number(5),
		"cooling_unit": ir.Text("ACM-600"),
	}

	res := Evaluate(cfg, []ir.Rule{draft}, makeTestAttributes())

	assert.True(t, res.Valid, "draft rules must never appear in the output")
}

func TestEvaluate_MissingValueNeverMeetsCondition(t *testing.T) {
	// cooling_unit unset: the exclusion must not fire for any operator.
	operators := []ir.Operator{
		ir.OpGreater, ir.OpGreaterEqual, ir.OpLess, ir.OpLessEqual,
		ir.OpEqual, ir.OpNotEqual,
	}

	for _, op := range operators {
		t.Run(string(op), func(t *testing.T) {
			rule := makeExclusion()
			rule.Condition.Operator = op
			cfg := ir.Configuration{"motor_hp": ir.Number(5)}

			res := Evaluate(cfg, []ir.Rule{rule}, makeTestAttributes())
			assert.True(t, res.Valid)
		})
	}
}

// TestEvaluate_LooseEqualityCoercion documents the cross-type coercion
// behavior: the literal "5" matches the numeric value 5 in both directions.
func TestEvaluate_LooseEqualityCoercion(t *testing.T) {
	rule := ir.Rule{
		ID:   "hp-is-five",
		Kind: ir.KindExclusion,
		Condition: ir.RuleCondition{
			Attribute: "motor_hp",
			Operator:  ir.OpEqual,
			Value:     ir.Text("5"),
		},
		Approved: true,
	}

	res := Evaluate(ir.Configuration{"motor_hp": ir.Number(5)}, []ir.Rule{rule}, makeTestAttributes())
	assert.False(t, res.Valid, "numeric 5 must match the literal \"5\"")

	res = Evaluate(ir.Configuration{"motor_hp": ir.Number(6)}, []ir.Rule{rule}, makeTestAttributes())
	assert.True(t, res.Valid)
}

func TestEvaluate_InOperator(t *testing.T) {
	rule := ir.Rule{
		ID:   "discontinued-units",
		Kind: ir.KindExclusion,
		Condition: ir.RuleCondition{
			Attribute: "cooling_unit",
			Operator:  ir.OpIn,
			Values:    []ir.Value{ir.Text("ACM-600"), ir.Text("ACM-601")},
		},
		Approved: true,
	}

	cfg := ir.Configuration{"motor_hp": ir.Number(5), "cooling_unit": ir.Text("ACM-601")}
	res := Evaluate(cfg, []ir.Rule{rule}, makeTestAttributes())
	assert.False(t, res.Valid)

	cfg["cooling_unit"] = ir.Text("ACM-800")
	res = Evaluate(cfg, []ir.Rule{rule}, makeTestAttributes())
	assert.True(t, res.Valid)
}

func TestEvaluate_MalformedRuleSkippedSilently(t *testing.T) {
	malformed := []ir.Rule{
		{
			// Implication without a consequence.
			ID:        "broken-shape",
			Kind:      ir.KindImplication,
			Condition: ir.RuleCondition{Attribute: "motor_hp", Operator: ir.OpGreater, Value: ir.Number(1)},
			Approved:  true,
		},
		{
			// Unknown operator.
			ID:        "broken-op",
			Kind:      ir.KindExclusion,
			Condition: ir.RuleCondition{Attribute: "motor_hp", Operator: ir.Operator("~="), Value: ir.Number(1)},
			Approved:  true,
		},
		{
			// "in" without a sequence.
			ID:        "broken-in",
			Kind:      ir.KindExclusion,
			Condition: ir.RuleCondition{Attribute: "motor_hp", Operator: ir.OpIn, Value: ir.Number(1)},
			Approved:  true,
		},
	}
	// A healthy rule after the malformed ones must still be evaluated.
	rules := append(malformed, makeCoolingImplication())

	cfg := ir.Configuration{
		"motor_hp":         ir.Number(12),
		"cooling_capacity": ir.Number(4000),
	}

	res := Evaluate(cfg, rules, makeTestAttributes())

	assert.False(t, res.Valid)
	require.Len(t, res.Violations, 1, "malformed rules skipped, healthy rule still evaluated")
	assert.Equal(t, "hp-cooling", res.Violations[0].RuleID)
}

func TestEvaluate_UnknownAttributeRuleSkipped(t *testing.T) {
	offSchema := []ir.Rule{
		{
			// Condition references an attribute the schema does not have.
			ID:        "ghost-condition",
			Kind:      ir.KindExclusion,
			Condition: ir.RuleCondition{Attribute: "warp_core", Operator: ir.OpEqual, Value: ir.Number(1)},
			Approved:  true,
		},
		{
			// Consequence references an unknown attribute: skipped too,
			// never reported as violated against the absent value.
			ID:        "ghost-consequence",
			Kind:      ir.KindImplication,
			Condition: ir.RuleCondition{Attribute: "motor_hp", Operator: ir.OpGreater, Value: ir.Number(1)},
			Consequence: &ir.RuleCondition{
				Attribute: "plasma_flow", Operator: ir.OpGreater, Value: ir.Number(100),
			},
			Approved: true,
		},
	}
	rules := append(offSchema, makeCoolingImplication())

	cfg := ir.Configuration{
		"motor_hp":         ir.Number(12),
		"cooling_capacity": ir.Number(7000),
	}

	res := Evaluate(cfg, rules, makeTestAttributes())
	assert.True(t, res.Valid, "off-schema rules are faults, not violations")
}

func TestEvaluate_OrderingSchemaFirstThenRuleOrder(t *testing.T) {
	first := makeExclusion()
	second := ir.Rule{
		ID:        "hp-cap",
		Kind:      ir.KindExclusion,
		Condition: ir.RuleCondition{Attribute: "motor_hp", Operator: ir.OpGreater, Value: ir.Number(100)},
		Approved:  true,
	}
	attrs := append(makeTestAttributes(), ir.ProductAttribute{
		ID: "voltage", Name: "Voltage", Type: ir.AttributeNumber, Required: true,
	})
	cfg := ir.Configuration{
		"motor_hp":     ir.Number(150),
		"cooling_unit": ir.Text("ACM-600"),
	}

	res := Evaluate(cfg, []ir.Rule{first, second}, attrs)

	require.Len(t, res.Violations, 3)
	assert.Equal(t, ir.RuleIDSchema, res.Violations[0].RuleID)
	assert.Equal(t, []string{"voltage"}, res.Violations[0].Attributes)
	assert.Equal(t, "no-acm-600", res.Violations[1].RuleID)
	assert.Equal(t, "hp-cap", res.Violations[2].RuleID)
}

func TestEvaluate_Idempotent(t *testing.T) {
	cfg := ir.Configuration{
		"motor_hp":         ir.Number(12),
		"cooling_capacity": ir.Number(4000),
		"cooling_unit":     ir.Text("ACM-600"),
	}
	rules := []ir.Rule{makeCoolingImplication(), makeExclusion()}
	attrs := makeTestAttributes()

	first := Evaluate(cfg, rules, attrs)
	second := Evaluate(cfg, rules, attrs)

	assert.Equal(t, first, second)
}
