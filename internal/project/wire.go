package project

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// Wire types mirror the YAML/JSON document shape with dynamically-typed
// values. All conversion between wire form and the ir model goes through
// this file; the store reuses the same codec so a rule round-trips
// identically through a file or the database.

type projectDoc struct {
	Name          string         `yaml:"name" json:"name"`
	Attributes    []attributeDoc `yaml:"attributes" json:"attributes"`
	Rules         []ruleDoc      `yaml:"rules,omitempty" json:"rules,omitempty"`
	Configuration map[string]any `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

type attributeDoc struct {
	ID       string      `yaml:"id" json:"id"`
	Name     string      `yaml:"name" json:"name"`
	Type     string      `yaml:"type" json:"type"`
	Options  []optionDoc `yaml:"options,omitempty" json:"options,omitempty"`
	Required bool        `yaml:"required,omitempty" json:"required,omitempty"`
	Default  any         `yaml:"default,omitempty" json:"default,omitempty"`
}

type optionDoc struct {
	Label string `yaml:"label" json:"label"`
	Value any    `yaml:"value" json:"value"`
}

type ruleDoc struct {
	ID          string        `yaml:"id" json:"id"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        string        `yaml:"kind" json:"kind"`
	Condition   conditionDoc  `yaml:"condition" json:"condition"`
	Consequence *conditionDoc `yaml:"consequence,omitempty" json:"consequence,omitempty"`
	Priority    int           `yaml:"priority,omitempty" json:"priority,omitempty"`
	Confidence  float64       `yaml:"confidence,omitempty" json:"confidence,omitempty"`
	Approved    bool          `yaml:"approved" json:"approved"`
	CreatedAt   time.Time     `yaml:"created_at,omitempty" json:"created_at,omitempty"`
	Provenance  string        `yaml:"provenance,omitempty" json:"provenance,omitempty"`
}

type conditionDoc struct {
	Attribute string `yaml:"attribute" json:"attribute"`
	Operator  string `yaml:"operator" json:"operator"`
	Value     any    `yaml:"value,omitempty" json:"value,omitempty"`
	Values    []any  `yaml:"values,omitempty" json:"values,omitempty"`
}

func attributeFromWire(doc attributeDoc) (ir.ProductAttribute, error) {
	attr := ir.ProductAttribute{
		ID:       doc.ID,
		Name:     doc.Name,
		Type:     ir.AttributeType(doc.Type),
		Required: doc.Required,
	}
	if !ir.ValidAttributeTypes[attr.Type] {
		return attr, fmt.Errorf("attribute %q: unknown type %q", doc.ID, doc.Type)
	}
	for _, opt := range doc.Options {
		v, err := ir.FromAny(opt.Value)
		if err != nil {
			return attr, fmt.Errorf("attribute %q: option %q: %w", doc.ID, opt.Label, err)
		}
		attr.Options = append(attr.Options, ir.AttributeOption{Label: opt.Label, Value: v})
	}
	if doc.Default != nil {
		v, err := ir.FromAny(doc.Default)
		if err != nil {
			return attr, fmt.Errorf("attribute %q: default: %w", doc.ID, err)
		}
		attr.Default = v
	}
	return attr, nil
}

func attributeToWire(attr ir.ProductAttribute) attributeDoc {
	doc := attributeDoc{
		ID:       attr.ID,
		Name:     attr.Name,
		Type:     string(attr.Type),
		Required: attr.Required,
	}
	for _, opt := range attr.Options {
		doc.Options = append(doc.Options, optionDoc{Label: opt.Label, Value: valueToAny(opt.Value)})
	}
	if attr.Default != nil {
		doc.Default = valueToAny(attr.Default)
	}
	return doc
}

func ruleFromWire(doc ruleDoc) (ir.Rule, error) {
	cond, err := conditionFromWire(doc.Condition)
	if err != nil {
		return ir.Rule{}, fmt.Errorf("rule %q: condition: %w", doc.ID, err)
	}
	rule := ir.Rule{
		ID:          doc.ID,
		Description: doc.Description,
		Kind:        ir.RuleKind(doc.Kind),
		Condition:   cond,
		Priority:    doc.Priority,
		Confidence:  doc.Confidence,
		Approved:    doc.Approved,
		CreatedAt:   doc.CreatedAt,
		Provenance:  doc.Provenance,
	}
	if rule.Provenance == "" {
		rule.Provenance = ir.ProvenanceManual
	}
	if doc.Consequence != nil {
		cons, err := conditionFromWire(*doc.Consequence)
		if err != nil {
			return ir.Rule{}, fmt.Errorf("rule %q: consequence: %w", doc.ID, err)
		}
		rule.Consequence = &cons
	}
	if err := rule.CheckShape(); err != nil {
		return ir.Rule{}, err
	}
	return rule, nil
}

func ruleToWire(rule ir.Rule) ruleDoc {
	doc := ruleDoc{
		ID:          rule.ID,
		Description: rule.Description,
		Kind:        string(rule.Kind),
		Condition:   conditionToWire(rule.Condition),
		Priority:    rule.Priority,
		Confidence:  rule.Confidence,
		Approved:    rule.Approved,
		CreatedAt:   rule.CreatedAt,
		Provenance:  rule.Provenance,
	}
	if rule.Consequence != nil {
		cons := conditionToWire(*rule.Consequence)
		doc.Consequence = &cons
	}
	return doc
}

func conditionFromWire(doc conditionDoc) (ir.RuleCondition, error) {
	cond := ir.RuleCondition{
		Attribute: doc.Attribute,
		Operator:  ir.Operator(doc.Operator),
	}
	if doc.Value != nil {
		v, err := ir.FromAny(doc.Value)
		if err != nil {
			return cond, err
		}
		cond.Value = v
	}
	for _, member := range doc.Values {
		v, err := ir.FromAny(member)
		if err != nil {
			return cond, err
		}
		cond.Values = append(cond.Values, v)
	}
	return cond, nil
}

func conditionToWire(cond ir.RuleCondition) conditionDoc {
	doc := conditionDoc{
		Attribute: cond.Attribute,
		Operator:  string(cond.Operator),
	}
	if cond.Value != nil {
		doc.Value = valueToAny(cond.Value)
	}
	for _, member := range cond.Values {
		doc.Values = append(doc.Values, valueToAny(member))
	}
	return doc
}

func valueToAny(v ir.Value) any {
	switch val := v.(type) {
	case ir.Number:
		return float64(val)
	case ir.Text:
		return string(val)
	case ir.Bool:
		return bool(val)
	default:
		return nil
	}
}

// MarshalAttribute and the companions below are the document codec shared
// with the store, which persists attributes and rules as JSON columns.

func MarshalAttribute(attr ir.ProductAttribute) ([]byte, error) {
	return json.Marshal(attributeToWire(attr))
}

func UnmarshalAttribute(data []byte) (ir.ProductAttribute, error) {
	var doc attributeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return ir.ProductAttribute{}, fmt.Errorf("decoding attribute: %w", err)
	}
	return attributeFromWire(doc)
}

func MarshalRule(rule ir.Rule) ([]byte, error) {
	return json.Marshal(ruleToWire(rule))
}

func UnmarshalRule(data []byte) (ir.Rule, error) {
	var doc ruleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return ir.Rule{}, fmt.Errorf("decoding rule: %w", err)
	}
	return ruleFromWire(doc)
}

func MarshalValue(v ir.Value) ([]byte, error) {
	return json.Marshal(valueToAny(v))
}

func UnmarshalValue(data []byte) (ir.Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return ir.FromAny(raw)
}
