package ir

import (
	"fmt"
	"slices"
	"time"
)

// AttributeType classifies an attribute's domain.
type AttributeType string

const (
	AttributeNumber  AttributeType = "number"
	AttributeString  AttributeType = "string"
	AttributeBoolean AttributeType = "boolean"
)

// ValidAttributeTypes defines the allowed attribute domain types.
var ValidAttributeTypes = map[AttributeType]bool{
	AttributeNumber:  true,
	AttributeString:  true,
	AttributeBoolean: true,
}

// AttributeOption is one declared choice for an enumerated attribute:
// a display label plus the literal value it stands for.
type AttributeOption struct {
	Label string `json:"label" yaml:"label"`
	Value Value  `json:"value" yaml:"value"`
}

// ProductAttribute describes one configurable dimension of the product.
//
// IDs are unique across a schema. Options, when present, declare the
// expected value universe - but nothing enforces that structurally, so the
// validators and the domain encoder must tolerate out-of-domain literals.
type ProductAttribute struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Type     AttributeType     `json:"type" yaml:"type"`
	Options  []AttributeOption `json:"options,omitempty" yaml:"options,omitempty"`
	Required bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Default  Value             `json:"default,omitempty" yaml:"default,omitempty"`
}

// Configuration maps attribute IDs to assigned values. Absence of a key
// means "unset", which is distinct from an empty value only in that both
// are treated as missing - see ir.IsSet.
type Configuration map[string]Value

// Get returns the value for an attribute ID, or Unset when the key is
// absent. Callers never need to distinguish nil from missing.
func (c Configuration) Get(id string) Value {
	if v, ok := c[id]; ok && v != nil {
		return v
	}
	return Unset{}
}

// SetIDs returns the attribute IDs that currently hold a set value,
// in sorted order for deterministic violation reporting.
func (c Configuration) SetIDs() []string {
	ids := make([]string, 0, len(c))
	for id, v := range c {
		if IsSet(v) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Operator is a rule condition comparison operator.
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpIn           Operator = "in"
)

// ValidOperators defines the allowed condition operators.
var ValidOperators = map[Operator]bool{
	OpGreater:      true,
	OpGreaterEqual: true,
	OpLess:         true,
	OpLessEqual:    true,
	OpEqual:        true,
	OpNotEqual:     true,
	OpIn:           true,
}

// RuleCondition is an atomic comparison between one attribute and a
// literal. For the "in" operator Values holds the membership sequence and
// Value is ignored; for every other operator Value holds the scalar.
type RuleCondition struct {
	Attribute string   `json:"attribute" yaml:"attribute"`
	Operator  Operator `json:"operator" yaml:"operator"`
	Value     Value    `json:"value,omitempty" yaml:"value,omitempty"`
	Values    []Value  `json:"values,omitempty" yaml:"values,omitempty"`
}

// RuleKind distinguishes the two rule shapes.
type RuleKind string

const (
	// KindImplication: if the condition holds, the consequence must hold.
	KindImplication RuleKind = "implication"
	// KindExclusion: if the condition holds, the configuration is invalid.
	KindExclusion RuleKind = "exclusion"
)

// ProvenanceManual marks rules authored by hand rather than extracted
// from a source document.
const ProvenanceManual = "manual"

// Rule is one declarative constraint over the configuration.
//
// A rule participates in validation only while Approved is true; drafts
// (extracted candidates awaiting review) are invisible to both validators.
// Confidence and Provenance are carried through from the extraction
// collaborator unvalidated.
type Rule struct {
	ID          string         `json:"id" yaml:"id"`
	Description string         `json:"description" yaml:"description"`
	Kind        RuleKind       `json:"kind" yaml:"kind"`
	Condition   RuleCondition  `json:"condition" yaml:"condition"`
	Consequence *RuleCondition `json:"consequence,omitempty" yaml:"consequence,omitempty"`
	Priority    int            `json:"priority,omitempty" yaml:"priority,omitempty"`
	Confidence  float64        `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Approved    bool           `json:"approved" yaml:"approved"`
	CreatedAt   time.Time      `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Provenance  string         `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// CheckShape verifies the kind/consequence invariant: an implication
// requires a consequence, an exclusion must not carry one. Both validators
// treat a rule failing this check as malformed and skip it.
func (r Rule) CheckShape() error {
	switch r.Kind {
	case KindImplication:
		if r.Consequence == nil {
			return fmt.Errorf("rule %s: implication requires a consequence", r.ID)
		}
	case KindExclusion:
		if r.Consequence != nil {
			return fmt.Errorf("rule %s: exclusion must not have a consequence", r.ID)
		}
	default:
		return fmt.Errorf("rule %s: unknown kind %q", r.ID, r.Kind)
	}
	if !ValidOperators[r.Condition.Operator] {
		return fmt.Errorf("rule %s: unknown operator %q", r.ID, r.Condition.Operator)
	}
	if r.Consequence != nil && !ValidOperators[r.Consequence.Operator] {
		return fmt.Errorf("rule %s: unknown consequence operator %q", r.ID, r.Consequence.Operator)
	}
	return nil
}

// AttributeIndex builds an ID lookup over a schema. Duplicate IDs keep the
// first declaration, mirroring the uniqueness invariant.
func AttributeIndex(attrs []ProductAttribute) map[string]ProductAttribute {
	idx := make(map[string]ProductAttribute, len(attrs))
	for _, a := range attrs {
		if _, exists := idx[a.ID]; !exists {
			idx[a.ID] = a
		}
	}
	return idx
}
