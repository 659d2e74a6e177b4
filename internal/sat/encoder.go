package sat

import (
	"fmt"
	"slices"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// Coded pairs an integer code with the literal it stands for.
type Coded struct {
	Code  int
	Value ir.Value
}

// Encoder assigns each attribute an injective mapping from literal value to
// a positive integer code. Codes 1..N are pre-seeded from the attribute's
// declared options in declaration order; literals first seen in a rule or
// configuration get the next unused code lazily. Numeric attributes bypass
// encoding: the raw number, truncated toward zero, is the code.
//
// Encoder state is local to one validation call. Code assignment order is
// stable within a call, which is all correctness requires; numeric code
// values may differ across calls.
type Encoder struct {
	attrs  map[string]ir.ProductAttribute
	codes  map[string]map[string]int   // attribute id -> canonical key -> code
	values map[string]map[int]ir.Value // attribute id -> code -> representative literal
	next   map[string]int
}

// NewEncoder builds an encoder over the schema, pre-seeding codes from
// declared options.
func NewEncoder(attrs []ir.ProductAttribute) *Encoder {
	e := &Encoder{
		attrs:  ir.AttributeIndex(attrs),
		codes:  make(map[string]map[string]int),
		values: make(map[string]map[int]ir.Value),
		next:   make(map[string]int),
	}
	for _, a := range attrs {
		if a.Type == ir.AttributeNumber {
			continue
		}
		for _, opt := range a.Options {
			// Seeding can only fail on an unset option value; those are
			// simply not part of the universe.
			_, _ = e.Code(a.ID, opt.Value)
		}
	}
	return e
}

// Code returns the integer code for a value of the given attribute,
// assigning a fresh code if the literal has not been seen before.
func (e *Encoder) Code(attrID string, v ir.Value) (int, error) {
	attr, ok := e.attrs[attrID]
	if !ok {
		return 0, fmt.Errorf("unknown attribute %q", attrID)
	}
	if !ir.IsSet(v) {
		return 0, fmt.Errorf("attribute %q: cannot encode unset value", attrID)
	}

	if attr.Type == ir.AttributeNumber {
		n, numOK := ir.AsNumber(v)
		if !numOK {
			return 0, fmt.Errorf("attribute %q: value %q has no numeric reading", attrID, ir.Key(v))
		}
		code := ir.TruncateToInt(n)
		e.record(attrID, code, ir.Number(code))
		return code, nil
	}

	key := canonicalKey(attr, v)
	if byKey, exists := e.codes[attrID]; exists {
		if code, seen := byKey[key]; seen {
			return code, nil
		}
	} else {
		e.codes[attrID] = make(map[string]int)
	}

	e.next[attrID]++
	code := e.next[attrID]
	e.codes[attrID][key] = code
	e.record(attrID, code, v)
	return code, nil
}

// Decode returns the literal a code stands for, for violation explanations.
func (e *Encoder) Decode(attrID string, code int) (ir.Value, bool) {
	v, ok := e.values[attrID][code]
	return v, ok
}

// Universe returns every (code, literal) pair observed for an attribute,
// sorted by code for deterministic formula construction. Empty for
// attributes no rule, option, or configuration entry mentions.
func (e *Encoder) Universe(attrID string) []Coded {
	byCode := e.values[attrID]
	members := make([]Coded, 0, len(byCode))
	for code, v := range byCode {
		members = append(members, Coded{Code: code, Value: v})
	}
	slices.SortFunc(members, func(a, b Coded) int { return a.Code - b.Code })
	return members
}

func (e *Encoder) record(attrID string, code int, v ir.Value) {
	if e.values[attrID] == nil {
		e.values[attrID] = make(map[int]ir.Value)
	}
	if _, seen := e.values[attrID][code]; !seen {
		e.values[attrID][code] = v
	}
}

// canonicalKey resolves coercion before keying so that loosely-equal
// literals share a code: Number(5) and Text("5") key identically, and
// boolean attributes fold 1/0 onto true/false.
func canonicalKey(attr ir.ProductAttribute, v ir.Value) string {
	if attr.Type == ir.AttributeBoolean {
		if n, ok := ir.AsNumber(v); ok {
			return ir.Key(ir.Bool(n != 0))
		}
	}
	return ir.Key(v)
}
