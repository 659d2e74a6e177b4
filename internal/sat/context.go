package sat

import (
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"slices"
	"sync"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// ContextState tracks solver context initialization.
type ContextState int

const (
	StateUninitialized ContextState = iota
	StateInitializing
	StateReady
)

// SolverContext is the process-lifetime solver handle: lazily constructed
// on first use, never torn down. It owns the prepared-rule cache that lets
// one context serve many configurations without re-checking an unchanged
// rule set on every call.
//
// It is an explicitly owned value passed into the Validator, not a package
// global, so tests construct independent instances freely.
type SolverContext struct {
	mu       sync.Mutex
	state    ContextState
	prepared map[uint64][]ir.Rule // rule-set+schema fingerprint -> checked rules
}

// NewSolverContext creates an uninitialized context. Initialization happens
// on first use and is idempotent.
func NewSolverContext() *SolverContext {
	return &SolverContext{state: StateUninitialized}
}

// ensureReady performs the lazy one-time initialization. It happens-before
// any constraint preparation on this context.
func (c *SolverContext) ensureReady() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateReady {
		return
	}
	c.state = StateInitializing
	c.prepared = make(map[uint64][]ir.Rule)
	c.state = StateReady
}

// State reports the context lifecycle state.
func (c *SolverContext) State() ContextState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// prepareRules returns the checked (approved, translatable) subset of the
// rule set, from cache when the same rule set was seen before under the
// same schema. Untranslatable rules are logged on the first encounter only.
func (c *SolverContext) prepareRules(rules []ir.Rule, attrs map[string]ir.ProductAttribute, log *slog.Logger) []ir.Rule {
	fp := fingerprintRuleSet(rules, attrs)
	if fp == 0 {
		return checkRules(rules, attrs, log)
	}

	c.mu.Lock()
	cached, hit := c.prepared[fp]
	c.mu.Unlock()
	if hit {
		return cached
	}

	checked := checkRules(rules, attrs, log)

	c.mu.Lock()
	c.prepared[fp] = checked
	c.mu.Unlock()
	return checked
}

// fingerprintRuleSet hashes the rule set together with the attribute IDs it
// is checked against. Checking filters on attribute existence, so the same
// rule set under a grown or shrunk schema must not share a cache entry.
// Fingerprinting is best-effort: a marshal failure just disables caching
// for that call.
func fingerprintRuleSet(rules []ir.Rule, attrs map[string]ir.ProductAttribute) uint64 {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	for _, r := range rules {
		if err := enc.Encode(r); err != nil {
			return 0
		}
	}
	ids := make([]string, 0, len(attrs))
	for id := range attrs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
