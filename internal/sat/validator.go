package sat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crillab/gophersat/bf"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// Validator proves or refutes global consistency of a configuration
// against the approved rule set.
//
// NOT reentrant: the solver context is shared state and only one check may
// be in flight at a time. The guard enforces this by dropping overlapping
// requests (see DropGuard). There is no cancellation: once a check starts
// it runs to completion.
type Validator struct {
	sctx  *SolverContext
	guard Guard
	log   *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger for skipped-rule and busy-drop diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(v *Validator) {
		v.log = log
	}
}

// WithGuard replaces the admission policy. The default DropGuard rejects
// overlapping requests; a replacement must still guarantee single-flight.
func WithGuard(g Guard) Option {
	return func(v *Validator) {
		v.guard = g
	}
}

// NewValidator creates a validator owning the given solver context.
// Production wires exactly one context for the process lifetime; tests
// construct as many independent pairs as they like.
func NewValidator(sctx *SolverContext, opts ...Option) *Validator {
	v := &Validator{
		sctx:  sctx,
		guard: &DropGuard{},
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks whether the configuration admits any assignment
// consistent with the approved rules.
//
// When a check is already in flight the request is dropped - not queued -
// and an empty valid result is returned without touching the solver.
// A solver or translation failure yields an invalid result with a
// system-level violation; a crash is never reported as "valid".
//
// Numeric values are encoded truncated toward zero (see Encoder), so
// verdicts on rules that hinge on sub-integer detail can differ from the
// deterministic evaluator's full-float comparison.
func (v *Validator) Validate(ctx context.Context, cfg ir.Configuration, rules []ir.Rule, attrs []ir.ProductAttribute) ir.ValidationResult {
	if !v.guard.TryAcquire() {
		v.log.Warn("solver busy, dropping validation request")
		return ir.NewValidationResult(nil)
	}
	defer v.guard.Release()

	if err := ctx.Err(); err != nil {
		// A caller that already gave up never gets a silent "valid".
		return systemFailure(cfg, err)
	}

	satisfiable, err := v.solve(cfg, rules, attrs)
	if err != nil {
		return systemFailure(cfg, err)
	}
	if satisfiable {
		return ir.NewValidationResult(nil)
	}

	// The solver cannot localize which rules conflict; report one
	// aggregate violation implicating every currently-set attribute.
	return ir.NewValidationResult([]ir.ValidationViolation{{
		RuleID:     ir.RuleIDSolver,
		Message:    "configuration is inconsistent: no assignment satisfies all approved rules",
		Severity:   ir.SeverityError,
		Attributes: cfg.SetIDs(),
	}})
}

// solve builds the formula and runs the solver. Ordering matters: the
// configuration must be encoded before rule formulas are built so that
// configured literals are part of each attribute's universe.
func (v *Validator) solve(cfg ir.Configuration, rules []ir.Rule, attrs []ir.ProductAttribute) (satisfiable bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("solver crashed: %v", r)
		}
	}()

	v.sctx.ensureReady()

	attrIndex := ir.AttributeIndex(attrs)
	checked := v.sctx.prepareRules(rules, attrIndex, v.log)

	enc := NewEncoder(attrs)
	seedLiterals(enc, checked)
	assumptions := assumptionFormulas(enc, cfg, v.log)

	formulas := make([]bf.Formula, 0, len(checked)+len(attrs)+len(assumptions))
	for _, r := range checked {
		formulas = append(formulas, ruleFormula(enc, r))
	}
	formulas = append(formulas, domainFormula(enc, attrs)...)
	formulas = append(formulas, assumptions...)

	if len(formulas) == 0 {
		// Nothing to assert: trivially satisfiable.
		return true, nil
	}

	model := bf.Solve(bf.And(formulas...))
	return model != nil, nil
}

func systemFailure(cfg ir.Configuration, err error) ir.ValidationResult {
	return ir.NewValidationResult([]ir.ValidationViolation{{
		RuleID:     ir.RuleIDSolver,
		Message:    fmt.Sprintf("solver unavailable: %v", err),
		Severity:   ir.SeverityError,
		Attributes: cfg.SetIDs(),
	}})
}
