package harness

import (
	"context"
	"io"
	"log/slog"

	"github.com/avnishkumar80/DynamicCPQ/internal/engine"
	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
	"github.com/avnishkumar80/DynamicCPQ/internal/sat"
)

// Scenario is one self-contained validation case: a schema, a rule set,
// and a configuration to judge.
type Scenario struct {
	Name          string
	Attributes    []ir.ProductAttribute
	Rules         []ir.Rule
	Configuration ir.Configuration
}

// Result holds both engines' verdicts for one scenario.
type Result struct {
	Deterministic ir.ValidationResult
	Solver        ir.ValidationResult
}

// Agree reports whether the two engines reached the same validity verdict.
// Violation lists are not compared: the solver reports one aggregate
// violation where the evaluator localizes per rule.
func (r Result) Agree() bool {
	return r.Deterministic.Valid == r.Solver.Valid
}

// Run executes the scenario through both engines. Solver diagnostics are
// discarded; scenarios are about verdicts, not logs.
func Run(ctx context.Context, s Scenario) Result {
	validator := sat.NewValidator(sat.NewSolverContext(),
		sat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return Result{
		Deterministic: engine.Evaluate(s.Configuration, s.Rules, s.Attributes),
		Solver:        validator.Validate(ctx, s.Configuration, s.Rules, s.Attributes),
	}
}
