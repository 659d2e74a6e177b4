package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/avnishkumar80/DynamicCPQ/internal/project"
	"github.com/avnishkumar80/DynamicCPQ/internal/sat"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Set []string
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <project.yaml>",
		Short: "Check rule-set satisfiability with the SAT validator",
		Long: `Validate via the SAT solver instead of rule-by-rule evaluation.

Encodes the approved rules and the configuration as a boolean formula and
asks whether any complete configuration extends the current one. An
unsatisfiable formula with an empty configuration means the rule set
itself is contradictory.

Example:
  cpq solve chiller.yaml
  cpq solve chiller.yaml --set cooling_unit=ACM-600`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "override a configuration value (attr=value, repeatable)")

	return cmd
}

func runSolve(opts *SolveOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	proj, err := loadProjectArg(path, formatter)
	if err != nil {
		return err
	}
	if err := applyOverrides(proj, opts.Set); err != nil {
		_ = formatter.Error(project.ErrCodeBadConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --set override", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Verbose {
		log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	validator := sat.NewValidator(sat.NewSolverContext(), sat.WithLogger(log))
	result := validator.Validate(cmd.Context(), proj.Configuration, proj.Rules, proj.Attributes)
	return outputResult(formatter, proj.Name, "solver", result)
}
