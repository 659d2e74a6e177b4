package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avnishkumar80/DynamicCPQ/internal/engine"
	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
	"github.com/avnishkumar80/DynamicCPQ/internal/project"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Set []string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <project.yaml>",
		Short: "Validate a configuration against its approved rules",
		Long: `Validate the project's configuration with the deterministic evaluator.

Checks required attributes and every approved rule in declaration order.
The configuration embedded in the project document is used as-is; --set
overrides individual values.

Example:
  cpq validate chiller.yaml
  cpq validate chiller.yaml --set motor_hp=15 --set voltage=480`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "override a configuration value (attr=value, repeatable)")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	proj, err := loadProjectArg(path, formatter)
	if err != nil {
		return err
	}
	if err := applyOverrides(proj, opts.Set); err != nil {
		_ = formatter.Error(project.ErrCodeBadConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --set override", err)
	}

	formatter.VerboseLog("evaluating %d rule(s) against %d configuration value(s)",
		len(proj.Rules), len(proj.Configuration.SetIDs()))

	result := engine.Evaluate(proj.Configuration, proj.Rules, proj.Attributes)
	return outputResult(formatter, proj.Name, "deterministic", result)
}

// ValidationReport is the JSON payload of validate and solve.
type ValidationReport struct {
	Project string              `json:"project"`
	Engine  string              `json:"engine"`
	Result  ir.ValidationResult `json:"result"`
}

// loadProjectArg loads a project document, turning import errors into
// formatted output plus a command-level exit error.
func loadProjectArg(path string, formatter *OutputFormatter) (*project.Project, error) {
	proj, errs := project.Load(path, project.LoadModeFailFast)
	if len(errs) == 0 {
		return proj, nil
	}
	var loadErr *project.LoadError
	if errors.As(errs[0], &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
	} else {
		_ = formatter.Error(project.ErrCodeDecode, errs[0].Error(), nil)
	}
	return nil, WrapExitError(ExitCommandError, "loading project", errs[0])
}

// applyOverrides merges --set flags into the project configuration,
// coercing each value to the attribute's declared type.
func applyOverrides(proj *project.Project, sets []string) error {
	if len(sets) == 0 {
		return nil
	}
	attrs := ir.AttributeIndex(proj.Attributes)
	if proj.Configuration == nil {
		proj.Configuration = ir.Configuration{}
	}
	for _, set := range sets {
		id, raw, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("malformed override %q: want attr=value", set)
		}
		attr, ok := attrs[id]
		if !ok {
			return fmt.Errorf("unknown attribute %q", id)
		}
		v, err := coerceValue(attr.Type, raw)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", id, err)
		}
		proj.Configuration[id] = v
	}
	return nil
}

func coerceValue(typ ir.AttributeType, raw string) (ir.Value, error) {
	switch typ {
	case ir.AttributeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", raw)
		}
		return ir.Number(f), nil
	case ir.AttributeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", raw)
		}
		return ir.Bool(b), nil
	default:
		return ir.NewText(raw), nil
	}
}

// outputResult renders a validation result and maps invalid to exit code 1.
func outputResult(formatter *OutputFormatter, projectName, engineName string, result ir.ValidationResult) error {
	report := ValidationReport{Project: projectName, Engine: engineName, Result: result}

	if formatter.Format == "json" {
		if result.Valid {
			return formatter.Success(report)
		}
		first := result.Violations[0]
		resp := CLIResponse{
			Status: "error",
			Data:   report,
			Error:  &CLIError{Code: first.RuleID, Message: first.Message},
		}
		enc := json.NewEncoder(formatter.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d violation(s)", len(result.Violations)))
	}

	renderReport(formatter.Writer, report)
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d violation(s)", len(result.Violations)))
	}
	return nil
}
