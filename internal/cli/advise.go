package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avnishkumar80/DynamicCPQ/internal/engine"
	"github.com/avnishkumar80/DynamicCPQ/internal/extract"
	"github.com/avnishkumar80/DynamicCPQ/internal/project"
)

// AdviseOptions holds flags for the advise command.
type AdviseOptions struct {
	*RootOptions
	Set   []string
	Model string
}

// NewAdviseCommand creates the advise command.
func NewAdviseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdviseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "advise <project.yaml>",
		Short: "Suggest fixes for an invalid configuration",
		Long: `Validate the configuration, then ask the language model how to fix it.

The violations are passed to the model verbatim and the answer is printed
unparsed. A valid configuration skips the model call.

Requires OPENAI_API_KEY.

Example:
  cpq advise chiller.yaml --set cooling_capacity=4000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdvise(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "override a configuration value (attr=value, repeatable)")
	cmd.Flags().StringVar(&opts.Model, "model", extract.DefaultModel, "completion model")

	return cmd
}

func runAdvise(opts *AdviseOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	proj, err := loadProjectArg(path, formatter)
	if err != nil {
		return err
	}
	if err := applyOverrides(proj, opts.Set); err != nil {
		_ = formatter.Error(project.ErrCodeBadConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --set override", err)
	}

	result := engine.Evaluate(proj.Configuration, proj.Rules, proj.Attributes)
	if result.Valid {
		return formatter.Success(fmt.Sprintf("%s: configuration valid, nothing to advise", proj.Name))
	}

	client, err := newChatClient(formatter)
	if err != nil {
		return err
	}

	advisor := extract.NewAdvisor(client, extract.WithModel(opts.Model))
	guidance, err := advisor.Advise(cmd.Context(), proj.Configuration, result.Violations)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "requesting advice", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(struct {
			Project    string `json:"project"`
			Violations int    `json:"violations"`
			Guidance   string `json:"guidance"`
		}{proj.Name, len(result.Violations), guidance})
	}

	renderReport(formatter.Writer, ValidationReport{Project: proj.Name, Engine: "deterministic", Result: result})
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintln(formatter.Writer, guidance)
	return nil
}
