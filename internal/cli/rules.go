package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
	"github.com/avnishkumar80/DynamicCPQ/internal/store"
)

// RulesOptions holds flags for the rules subcommands.
type RulesOptions struct {
	*RootOptions
	Database string
}

// NewRulesCommand creates the rules command group.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and manage a project's stored rules",
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newRulesListCommand(opts))
	cmd.AddCommand(newRulesApproveCommand(opts))

	return cmd
}

func newRulesListCommand(opts *RulesOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's rules, drafts included",
		Long: `List every rule stored for a project in declaration order.

Drafts are marked; only approved rules take part in validation.

Example:
  cpq rules list chiller --db ./cpq.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesList(opts, args[0], cmd)
		},
	}
}

func newRulesApproveCommand(opts *RulesOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <project-id> <rule-id>",
		Short: "Approve a draft rule",
		Long: `Mark a draft rule as approved, making it visible to validation.

Example:
  cpq rules approve chiller 7f3a90c2-... --db ./cpq.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesApprove(opts, args[0], args[1], cmd)
		},
	}
}

func runRulesList(opts *RulesOptions, projectID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	rules, err := st.ListRules(cmd.Context(), projectID)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing rules", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(rules)
	}
	if len(rules) == 0 {
		fmt.Fprintf(formatter.Writer, "no rules stored for project %q\n", projectID)
		return nil
	}
	for _, rule := range rules {
		fmt.Fprintln(formatter.Writer, formatRuleLine(rule))
	}
	return nil
}

func formatRuleLine(rule ir.Rule) string {
	status := "draft"
	if rule.Approved {
		status = "approved"
	}
	line := fmt.Sprintf("%-10s %-11s %s", status, rule.Kind, rule.ID)
	if rule.Description != "" {
		line += "  " + rule.Description
	}
	if !rule.Approved {
		line += fmt.Sprintf("  (confidence %.2f", rule.Confidence)
		if rule.Provenance != "" && rule.Provenance != ir.ProvenanceManual {
			line += ", from " + rule.Provenance
		}
		line += ")"
	}
	return line
}

func runRulesApprove(opts *RulesOptions, projectID, ruleID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	if err := st.ApproveRule(cmd.Context(), projectID, ruleID); err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "approving rule", err)
	}

	return formatter.Success(fmt.Sprintf("rule %s approved", ruleID))
}
