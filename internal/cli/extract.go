package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/avnishkumar80/DynamicCPQ/internal/extract"
	"github.com/avnishkumar80/DynamicCPQ/internal/project"
	"github.com/avnishkumar80/DynamicCPQ/internal/store"
)

// ExtractOptions holds flags for the extract command.
type ExtractOptions struct {
	*RootOptions
	Database string
	ID       string
	Source   string
	Model    string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "extract <project.yaml> <text-file>",
		Short: "Extract draft rules from requirement text",
		Long: `Ask the language model for candidate rules over the project's attributes.

Extracted rules are drafts: they carry a confidence score and the source
file as provenance, and stay invisible to validation until approved. With
--db the drafts are appended to the stored project; otherwise they are
printed.

Requires OPENAI_API_KEY.

Example:
  cpq extract chiller.yaml datasheet.txt
  cpq extract chiller.yaml datasheet.txt --db ./cpq.db --id chiller`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "append drafts to this SQLite database")
	cmd.Flags().StringVar(&opts.ID, "id", "", "project id in the database (defaults to the project file name)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "provenance label (defaults to the text file name)")
	cmd.Flags().StringVar(&opts.Model, "model", extract.DefaultModel, "completion model")

	return cmd
}

// newChatClient builds the OpenAI client from the environment.
func newChatClient(formatter *OutputFormatter) (*openai.Client, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		_ = formatter.Error("E001", "OPENAI_API_KEY is not set", nil)
		return nil, NewExitError(ExitCommandError, "OPENAI_API_KEY is not set")
	}
	return openai.NewClient(key), nil
}

func runExtract(opts *ExtractOptions, projectPath, textPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	proj, err := loadProjectArg(projectPath, formatter)
	if err != nil {
		return err
	}
	text, err := os.ReadFile(textPath)
	if err != nil {
		_ = formatter.Error(project.ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading text", err)
	}
	client, err := newChatClient(formatter)
	if err != nil {
		return err
	}

	source := opts.Source
	if source == "" {
		source = filepath.Base(textPath)
	}

	extractor := extract.NewExtractor(client, extract.WithModel(opts.Model))
	drafts, err := extractor.Extract(cmd.Context(), source, string(text), proj.Attributes)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "extracting rules", err)
	}

	formatter.VerboseLog("extracted %d draft(s) from %s", len(drafts), source)

	if opts.Database != "" {
		id := opts.ID
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
		}
		st, err := store.Open(opts.Database)
		if err != nil {
			_ = formatter.Error("E001", err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening database", err)
		}
		defer st.Close()
		if err := st.AddDraftRules(cmd.Context(), id, drafts); err != nil {
			_ = formatter.Error("E001", err.Error(), nil)
			return WrapExitError(ExitCommandError, "storing drafts", err)
		}
		return formatter.Success(fmt.Sprintf("added %d draft(s) to project %q", len(drafts), id))
	}

	if formatter.Format == "json" {
		return formatter.Success(drafts)
	}
	if len(drafts) == 0 {
		fmt.Fprintln(formatter.Writer, "no rules extracted")
		return nil
	}
	for _, draft := range drafts {
		fmt.Fprintln(formatter.Writer, formatRuleLine(draft))
	}
	return nil
}
