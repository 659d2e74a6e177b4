package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avnishkumar80/DynamicCPQ/internal/project"
	"github.com/avnishkumar80/DynamicCPQ/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	ID       string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <project.yaml>",
		Short: "Import a project document into the database",
		Long: `Validate a YAML project document against the schema and persist it.

Import is all-or-nothing: every problem in the document is reported and
nothing is written unless the document is clean. Re-importing replaces the
stored project wholesale.

Example:
  cpq import chiller.yaml --db ./cpq.db
  cpq import chiller.yaml --db ./cpq.db --id chiller-v2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.ID, "id", "", "project id (defaults to the file name without extension)")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	proj, errs := project.Load(path, project.LoadModeCollectAll)
	if len(errs) > 0 {
		return outputImportErrors(formatter, errs)
	}

	id := opts.ID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	if err := st.SaveProject(cmd.Context(), id, proj); err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "saving project", err)
	}

	return formatter.Success(fmt.Sprintf("imported project %q (%d attributes, %d rules)",
		id, len(proj.Attributes), len(proj.Rules)))
}

// importErrorDoc is one import error in the JSON report.
type importErrorDoc struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

func outputImportErrors(formatter *OutputFormatter, errs []error) error {
	docs := make([]importErrorDoc, 0, len(errs))
	for _, err := range errs {
		var loadErr *project.LoadError
		if errors.As(err, &loadErr) {
			doc := importErrorDoc{Code: loadErr.Code, Message: loadErr.Message}
			if loadErr.Pos.IsValid() {
				doc.File = loadErr.Pos.Filename()
				doc.Line = loadErr.Pos.Line()
			}
			docs = append(docs, doc)
			continue
		}
		docs = append(docs, importErrorDoc{Code: project.ErrCodeDecode, Message: err.Error()})
	}

	if formatter.Format == "json" {
		_ = formatter.Error(docs[0].Code, docs[0].Message, docs)
		return NewExitError(ExitCommandError, fmt.Sprintf("import failed with %d error(s)", len(docs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Import failed")
	fmt.Fprintln(formatter.Writer)
	for _, doc := range docs {
		if doc.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", doc.File, doc.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", doc.Code, doc.Message)
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("import failed with %d error(s)", len(docs)))
}

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Output   string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a stored project as a YAML document",
		Long: `Write a stored project back out as a round-trippable YAML document.

Example:
  cpq export chiller --db ./cpq.db -o chiller.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (defaults to stdout)")

	return cmd
}

func runExport(opts *ExportOptions, projectID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	proj, err := st.LoadProject(cmd.Context(), projectID)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading project", err)
	}

	data, err := project.Marshal(proj)
	if err != nil {
		_ = formatter.Error("E003", err.Error(), nil)
		return WrapExitError(ExitCommandError, "encoding project", err)
	}

	if opts.Output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "writing output", err)
	}
	return formatter.Success(fmt.Sprintf("exported project %q to %s", projectID, opts.Output))
}
