package cli

import (
	"fmt"
	"io"
	"strings"
)

// renderReport writes the human-readable validation report.
func renderReport(w io.Writer, report ValidationReport) {
	if report.Result.Valid {
		fmt.Fprintf(w, "✓ %s: configuration valid (%s)\n", report.Project, report.Engine)
		return
	}

	fmt.Fprintf(w, "✗ %s: configuration invalid (%s, %d violation(s))\n",
		report.Project, report.Engine, len(report.Result.Violations))
	fmt.Fprintln(w)

	for _, v := range report.Result.Violations {
		fmt.Fprintf(w, "  [%s] %s\n", v.Severity, v.Message)
		if len(v.Attributes) > 0 {
			fmt.Fprintf(w, "      attributes: %s\n", strings.Join(v.Attributes, ", "))
		}
		if v.Provenance != "" {
			fmt.Fprintf(w, "      provenance: %s\n", v.Provenance)
		}
	}
}
