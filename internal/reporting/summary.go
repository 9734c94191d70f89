// Package reporting formats end-of-run summaries and the aggregate
// warnings each tool surfaces once, instead of per-record noise.
package reporting

import (
	"fmt"

	"github.com/spboyer/locbench/internal/instances"
	"github.com/spboyer/locbench/internal/trajectory"
)

// FormatBuildSummary renders the prepare run's closing line.
func FormatBuildSummary(s instances.BuildSummary, outputPath string) string {
	return fmt.Sprintf("Wrote %d instances to %s", s.Written, outputPath)
}

// BuildWarnings returns the diagnostic lines a prepare run should
// print to stderr before its summary. Empty when nothing went wrong.
func BuildWarnings(s instances.BuildSummary) []string {
	var warnings []string
	if s.SkippedMissing > 0 {
		warnings = append(warnings, fmt.Sprintf("Warning: skipped %d instances with missing repos.", s.SkippedMissing))
	}
	return warnings
}

// FormatConvertSummary renders the parse run's closing line.
func FormatConvertSummary(s trajectory.ConvertSummary, outputPath string) string {
	return fmt.Sprintf("Wrote %d loc outputs to %s", s.Written, outputPath)
}

// ConvertWarnings returns the aggregate diagnostics for a parse run:
// one line for missing payloads, one for skipped files.
func ConvertWarnings(s trajectory.ConvertSummary) []string {
	var warnings []string
	if s.MissingPayload > 0 {
		warnings = append(warnings, fmt.Sprintf("Warning: %d instances had no JSON payload.", s.MissingPayload))
	}
	if s.SkippedInvalid > 0 {
		warnings = append(warnings, fmt.Sprintf("Warning: skipped %d invalid trajectory files.", s.SkippedInvalid))
	}
	return warnings
}
