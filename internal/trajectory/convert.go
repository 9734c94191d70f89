package trajectory

import (
	"fmt"
	"io"
	"regexp"

	"github.com/spboyer/locbench/internal/extract"
	"github.com/spboyer/locbench/internal/models"
	"github.com/spboyer/locbench/internal/normalize"
)

// RecordWriter is the sink for converted localization results.
type RecordWriter interface {
	Write(v any) error
}

// ConvertOptions controls which trajectories produce output.
type ConvertOptions struct {
	// Filter, when set, restricts conversion to matching instance ids.
	Filter *regexp.Regexp
	// Limit, when positive, stops after that many emitted records.
	Limit int
	// Diag receives per-file diagnostics (skipped files). Usually
	// os.Stderr.
	Diag io.Writer
}

// ConvertSummary reports run-scoped tallies. These are diagnostic only
// and never affect output correctness.
type ConvertSummary struct {
	Written        int
	MissingPayload int
	SkippedInvalid int
}

// ConvertAll processes trajectory files in order, emitting one
// localization result per file whose instance id matches a benchmark
// record. Files with no matching record are silently excluded; files
// with invalid JSON are skipped with a diagnostic and the run
// continues.
func ConvertAll(paths []string, records map[string]models.BenchmarkRecord, w RecordWriter, opts ConvertOptions) (ConvertSummary, error) {
	var summary ConvertSummary

	for _, path := range paths {
		instanceID := InstanceID(path)
		rec, known := records[instanceID]
		if !known {
			continue
		}
		if opts.Filter != nil && !opts.Filter.MatchString(instanceID) {
			continue
		}

		traj, err := Load(path)
		if err != nil {
			summary.SkippedInvalid++
			if opts.Diag != nil {
				fmt.Fprintf(opts.Diag, "Skipping invalid trajectory: %s\n", path)
			}
			continue
		}

		result, foundPayload := Convert(instanceID, rec, traj)
		if !foundPayload {
			summary.MissingPayload++
		}

		if err := w.Write(result); err != nil {
			return summary, fmt.Errorf("writing record for %s: %w", instanceID, err)
		}
		summary.Written++
		if opts.Limit > 0 && summary.Written >= opts.Limit {
			break
		}
	}

	return summary, nil
}

// Convert turns one trajectory into a localization result. Steps are
// scanned from most recent backward; the first step whose response
// yields a payload wins, so the agent's final answer takes precedence
// over earlier drafts. When no step yields a payload the last step's
// raw response is recorded with empty result sets.
func Convert(instanceID string, rec models.BenchmarkRecord, traj *Trajectory) (models.LocalizationResult, bool) {
	var payload map[string]any
	var rawResponse string

	for i := len(traj.Steps) - 1; i >= 0; i-- {
		response := traj.Steps[i].Response
		if parsed, _, ok := extract.Extract(response); ok {
			payload = parsed
			rawResponse = response
			break
		}
	}

	found := payload != nil
	if !found {
		if n := len(traj.Steps); n > 0 {
			rawResponse = traj.Steps[n-1].Response
		}
		payload = map[string]any{}
	}

	files, modules, entities := normalize.Fields(payload)

	rawOutput := []string{}
	if rawResponse != "" {
		rawOutput = []string{rawResponse}
	}

	return models.LocalizationResult{
		InstanceID:    instanceID,
		FoundFiles:    files,
		FoundModules:  modules,
		FoundEntities: entities,
		RawOutput:     rawOutput,
		MetaData:      rec.Meta(),
	}, found
}
