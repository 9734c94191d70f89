// Package instances turns benchmark records into agent-runnable task
// instances backed by local repository mirrors.
package instances

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spboyer/locbench/internal/models"
	"github.com/spboyer/locbench/internal/utils"
)

// RecordWriter is the sink for emitted task instances.
type RecordWriter interface {
	Write(v any) error
}

// BuildOptions controls instance emission.
type BuildOptions struct {
	// RepoRoot is the directory holding local repo mirrors.
	RepoRoot string
	// ImageName is an opaque deployment image identifier copied onto
	// every instance.
	ImageName string
	// Filter, when set, restricts emission to matching instance ids.
	Filter *regexp.Regexp
	// Limit, when positive, stops after that many emitted instances.
	Limit int
	// SkipMissing drops records whose repo mirror is absent instead of
	// failing the run.
	SkipMissing bool
}

// BuildSummary reports what a build run did. MissingRepos is populated
// only when SkipMissing is off; the caller escalates it to a run-level
// failure after the full scan so the whole list gets reported.
type BuildSummary struct {
	Written        int
	MissingRepos   []string
	SkippedMissing int
}

// RepoPath resolves a repo slug to its local mirror path: every '/' in
// the slug becomes '_' under the root.
func RepoPath(repoRoot, repoSlug string) string {
	return filepath.Join(repoRoot, strings.ReplaceAll(repoSlug, "/", "_"))
}

// Build emits one task instance per surviving record. Records without
// an instance_id or repo slug are skipped outright.
func Build(records []models.BenchmarkRecord, w RecordWriter, opts BuildOptions) (BuildSummary, error) {
	var summary BuildSummary

	for _, rec := range records {
		if rec.InstanceID == "" {
			continue
		}
		if opts.Filter != nil && !opts.Filter.MatchString(rec.InstanceID) {
			continue
		}
		if rec.Repo == "" {
			continue
		}

		repoPath := RepoPath(opts.RepoRoot, rec.Repo)
		if !utils.DirExists(repoPath) {
			if opts.SkipMissing {
				summary.SkippedMissing++
				continue
			}
			summary.MissingRepos = append(summary.MissingRepos, rec.Repo)
			continue
		}

		if err := w.Write(models.NewTaskInstance(rec, repoPath, opts.ImageName)); err != nil {
			return summary, fmt.Errorf("writing instance %s: %w", rec.InstanceID, err)
		}
		summary.Written++
		if opts.Limit > 0 && summary.Written >= opts.Limit {
			break
		}
	}

	return summary, nil
}

// FormatMissing renders the missing-repo list for diagnostics, capped
// at the first ten slugs.
func (s BuildSummary) FormatMissing() string {
	preview := s.MissingRepos
	if len(preview) > 10 {
		preview = preview[:10]
	}
	return fmt.Sprintf("Missing %d repos (first 10: %s)", len(s.MissingRepos), strings.Join(preview, ", "))
}
