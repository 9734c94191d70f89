package models

// TaskInstance is an agent-runnable task derived from a BenchmarkRecord
// and a resolved local repository mirror. Written once, never mutated.
type TaskInstance struct {
	ImageName        string              `json:"image_name"`
	ProblemStatement string              `json:"problem_statement"`
	InstanceID       string              `json:"instance_id"`
	RepoName         string              `json:"repo_name"`
	BaseCommit       string              `json:"base_commit"`
	ExtraFields      InstanceExtraFields `json:"extra_fields"`
}

// InstanceExtraFields carries repo bookkeeping that downstream agent
// harnesses read but do not interpret.
type InstanceExtraFields struct {
	RepoSlug   string `json:"repo_slug"`
	RepoPath   string `json:"repo_path"`
	BaseCommit string `json:"base_commit"`
}

// NewTaskInstance assembles an instance from a record and its resolved
// repo mirror path.
func NewTaskInstance(rec BenchmarkRecord, repoPath, imageName string) TaskInstance {
	baseCommit := rec.ResolvedBaseCommit()
	return TaskInstance{
		ImageName:        imageName,
		ProblemStatement: rec.ProblemStatement,
		InstanceID:       rec.InstanceID,
		RepoName:         repoPath,
		BaseCommit:       baseCommit,
		ExtraFields: InstanceExtraFields{
			RepoSlug:   rec.Repo,
			RepoPath:   repoPath,
			BaseCommit: baseCommit,
		},
	}
}
