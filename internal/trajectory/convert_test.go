package trajectory

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/locbench/internal/models"
)

type memWriter struct {
	records []models.LocalizationResult
}

func (m *memWriter) Write(v any) error {
	m.records = append(m.records, v.(models.LocalizationResult))
	return nil
}

func record(id string) models.BenchmarkRecord {
	rec, err := models.DecodeRecord([]byte(`{"instance_id":"` + id + `","repo":"org/repo","base_commit":"abc"}`))
	if err != nil {
		panic(err)
	}
	return rec
}

func steps(responses ...string) *Trajectory {
	traj := &Trajectory{}
	for _, r := range responses {
		traj.Steps = append(traj.Steps, Step{Response: r})
	}
	return traj
}

func TestConvertMostRecentStepWins(t *testing.T) {
	traj := steps(
		"```json\n{\"found_files\": [\"old.py\"]}\n```",
		"some intermediate prose",
		"```json\n{\"found_files\": [\"final.py\"]}\n```",
	)

	result, found := Convert("x1", record("x1"), traj)
	require.True(t, found)
	assert.Equal(t, []string{"final.py"}, result.FoundFiles)
	assert.Equal(t, []string{traj.Steps[2].Response}, result.RawOutput)
}

func TestConvertScansAllTheWayBack(t *testing.T) {
	// Only the oldest step carries the payload; the backward scan must
	// reach it rather than stopping after the last step.
	traj := steps(
		"```json\n{\"found_files\": [\"early.py\"]}\n```",
		"just prose",
		"more prose",
	)

	result, found := Convert("x1", record("x1"), traj)
	require.True(t, found)
	assert.Equal(t, []string{"early.py"}, result.FoundFiles)
	assert.Equal(t, []string{traj.Steps[0].Response}, result.RawOutput)
}

func TestConvertNoPayloadFallsBackToLastStep(t *testing.T) {
	traj := steps("prose one", "prose two")

	result, found := Convert("x1", record("x1"), traj)
	assert.False(t, found)
	assert.Equal(t, []string{}, result.FoundFiles)
	assert.Equal(t, []string{}, result.FoundModules)
	assert.Equal(t, []string{}, result.FoundEntities)
	assert.Equal(t, []string{"prose two"}, result.RawOutput)
}

func TestConvertEmptyTrajectory(t *testing.T) {
	result, found := Convert("x1", record("x1"), steps())
	assert.False(t, found)
	assert.Equal(t, []string{}, result.RawOutput)
}

func TestConvertCopiesRecognizedMetaOnly(t *testing.T) {
	rec, err := models.DecodeRecord([]byte(`{"instance_id":"x1","repo":"org/repo","base_commit":"abc","extra":"dropped","split":"test"}`))
	require.NoError(t, err)

	result, _ := Convert("x1", rec, steps("{\"found_files\": [\"a.py\"]}"))
	assert.Equal(t, map[string]any{"repo": "org/repo", "base_commit": "abc"}, result.MetaData)
}

func TestConvertDerivesModulesAndFiles(t *testing.T) {
	traj := steps("```json\n{\"found_entities\": [\"a/b.py:Foo.bar\", \"a/b.py:Foo.baz\", \"c/d.py:Qux\"]}\n```")

	result, found := Convert("x1", record("x1"), traj)
	require.True(t, found)
	assert.Equal(t, []string{"a/b.py", "c/d.py"}, result.FoundFiles)
	assert.Equal(t, []string{"a/b.py:Foo", "c/d.py:Qux"}, result.FoundModules)
}

func TestConvertAll(t *testing.T) {
	root := t.TempDir()
	writeTraj(t, filepath.Join(root, "x1.traj"), `{"trajectory":[{"response":"{\"found_files\": [\"a.py\"]}"}]}`)
	writeTraj(t, filepath.Join(root, "x2.traj"), `{"trajectory":[{"response":"no payload here"}]}`)
	writeTraj(t, filepath.Join(root, "unknown.traj"), `{"trajectory":[]}`)
	writeTraj(t, filepath.Join(root, "x3.traj"), `{broken`)

	records := map[string]models.BenchmarkRecord{
		"x1": record("x1"),
		"x2": record("x2"),
		"x3": record("x3"),
	}

	paths, err := Discover(root)
	require.NoError(t, err)

	var diag bytes.Buffer
	var sink memWriter
	summary, err := ConvertAll(paths, records, &sink, ConvertOptions{Diag: &diag})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 1, summary.MissingPayload)
	assert.Equal(t, 1, summary.SkippedInvalid)
	assert.Contains(t, diag.String(), "x3.traj")

	require.Len(t, sink.records, 2)
	assert.Equal(t, "x1", sink.records[0].InstanceID)
	assert.Equal(t, []string{"a.py"}, sink.records[0].FoundFiles)
	assert.Equal(t, "x2", sink.records[1].InstanceID)
	assert.Equal(t, []string{}, sink.records[1].FoundFiles)
}

func TestConvertAllFilterAndLimit(t *testing.T) {
	root := t.TempDir()
	for _, id := range []string{"keep-1", "keep-2", "drop-1"} {
		writeTraj(t, filepath.Join(root, id+".traj"), `{"trajectory":[{"response":"{\"found_files\": [\"a.py\"]}"}]}`)
	}
	records := map[string]models.BenchmarkRecord{
		"keep-1": record("keep-1"),
		"keep-2": record("keep-2"),
		"drop-1": record("drop-1"),
	}

	paths, err := Discover(root)
	require.NoError(t, err)

	var sink memWriter
	summary, err := ConvertAll(paths, records, &sink, ConvertOptions{
		Filter: regexp.MustCompile(`^keep-`),
		Limit:  1,
		Diag:   os.Stderr,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Written)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "keep-1", sink.records[0].InstanceID)
}
