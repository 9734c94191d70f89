package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spboyer/locbench/internal/instances"
	"github.com/spboyer/locbench/internal/trajectory"
)

func TestFormatBuildSummary(t *testing.T) {
	got := FormatBuildSummary(instances.BuildSummary{Written: 7}, "out/instances.jsonl")
	assert.Equal(t, "Wrote 7 instances to out/instances.jsonl", got)
}

func TestBuildWarnings(t *testing.T) {
	assert.Empty(t, BuildWarnings(instances.BuildSummary{Written: 3}))

	warnings := BuildWarnings(instances.BuildSummary{SkippedMissing: 2})
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "skipped 2 instances")
}

func TestFormatConvertSummary(t *testing.T) {
	got := FormatConvertSummary(trajectory.ConvertSummary{Written: 4}, "loc_outputs.jsonl")
	assert.Equal(t, "Wrote 4 loc outputs to loc_outputs.jsonl", got)
}

func TestConvertWarnings(t *testing.T) {
	assert.Empty(t, ConvertWarnings(trajectory.ConvertSummary{Written: 4}))

	warnings := ConvertWarnings(trajectory.ConvertSummary{MissingPayload: 3, SkippedInvalid: 1})
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "3 instances had no JSON payload")
	assert.Contains(t, warnings[1], "1 invalid trajectory")
}
