package models

import (
	"encoding/json"
	"fmt"
)

// DefaultBaseCommit is used when a dataset record has no base_commit.
const DefaultBaseCommit = "HEAD"

// metaKeys are the benchmark record fields that are carried into the
// meta_data block of a localization result. Anything else on the record
// stays behind.
var metaKeys = []string{"repo", "base_commit", "problem_statement", "patch", "test_patch"}

// BenchmarkRecord is one localization task definition from the benchmark
// dataset. Records are read-only inputs; Fields holds the raw decoded
// object so that optional keys can be distinguished from empty ones.
type BenchmarkRecord struct {
	InstanceID       string `json:"instance_id"`
	Repo             string `json:"repo"`
	BaseCommit       string `json:"base_commit"`
	ProblemStatement string `json:"problem_statement"`
	Patch            string `json:"patch"`
	TestPatch        string `json:"test_patch"`

	Fields map[string]any `json:"-"`
}

// DecodeRecord parses a single dataset line into a BenchmarkRecord.
func DecodeRecord(line []byte) (BenchmarkRecord, error) {
	var rec BenchmarkRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return BenchmarkRecord{}, err
	}
	if err := json.Unmarshal(line, &rec.Fields); err != nil {
		return BenchmarkRecord{}, err
	}
	return rec, nil
}

// Meta returns the subset of recognized fields that are actually present
// on the record. Absent keys are omitted rather than zero-filled, so the
// output mirrors the dataset.
func (r BenchmarkRecord) Meta() map[string]any {
	meta := make(map[string]any)
	for _, key := range metaKeys {
		if v, ok := r.Fields[key]; ok {
			meta[key] = v
		}
	}
	return meta
}

// ResolvedBaseCommit returns base_commit, defaulting to HEAD when the
// dataset leaves it blank.
func (r BenchmarkRecord) ResolvedBaseCommit() string {
	if r.BaseCommit == "" {
		return DefaultBaseCommit
	}
	return r.BaseCommit
}

// IndexByInstanceID builds a lookup map from instance_id to record.
// Duplicate ids are rejected since they would make transcript matching
// ambiguous.
func IndexByInstanceID(records []BenchmarkRecord) (map[string]BenchmarkRecord, error) {
	index := make(map[string]BenchmarkRecord, len(records))
	for _, rec := range records {
		if rec.InstanceID == "" {
			continue
		}
		if _, exists := index[rec.InstanceID]; exists {
			return nil, fmt.Errorf("duplicate instance_id %q in dataset", rec.InstanceID)
		}
		index[rec.InstanceID] = rec
	}
	return index, nil
}
