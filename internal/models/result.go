package models

// LocalizationResult is the per-transcript output record. The three
// found_* lists are ordered sets: no duplicates, first-seen order.
// RawOutput holds the literal response text the payload was parsed from,
// zero or one element.
type LocalizationResult struct {
	InstanceID    string         `json:"instance_id"`
	FoundFiles    []string       `json:"found_files"`
	FoundModules  []string       `json:"found_modules"`
	FoundEntities []string       `json:"found_entities"`
	RawOutput     []string       `json:"raw_output_loc"`
	MetaData      map[string]any `json:"meta_data"`
}
