// Package normalize turns extracted payload fields into the canonical
// ordered-set lists of a localization result, applying the cross-field
// derivation rules (entities can stand in for missing files/modules).
package normalize

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// List coerces a payload value into an ordered set of strings. A single
// string counts as a one-element list; non-string elements are dropped;
// elements are trimmed, empties removed, and duplicates collapse to
// their first occurrence. The result is never nil so it marshals as [].
func List(value any) []string {
	var items []any
	switch v := value.(type) {
	case nil:
	case string:
		items = []any{v}
	case []any:
		items = v
	case []string:
		items = make([]any, 0, len(v))
		for _, s := range v {
			items = append(items, s)
		}
	default:
		items = []any{value}
	}

	result := []string{}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		cleaned := strings.TrimSpace(s)
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		result = append(result, cleaned)
	}
	return result
}

// EntitiesToModules derives module identifiers from "path:qualifiedName"
// entities. The module is the path plus the first dot-separated segment
// of the qualified name; entities without a ':' carry no file-path
// association and are skipped. Deduplicated by module id, order kept.
func EntitiesToModules(entities []string) []string {
	modules := []string{}
	seen := make(map[string]struct{}, len(entities))
	for _, entity := range entities {
		filePath, qualifiedName, ok := strings.Cut(entity, ":")
		if !ok {
			continue
		}
		moduleName, _, _ := strings.Cut(qualifiedName, ".")
		moduleID := filePath
		if moduleName != "" {
			moduleID = filePath + ":" + moduleName
		}
		if _, dup := seen[moduleID]; dup {
			continue
		}
		seen[moduleID] = struct{}{}
		modules = append(modules, moduleID)
	}
	return modules
}

// payloadFields mirrors the payload keys we recognize. The values stay
// untyped; List does the coercion.
type payloadFields struct {
	FoundFiles    any `mapstructure:"found_files"`
	FoundModules  any `mapstructure:"found_modules"`
	FoundEntities any `mapstructure:"found_entities"`
}

// Fields normalizes a payload's found_* lists and applies derivation
// precedence: explicit files/modules win; otherwise both are derived
// from entities. Entities are taken as-is, never derived.
func Fields(payload map[string]any) (files, modules, entities []string) {
	var raw payloadFields
	if err := mapstructure.Decode(payload, &raw); err != nil {
		raw = payloadFields{}
	}

	files = List(raw.FoundFiles)
	entities = List(raw.FoundEntities)
	if len(files) == 0 && len(entities) > 0 {
		prefixes := make([]string, 0, len(entities))
		for _, entity := range entities {
			if filePath, _, ok := strings.Cut(entity, ":"); ok {
				prefixes = append(prefixes, filePath)
			}
		}
		files = List(prefixes)
	}

	modules = List(raw.FoundModules)
	if len(modules) == 0 && len(entities) > 0 {
		modules = EntitiesToModules(entities)
	}

	return files, modules, entities
}
