// Package extract recovers the JSON object an agent embedded in a
// free-form response. Agent output mixes prose, code, and one or more
// JSON-looking fragments; extraction prefers explicitly fenced JSON,
// then a pure-JSON response, then brace matching over the raw text.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedBlock matches ``` or ```json fenced regions, case-insensitively,
// across lines. Group 1 is the inner text.
var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// Extract returns the most plausible JSON object in text along with the
// exact candidate substring it was parsed from. It never fails on
// malformed input; when no tier yields an object, found is false.
func Extract(text string) (payload map[string]any, matched string, found bool) {
	if text == "" {
		return nil, "", false
	}

	var candidates []string
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		if c := strings.TrimSpace(m[1]); c != "" {
			candidates = append(candidates, c)
		}
	}

	// No fenced region at all: the whole trimmed response may itself
	// be the payload.
	if len(candidates) == 0 {
		candidates = append(candidates, strings.TrimSpace(text))
	}

	for _, c := range candidates {
		if obj, ok := tryObject(c); ok {
			return obj, c, true
		}
	}

	return scanBraces(text)
}

// tryObject strictly parses candidate and accepts only a JSON object.
// Arrays, strings, and scalars are non-matches, not errors.
func tryObject(candidate string) (map[string]any, bool) {
	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, false
	}
	obj, ok := value.(map[string]any)
	return obj, ok
}

// scanBraces tries every '{' in text as a candidate start, walking
// forward with an explicit depth counter until it returns to zero.
// Candidates are tried in order of increasing start index. JSON nesting
// is not regular, so this cannot be a regex.
func scanBraces(text string) (map[string]any, string, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		candidate, ok := balancedFrom(text, start)
		if !ok {
			continue
		}
		if obj, parsed := tryObject(candidate); parsed {
			return obj, candidate, true
		}
	}
	return nil, "", false
}

// balancedFrom returns the substring from start to the first position
// where brace depth returns to zero, inclusive.
func balancedFrom(text string, start int) (string, bool) {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
