// Package validation checks localization output files against the
// record schema the benchmark harness expects, so a bad run is caught
// before submission rather than during scoring.
package validation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// recordSchemaJSON is the shape of one localization output record.
const recordSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["instance_id", "found_files", "found_modules", "found_entities", "raw_output_loc", "meta_data"],
  "properties": {
    "instance_id": {"type": "string", "minLength": 1},
    "found_files": {"type": "array", "items": {"type": "string"}},
    "found_modules": {"type": "array", "items": {"type": "string"}},
    "found_entities": {"type": "array", "items": {"type": "string"}},
    "raw_output_loc": {"type": "array", "items": {"type": "string"}, "maxItems": 1},
    "meta_data": {"type": "object"}
  }
}`

// recordSchema is the compiled JSON Schema for output records.
var recordSchema *jsonschema.Schema

func init() {
	recordSchema = mustCompileSchema(recordSchemaJSON, "loc_output.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// LineIssue describes one failing line of an output file.
type LineIssue struct {
	Line   int
	Errors []string
}

// ValidateOutputFile validates every line of a localization output
// JSONL file. Blank lines are ignored. A line that is not valid JSON
// is reported as an issue, not a fatal error, since this is a lint.
func ValidateOutputFile(path string) ([]LineIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading output file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var issues []LineIssue
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if errs := ValidateRecordBytes([]byte(line)); len(errs) > 0 {
			issues = append(issues, LineIssue{Line: lineNum, Errors: errs})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading output file: %w", err)
	}

	return issues, nil
}

// ValidateRecordBytes validates one raw JSON record against the output
// record schema.
func ValidateRecordBytes(data []byte) []string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return validateAgainstSchema(recordSchema, doc)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
