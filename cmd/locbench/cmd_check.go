package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spboyer/locbench/internal/utils"
	"github.com/spboyer/locbench/internal/validation"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <loc_outputs.jsonl>",
		Short: "Validate a localization output file against the record schema",
		Long: `Validate every line of a loc_outputs.jsonl against the output record
schema, reporting line-numbered failures. Useful before submitting a
run for scoring.`,
		Args: cobra.ExactArgs(1),
		RunE: checkCommandE,
	}
}

func checkCommandE(_ *cobra.Command, args []string) error {
	path := args[0]
	if !utils.FileExists(path) {
		return &MissingInputError{Path: path}
	}

	issues, err := validation.ValidateOutputFile(path)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "line %d: %s\n", issue.Line, strings.Join(issue.Errors, "; "))
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d invalid records in %s", len(issues), path)
	}

	fmt.Printf("All records in %s are valid\n", path)
	return nil
}
