package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Run completed
	ExitFailure      = 1 // Configuration or runtime error
	ExitMissingInput = 2 // A required input path does not exist
	ExitRunAborted   = 3 // No trajectories found, or repos missing without --skip-missing
)

// MissingInputError indicates that a required input path does not
// exist on disk.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input path not found: %s", e.Path)
}

// RunAbortedError indicates the run scanned its inputs but cannot
// produce a usable output: no trajectory files, or referenced repo
// mirrors are missing.
type RunAbortedError struct {
	Message string
}

func (e *RunAbortedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var missingErr *MissingInputError
		if errors.As(err, &missingErr) {
			os.Exit(ExitMissingInput)
		}

		var abortErr *RunAbortedError
		if errors.As(err, &abortErr) {
			os.Exit(ExitRunAborted)
		}

		os.Exit(ExitFailure)
	}
}
