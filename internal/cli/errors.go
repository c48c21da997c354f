// Package cli provides error handling utilities for CLI output.
package cli

import (
	"fmt"
	"os"

	reeferrors "github.com/mworkman/reef/internal/errors"
)

// PrintError prints an error to stderr with appropriate formatting.
// If the error is a ReefError, it uses the user-friendly format.
// Otherwise, it prints a simple error message.
func PrintError(err error) {
	if reefErr := reeferrors.AsReefError(err); reefErr != nil {
		fmt.Fprintln(os.Stderr, reefErr.UserMessage())
		if verbose {
			// In verbose mode, also print the error code and cause
			fmt.Fprintf(os.Stderr, "\nCode: %s\n", reefErr.Code)
			if reefErr.Cause != nil {
				fmt.Fprintf(os.Stderr, "Cause: %v\n", reefErr.Cause)
			}
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if reefErr := reeferrors.AsReefError(err); reefErr != nil {
		return reefErr.ExitCode()
	}
	return 1
}
