// Copyright 2026 The CodeGraph Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides structured error handling for the graphdb CLI.
//
// It defines UserError, a type that carries what went wrong, why it
// happened, and how to fix it, plus a consistent exit code for each error
// category.
//
// # Usage
//
//	err := errors.NewDatabaseError(
//	    "Cannot open the graph database",
//	    "The database directory is locked by another process",
//	    "Close other graphdb instances or run: graphdb reset --yes",
//	    underlyingErr,
//	)
//	if err != nil {
//	    errors.FatalError(err, false)
//	}
//
// # Exit codes
//
//   - ExitSuccess (0): successful execution
//   - ExitConfig (1): missing or invalid configuration
//   - ExitDatabase (2): store errors (locked, corrupted, schema mismatch)
//   - ExitNetwork (3): reserved for network/API errors
//   - ExitInput (4): invalid user input
//   - ExitPermission (5): permission denied
//   - ExitNotFound (6): resource not found
//   - ExitInternal (10): bugs, unexpected panics
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for different error categories.
const (
	ExitSuccess    = 0
	ExitConfig     = 1
	ExitDatabase   = 2
	ExitNetwork    = 3
	ExitInput      = 4
	ExitPermission = 5
	ExitNotFound   = 6
	ExitInternal   = 10
)

// UserError carries a user-facing message, a diagnostic cause, an
// actionable fix, and the exit code the CLI should use.
type UserError struct {
	Message  string
	Cause    string
	Fix      string
	ExitCode int
	Err      error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// newUserError is the shared constructor every category-specific
// constructor below delegates to; the public surface differs only in
// which exit code it pins and whether it accepts a wrapped error (the
// input/not-found categories never wrap one, since they always originate
// from a value the user typed rather than a failed system call).
func newUserError(msg, cause, fix string, code int, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: code, Err: err}
}

// NewConfigError creates a configuration error with exit code ExitConfig.
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return newUserError(msg, cause, fix, ExitConfig, err)
}

// NewDatabaseError creates a store error with exit code ExitDatabase.
func NewDatabaseError(msg, cause, fix string, err error) *UserError {
	return newUserError(msg, cause, fix, ExitDatabase, err)
}

// NewNetworkError creates a network error with exit code ExitNetwork.
func NewNetworkError(msg, cause, fix string, err error) *UserError {
	return newUserError(msg, cause, fix, ExitNetwork, err)
}

// NewInputError creates an input validation error with exit code ExitInput.
func NewInputError(msg, cause, fix string) *UserError {
	return newUserError(msg, cause, fix, ExitInput, nil)
}

// NewPermissionError creates a permission error with exit code ExitPermission.
func NewPermissionError(msg, cause, fix string, err error) *UserError {
	return newUserError(msg, cause, fix, ExitPermission, err)
}

// NewNotFoundError creates a not-found error with exit code ExitNotFound.
func NewNotFoundError(msg, cause, fix string) *UserError {
	return newUserError(msg, cause, fix, ExitNotFound, nil)
}

// NewInternalError creates an internal error with exit code ExitInternal.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return newUserError(msg, cause, fix, ExitInternal, err)
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a colored, terminal-ready rendering of the error. Color
// output respects NO_COLOR and can be disabled explicitly via noColor.
//
// Format temporarily modifies the global color.NoColor state and restores
// it before returning.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}
	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON is the --json rendering of a UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to its JSON-serializable form.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// FatalError prints err and exits with the appropriate code. Never
// returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
