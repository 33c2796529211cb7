package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/execdiff/internal/align"
	"github.com/roach88/execdiff/internal/compare"
	"github.com/roach88/execdiff/internal/fixture"
	"github.com/roach88/execdiff/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Comparison or import failure
	ExitCommandError = 2 // Command error (invalid ids, database not found, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "DUPLICATE_EXECUTION", "NOT_FOUND", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Error codes reported for failures that carry no domain code of their own.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeMissingAncestors = "MISSING_ANCESTORS"
	CodeCommandError     = "COMMAND_ERROR"
	CodeFailure          = "FAILURE"
)

// errorCode picks the most specific code in err's chain. Request and fixture
// errors keep their own codes.
func errorCode(err error) string {
	var re *compare.RequestError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	var fe *fixture.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	if align.IsMissingAncestors(err) {
		return CodeMissingAncestors
	}
	if errors.Is(err, store.ErrNotFound) {
		return CodeNotFound
	}
	if GetExitCode(err) == ExitCommandError {
		return CodeCommandError
	}
	return CodeFailure
}

// errorDetails returns extra context for err, or nil.
func errorDetails(err error) interface{} {
	var fe *fixture.Error
	if errors.As(err, &fe) && fe.Path != "" {
		return map[string]string{"path": fe.Path}
	}
	return nil
}

// reportError writes a failed command's error through the formatter.
func (f *OutputFormatter) reportError(err error) error {
	return f.Error(errorCode(err), err.Error(), errorDetails(err))
}

// truncateID shortens long identifiers for text output.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
