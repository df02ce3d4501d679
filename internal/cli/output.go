package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/roach88/moodflicks/internal/progress"
)

// Exit codes.
const (
	ExitSuccess      = 0 // command succeeded
	ExitFailure      = 1 // the command ran but failed: scenarios failed, a rule rejected input, the catalogue is down
	ExitCommandError = 2 // the command could not run: bad arguments, bad config, unusable medium
)

// ExitError carries an exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// NewExitError creates an ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code for err: the ExitError code, or
// ExitFailure for any other error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status  string            `json:"status"` // "ok" or "error"
	Data    any               `json:"data,omitempty"`
	Notices []progress.Notice `json:"notices,omitempty"`
	Error   *CLIError         `json:"error,omitempty"`
}

// CLIError is the error part of a response.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Result writes a successful result and the notices it produced. In text
// mode text is printed followed by one line per notice.
func (f *OutputFormatter) Result(data any, text string, notices []progress.Notice) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data, Notices: notices})
	}
	if text != "" {
		fmt.Fprintln(f.Writer, text)
	}
	f.printNotices(notices)
	return nil
}

// Success writes data with no notices.
func (f *OutputFormatter) Success(data any) error {
	return f.Result(data, fmt.Sprint(data), nil)
}

// Error writes an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Failure writes an error response that still carries notices, then
// returns an ExitError with code.
func (f *OutputFormatter) Failure(code int, errCode, message string, notices []progress.Notice) error {
	if f.Format == "json" {
		if err := f.encode(CLIResponse{
			Status:  "error",
			Notices: notices,
			Error:   &CLIError{Code: errCode, Message: message},
		}); err != nil {
			return err
		}
	} else {
		f.printNotices(notices)
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", errCode, message)
	}
	return NewExitError(code, message)
}

// VerboseLog writes a diagnostic line when verbose output is on. It goes
// to ErrWriter so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter, or Writer when unset.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) printNotices(notices []progress.Notice) {
	for _, n := range notices {
		fmt.Fprintf(f.Writer, "[%s] %s %s\n", n.Severity, n.Title, n.Body)
	}
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
