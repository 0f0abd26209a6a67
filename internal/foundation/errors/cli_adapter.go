package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the affected binary.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitAuth       = 5
	ExitConfig     = 7
	ExitExternal   = 8
	ExitDependency = 9
	ExitInternal   = 10
	ExitFileSystem = 11
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	if classified, ok := AsClassified(err); ok {
		return exitCodeFromCategory(classified.Category())
	}
	return ExitGeneral
}

func exitCodeFromCategory(category ErrorCategory) int {
	switch category {
	case CategoryValidation:
		return ExitUsage
	case CategoryConfig, CategoryNotFound:
		return ExitConfig
	case CategoryAuth:
		return ExitAuth
	case CategoryNetwork, CategoryGit, CategoryForge:
		return ExitExternal
	case CategoryDependency:
		return ExitDependency
	case CategoryFileSystem:
		return ExitFileSystem
	case CategoryInternal:
		return ExitInternal
	default:
		return ExitGeneral
	}
}

// FormatError formats an error for user-facing display.
// Classified errors always show their message and context since those carry
// the project id or status code the operator needs; the wrapped cause is only
// shown in verbose mode.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose || classified.Cause() == nil {
		return "Error: " + classified.Error()
	}
	brief := &ClassifiedError{
		category: classified.category,
		severity: classified.severity,
		retry:    classified.retry,
		message:  classified.message,
		context:  classified.context,
	}
	return "Error: " + brief.Error() + " (use -v for details)"
}

// WithOutput redirects the user-facing message (default stderr).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// Report logs err, prints it and returns the mapped exit code.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return ExitOK
	}
	a.logError(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{
		slog.String("category", string(classified.Category())),
		slog.String("severity", string(classified.Severity())),
	}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if classified.CanRetry() {
		attrs = append(attrs, slog.String("retry", string(classified.RetryStrategy())))
	}
	if classified.Cause() != nil {
		attrs = append(attrs, slog.String("cause", classified.Cause().Error()))
	}
	a.logger.LogAttrs(context.Background(), slog.LevelError, classified.Message(), attrs...)
}
