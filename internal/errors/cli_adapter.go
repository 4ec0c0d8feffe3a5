package errors

import (
	"context"
	"fmt"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination
// for the CLI entry point.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
// Success and user cancellation exit 0; any other failure exits 1.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if IsCancelled(err) {
		return 0
	}
	return 1
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if ee, ok := err.(*ExplainError); ok {
		return a.formatExplain(ee)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatExplain formats an ExplainError for display.
func (a *CLIErrorAdapter) formatExplain(err *ExplainError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation, CategoryCancelled:
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// LogError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) LogError(err error) {
	if err == nil {
		return
	}
	if ee, ok := err.(*ExplainError); ok {
		level := slogLevelFromSeverity(ee.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(ee.Category)),
		}
		for k, v := range ee.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		a.logger.LogAttrs(context.Background(), level, ee.Message, attrs...)
		return
	}
	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts ExplainError severity to slog level.
func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
