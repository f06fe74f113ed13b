// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used in tables and status lines.
const (
	// Success marks a present record or a completed operation.
	Success = "✓"

	// Error marks a missing record or a failed operation.
	Error = "✗"

	// Stop marks shutdowns.
	Stop = "✗"

	// Warning marks non-critical issues such as orphaned records.
	Warning = "!"

	// Info marks informational lines.
	Info = "i"
)
