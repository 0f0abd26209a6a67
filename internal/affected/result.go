package affected

import (
	"context"
)

// ChangeSource supplies the repository-relative paths touched by a change.
type ChangeSource interface {
	ChangedFiles(ctx context.Context) ([]string, error)
}

// OutputSink publishes a completed Result.
type OutputSink interface {
	Write(ctx context.Context, res *Result) error
}

// Result is the outcome of one analysis.
type Result struct {
	// ChangedFiles is the deduplicated input, in source order.
	ChangedFiles []string `json:"changed_files"`
	// Modified lists the affected project identifiers in ascending order.
	Modified []string `json:"modified_packages"`
	// Ordered lists Modified so that dependencies precede dependents.
	Ordered []string `json:"ordered_changes"`
	// HasDescriptor is true when a modified project's path ends in the
	// descriptor suffix.
	HasDescriptor bool `json:"has_nuspec"`
}
