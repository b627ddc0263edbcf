// Package engine provides the HTTP client for the external DQ processing
// engine: column discovery, column profiling, job submission, job status,
// and the authoritative file list.
package engine

import (
	"context"

	"github.com/kestrelworks/winnow/internal/profiles"
)

// System defines the operations Winnow consumes from the DQ engine.
type System interface {
	// Register announces an uploaded file to the engine so it can be
	// discovered, profiled, and processed.
	Register(ctx context.Context, uploadID, filename, storageKey string) error
	// Columns returns the ordered column names discovered for an upload.
	Columns(ctx context.Context, uploadID string) ([]string, error)
	// Profile computes profiles for a subset of columns over a row sample.
	Profile(ctx context.Context, uploadID string, columns []string, sampleSize int) (map[string]profiles.ColumnProfile, error)
	// Submit starts an asynchronous cleaning job for an upload.
	Submit(ctx context.Context, uploadID string, payload any) error
	// Status returns the engine's current view of an upload's job.
	Status(ctx context.Context, uploadID string) (JobStatus, error)
	// Files lists all files known to the engine with their job statuses.
	Files(ctx context.Context) ([]FileRecord, error)
}
