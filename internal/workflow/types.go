// Package workflow executes the processing run for one upload as a state
// graph: compile the session into a payload, submit it to the engine, poll
// the job to a terminal outcome, and record the result.
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/internal/processing"
)

const (
	KeySession  = "session_view"
	KeyPayload  = "payload"
	KeyJobID    = "job_id"
	KeySnapshot = "snapshot"
)

// RunResult is the final output from a processing run execution.
type RunResult struct {
	UploadID    string              `json:"upload_id"`
	JobID       uuid.UUID           `json:"job_id"`
	Snapshot    processing.Snapshot `json:"snapshot"`
	CompletedAt time.Time           `json:"completed_at"`
}

// Succeeded reports whether the run reached a terminal-success outcome.
func (r *RunResult) Succeeded() bool {
	return r.Snapshot.State == processing.StateSuccess
}
