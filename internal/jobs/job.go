// Package jobs implements the processing job record domain for Winnow.
// Each submission to the DQ engine is recorded here so outcomes survive
// wizard sessions and server restarts. The engine remains authoritative
// for live status; these records capture what Winnow submitted and the
// terminal result it observed.
package jobs

import (
	"time"

	"github.com/google/uuid"
)

// Job is one recorded submission and its observed outcome.
type Job struct {
	ID              uuid.UUID  `json:"job_id"`
	UploadID        string     `json:"upload_id"`
	Status          string     `json:"status"`
	RowsTotal       *int64     `json:"rows_total,omitempty"`
	RowsClean       *int64     `json:"rows_clean,omitempty"`
	RowsQuarantined *int64     `json:"rows_quarantined,omitempty"`
	Score           *float64   `json:"dq_score,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// CompleteCommand carries the terminal outcome recorded against a job.
type CompleteCommand struct {
	Status          string   `json:"status"`
	RowsTotal       *int64   `json:"rows_total,omitempty"`
	RowsClean       *int64   `json:"rows_clean,omitempty"`
	RowsQuarantined *int64   `json:"rows_quarantined,omitempty"`
	Score           *float64 `json:"dq_score,omitempty"`
	Reason          string   `json:"reason,omitempty"`
}
