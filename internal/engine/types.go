package engine

import "time"

// JobStatus is the engine's report for one upload's processing job.
// The engine is authoritative; Winnow only observes.
type JobStatus struct {
	UploadID        string     `json:"upload_id"`
	Status          string     `json:"status"`
	RowsTotal       *int64     `json:"rows_total,omitempty"`
	RowsClean       *int64     `json:"rows_clean,omitempty"`
	RowsQuarantined *int64     `json:"rows_quarantined,omitempty"`
	Score           *float64   `json:"dq_score,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// FileRecord is one entry of the engine's file list.
type FileRecord struct {
	UploadID string `json:"upload_id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

type registerRequest struct {
	UploadID   string `json:"upload_id"`
	Filename   string `json:"filename"`
	StorageKey string `json:"storage_key"`
}

type columnsResponse struct {
	Columns []string `json:"columns"`
}

type profileRequest struct {
	Columns    []string `json:"columns"`
	SampleSize int      `json:"sample_size"`
}

type filesResponse struct {
	Files []FileRecord `json:"files"`
}
