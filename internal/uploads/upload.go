// Package uploads implements the upload registry domain for Winnow.
// It provides types, data access, and business logic for tabular file
// upload, engine registration, metadata management, and blob storage
// integration.
package uploads

import (
	"time"

	"github.com/google/uuid"
)

// Upload represents a registered tabular file with its metadata and blob
// storage reference. The engine tracks processing state against the same
// id once the file is registered.
type Upload struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ColumnCount *int      `json:"column_count"`
	StorageKey  string    `json:"storage_key"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to store and register a new upload.
// Data holds the raw file bytes. ColumnCount is optional and may be sniffed
// from a CSV header by the caller; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	ColumnCount *int
}
