package uploads

import (
	"net/url"

	"github.com/kestrelworks/winnow/pkg/query"
	"github.com/kestrelworks/winnow/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "uploads", "u").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("column_count", "ColumnCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for upload queries.
// Nil fields are ignored. Status and ContentType use exact matching;
// Filename uses case-insensitive contains matching.
type Filters struct {
	Status      *string `json:"status,omitempty"`
	Filename    *string `json:"filename,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	return f
}

func scanUpload(s repository.Scanner) (Upload, error) {
	var u Upload
	err := s.Scan(
		&u.ID,
		&u.Filename,
		&u.ContentType,
		&u.SizeBytes,
		&u.ColumnCount,
		&u.StorageKey,
		&u.Status,
		&u.UploadedAt,
		&u.UpdatedAt,
	)
	return u, err
}
