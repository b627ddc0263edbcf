package jobs

import (
	"net/url"

	"github.com/kestrelworks/winnow/pkg/query"
	"github.com/kestrelworks/winnow/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "jobs", "j").
	Project("id", "ID").
	Project("upload_id", "UploadID").
	Project("status", "Status").
	Project("rows_total", "RowsTotal").
	Project("rows_clean", "RowsClean").
	Project("rows_quarantined", "RowsQuarantined").
	Project("dq_score", "Score").
	Project("reason", "Reason").
	Project("submitted_at", "SubmittedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "submitted_at",
	Descending: true,
}

// Filters contains optional filtering criteria for job queries.
// Nil fields are ignored; both use exact matching.
type Filters struct {
	UploadID *string `json:"upload_id,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UploadID", f.UploadID).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if u := values.Get("upload_id"); u != "" {
		f.UploadID = &u
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanJob(s repository.Scanner) (Job, error) {
	var j Job
	err := s.Scan(
		&j.ID,
		&j.UploadID,
		&j.Status,
		&j.RowsTotal,
		&j.RowsClean,
		&j.RowsQuarantined,
		&j.Score,
		&j.Reason,
		&j.SubmittedAt,
		&j.CompletedAt,
	)
	return j, err
}
