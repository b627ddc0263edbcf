package presets

import (
	"net/url"
	"strconv"

	"github.com/kestrelworks/winnow/pkg/query"
	"github.com/kestrelworks/winnow/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "presets", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("config", "Config").
	Project("is_default", "IsDefault").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "name",
}

// Filters contains optional filtering criteria for preset queries.
// Nil fields are ignored. IsDefault uses exact matching; Name uses
// case-insensitive contains matching.
type Filters struct {
	Name      *string `json:"name,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("IsDefault", f.IsDefault)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if d := values.Get("is_default"); d != "" {
		if v, err := strconv.ParseBool(d); err == nil {
			f.IsDefault = &v
		}
	}

	return f
}

func scanPreset(s repository.Scanner) (Preset, error) {
	var p Preset
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Config,
		&p.IsDefault,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
