// Package presets implements the settings preset domain for Winnow.
// It provides types, data access, and business logic for named
// policy/lookup/threshold configuration bundles and their resolution
// into the normalized settings shape the wizard consumes.
package presets

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Preset is a named, reusable bundle of DQ processing configuration.
// Config holds the raw stored document; Resolve parses it into Settings.
type Preset struct {
	ID        uuid.UUID       `json:"preset_id"`
	Name      string          `json:"preset_name"`
	Config    json.RawMessage `json:"config"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateCommand carries the data needed to create a new preset.
type CreateCommand struct {
	Name      string          `json:"preset_name"`
	Config    json.RawMessage `json:"config"`
	IsDefault bool            `json:"is_default"`
}

// UpdateCommand carries the data needed to update an existing preset.
type UpdateCommand struct {
	Name      string          `json:"preset_name"`
	Config    json.RawMessage `json:"config"`
	IsDefault bool            `json:"is_default"`
}
