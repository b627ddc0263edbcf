package processing

import (
	"slices"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/internal/presets"
	"github.com/kestrelworks/winnow/internal/rules"
)

// SessionView is the read-only slice of a wizard session the submitter
// needs. The wizard hands this across so the two packages stay decoupled.
type SessionView struct {
	UploadID        string
	AllColumns      []string
	SelectedColumns []string
	RequiredColumns []string
	Rules           rules.Set
	PresetID        *uuid.UUID
	PresetOverrides *presets.Settings
}

// Payload is the compiled DQ job submission request. A nil SelectedColumns
// is the wire sentinel for "all columns"; the field is omitted rather than
// enumerated when the selection spans the complete column set.
type Payload struct {
	SelectedColumns     []string            `json:"selected_columns,omitempty"`
	RequiredColumns     []string            `json:"required_columns,omitempty"`
	GlobalDisabledRules []string            `json:"global_disabled_rules,omitempty"`
	DisableRules        map[string][]string `json:"disable_rules,omitempty"`
	ColumnRulesOverride map[string][]string `json:"column_rules_override,omitempty"`
	CustomRules         []rules.CustomRule  `json:"custom_rules,omitempty"`
	PresetID            *uuid.UUID          `json:"preset_id,omitempty"`
	PresetOverrides     *presets.Settings   `json:"preset_overrides,omitempty"`
}

// BuildPayload compiles a session view into a submission payload. An empty
// selection against a non-empty column set is rejected here, before any
// network call is made.
func BuildPayload(view SessionView) (Payload, error) {
	if len(view.AllColumns) > 0 && len(view.SelectedColumns) == 0 {
		return Payload{}, ErrNoColumns
	}

	p := Payload{
		RequiredColumns:     view.RequiredColumns,
		GlobalDisabledRules: view.Rules.GlobalDisabled(),
		CustomRules:         view.Rules.Custom,
		PresetID:            view.PresetID,
		PresetOverrides:     view.PresetOverrides,
	}

	if !coversAll(view.SelectedColumns, view.AllColumns) {
		p.SelectedColumns = view.SelectedColumns
	}

	for column, ids := range view.Rules.DisableByColumn {
		if len(ids) == 0 {
			continue
		}
		if p.DisableRules == nil {
			p.DisableRules = make(map[string][]string)
		}
		p.DisableRules[column] = ids
	}

	for column, ids := range view.Rules.OverrideByColumn {
		if p.ColumnRulesOverride == nil {
			p.ColumnRulesOverride = make(map[string][]string)
		}
		p.ColumnRulesOverride[column] = ids
	}

	return p, nil
}

func coversAll(selected, all []string) bool {
	if len(selected) < len(all) {
		return false
	}
	for _, column := range all {
		if !slices.Contains(selected, column) {
			return false
		}
	}
	return true
}
