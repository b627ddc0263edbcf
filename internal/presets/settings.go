package presets

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Policies controls how strictly the engine treats violations.
type Policies struct {
	Strictness     string `json:"strictness"`
	Autofix        bool   `json:"autofix"`
	UnknownColumns string `json:"unknown_columns"`
}

// Lookups holds the user-editable value lists consulted by lookup checks.
type Lookups struct {
	Currencies    []string `json:"currencies"`
	Units         []string `json:"units"`
	Statuses      []string `json:"statuses"`
	MissingValues []string `json:"missing_values"`
}

// Settings is the normalized configuration shape consumed by the wizard and
// the submission payload, regardless of which stored shape it was parsed from.
type Settings struct {
	Policies      Policies `json:"policies"`
	Lookups       Lookups  `json:"lookups"`
	DateFormats   []string `json:"date_formats"`
	MaxTextLength int      `json:"max_text_length"`
}

// legacySettings is the older nested document shape still present in stored
// presets. It is translated into Settings on parse.
type legacySettings struct {
	Enums struct {
		Currency []string `json:"currency"`
		Unit     []string `json:"unit"`
		Status   []string `json:"status"`
	} `json:"enums"`
	Rules struct {
		MissingValues []string `json:"missing_values"`
		DateFormats   []string `json:"date_formats"`
		MaxTextLength int      `json:"max_text_length"`
	} `json:"rules"`
	Policy struct {
		Strictness     string `json:"strictness"`
		Autofix        bool   `json:"autofix"`
		UnknownColumns string `json:"unknown_columns"`
	} `json:"policy"`
}

// DefaultSettings returns the built-in configuration applied when no preset
// is selected and no stored default exists.
func DefaultSettings() Settings {
	return Settings{
		Policies: Policies{
			Strictness:     "standard",
			Autofix:        true,
			UnknownColumns: "keep",
		},
		Lookups: Lookups{
			Currencies:    []string{"USD", "EUR", "GBP"},
			Units:         []string{"ea", "kg", "lb", "m"},
			Statuses:      []string{"active", "inactive"},
			MissingValues: []string{"", "NA", "N/A", "null", "-"},
		},
		DateFormats:   []string{"2006-01-02", "01/02/2006", "02.01.2006"},
		MaxTextLength: 255,
	}
}

// BuiltinDefaultID is the well-known id of the injected default preset.
var BuiltinDefaultID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// BuiltinDefault returns the client-injected default preset used when the
// store provides no preset flagged default.
func BuiltinDefault() Preset {
	config, _ := json.Marshal(DefaultSettings())
	return Preset{
		ID:        BuiltinDefaultID,
		Name:      "Standard",
		Config:    config,
		IsDefault: true,
	}
}

// ParseSettings parses a stored config document into the normalized Settings
// shape. Both the current shape and the legacy nested enums/rules/policy
// shape are accepted; missing fields fall back to the built-in defaults.
func ParseSettings(raw json.RawMessage) (Settings, error) {
	if len(raw) == 0 {
		return DefaultSettings(), nil
	}

	if isLegacyShape(raw) {
		var legacy legacySettings
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return fromLegacy(legacy), nil
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return settings, nil
}

func isLegacyShape(raw json.RawMessage) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return false
	}

	for key := range keys {
		switch strings.ToLower(key) {
		case "enums", "rules", "policy":
			return true
		}
	}
	return false
}

func fromLegacy(legacy legacySettings) Settings {
	settings := DefaultSettings()

	if legacy.Policy.Strictness != "" {
		settings.Policies.Strictness = legacy.Policy.Strictness
	}
	settings.Policies.Autofix = legacy.Policy.Autofix
	if legacy.Policy.UnknownColumns != "" {
		settings.Policies.UnknownColumns = legacy.Policy.UnknownColumns
	}

	if legacy.Enums.Currency != nil {
		settings.Lookups.Currencies = legacy.Enums.Currency
	}
	if legacy.Enums.Unit != nil {
		settings.Lookups.Units = legacy.Enums.Unit
	}
	if legacy.Enums.Status != nil {
		settings.Lookups.Statuses = legacy.Enums.Status
	}
	if legacy.Rules.MissingValues != nil {
		settings.Lookups.MissingValues = legacy.Rules.MissingValues
	}
	if legacy.Rules.DateFormats != nil {
		settings.DateFormats = legacy.Rules.DateFormats
	}
	if legacy.Rules.MaxTextLength > 0 {
		settings.MaxTextLength = legacy.Rules.MaxTextLength
	}

	return settings
}
