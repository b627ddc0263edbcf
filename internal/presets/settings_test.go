package presets_test

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/kestrelworks/winnow/internal/presets"
)

func TestParseSettings(t *testing.T) {
	t.Run("empty config returns defaults", func(t *testing.T) {
		got, err := presets.ParseSettings(nil)
		if err != nil {
			t.Fatalf("ParseSettings(nil) error: %v", err)
		}
		want := presets.DefaultSettings()
		if got.Policies != want.Policies {
			t.Errorf("Policies = %+v, want %+v", got.Policies, want.Policies)
		}
		if got.MaxTextLength != want.MaxTextLength {
			t.Errorf("MaxTextLength = %d, want %d", got.MaxTextLength, want.MaxTextLength)
		}
	})

	t.Run("modern shape", func(t *testing.T) {
		raw := json.RawMessage(`{
			"policies": {"strictness": "strict", "autofix": false, "unknown_columns": "drop"},
			"lookups": {"currencies": ["JPY"]},
			"date_formats": ["2006-01-02"],
			"max_text_length": 64
		}`)

		got, err := presets.ParseSettings(raw)
		if err != nil {
			t.Fatalf("ParseSettings() error: %v", err)
		}
		if got.Policies.Strictness != "strict" {
			t.Errorf("Strictness = %q, want strict", got.Policies.Strictness)
		}
		if got.Policies.Autofix {
			t.Error("Autofix = true, want false")
		}
		if !slices.Equal(got.Lookups.Currencies, []string{"JPY"}) {
			t.Errorf("Currencies = %v, want [JPY]", got.Lookups.Currencies)
		}
		if got.MaxTextLength != 64 {
			t.Errorf("MaxTextLength = %d, want 64", got.MaxTextLength)
		}
	})

	t.Run("legacy nested shape", func(t *testing.T) {
		raw := json.RawMessage(`{
			"enums": {"currency": ["CHF"], "status": ["open", "closed"]},
			"rules": {"missing_values": ["?"], "date_formats": ["02.01.2006"], "max_text_length": 128},
			"policy": {"strictness": "lenient", "autofix": true, "unknown_columns": "quarantine"}
		}`)

		got, err := presets.ParseSettings(raw)
		if err != nil {
			t.Fatalf("ParseSettings() error: %v", err)
		}
		if got.Policies.Strictness != "lenient" {
			t.Errorf("Strictness = %q, want lenient", got.Policies.Strictness)
		}
		if got.Policies.UnknownColumns != "quarantine" {
			t.Errorf("UnknownColumns = %q, want quarantine", got.Policies.UnknownColumns)
		}
		if !slices.Equal(got.Lookups.Currencies, []string{"CHF"}) {
			t.Errorf("Currencies = %v, want [CHF]", got.Lookups.Currencies)
		}
		if !slices.Equal(got.Lookups.Statuses, []string{"open", "closed"}) {
			t.Errorf("Statuses = %v, want [open closed]", got.Lookups.Statuses)
		}
		if !slices.Equal(got.Lookups.MissingValues, []string{"?"}) {
			t.Errorf("MissingValues = %v, want [?]", got.Lookups.MissingValues)
		}
		if got.MaxTextLength != 128 {
			t.Errorf("MaxTextLength = %d, want 128", got.MaxTextLength)
		}
	})

	t.Run("legacy shape keeps defaults for omitted lists", func(t *testing.T) {
		raw := json.RawMessage(`{"policy": {"strictness": "strict"}}`)

		got, err := presets.ParseSettings(raw)
		if err != nil {
			t.Fatalf("ParseSettings() error: %v", err)
		}
		want := presets.DefaultSettings()
		if !slices.Equal(got.Lookups.Units, want.Lookups.Units) {
			t.Errorf("Units = %v, want defaults %v", got.Lookups.Units, want.Lookups.Units)
		}
		if !slices.Equal(got.DateFormats, want.DateFormats) {
			t.Errorf("DateFormats = %v, want defaults %v", got.DateFormats, want.DateFormats)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := presets.ParseSettings(json.RawMessage(`{not json`))
		if !errors.Is(err, presets.ErrInvalidConfig) {
			t.Errorf("ParseSettings() error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestBuiltinDefault(t *testing.T) {
	p := presets.BuiltinDefault()

	if p.ID != presets.BuiltinDefaultID {
		t.Errorf("ID = %v, want BuiltinDefaultID", p.ID)
	}
	if !p.IsDefault {
		t.Error("IsDefault = false, want true")
	}

	settings, err := presets.ParseSettings(p.Config)
	if err != nil {
		t.Fatalf("ParseSettings(builtin config) error: %v", err)
	}
	if settings.Policies != presets.DefaultSettings().Policies {
		t.Errorf("builtin config policies = %+v, want defaults", settings.Policies)
	}
}
