package wizard_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kestrelworks/winnow/internal/presets"
	"github.com/kestrelworks/winnow/internal/processing"
	"github.com/kestrelworks/winnow/internal/profiles"
	"github.com/kestrelworks/winnow/internal/rules"
	"github.com/kestrelworks/winnow/internal/wizard"
)

type staticSource struct{}

func (staticSource) Profile(ctx context.Context, uploadID string, columns []string, sampleSize int) (map[string]profiles.ColumnProfile, error) {
	out := make(map[string]profiles.ColumnProfile, len(columns))
	for _, column := range columns {
		out[column] = profiles.ColumnProfile{
			Column:    column,
			TypeGuess: "string",
			Rules: []profiles.SuggestedRule{
				{RuleID: "NOT_NULL", Decision: profiles.DecisionAuto},
				{RuleID: "MAX_LENGTH", Decision: profiles.DecisionHuman},
			},
		}
	}
	return out, nil
}

func openSession(t *testing.T, columns ...string) *wizard.Session {
	t.Helper()
	m := wizard.NewManager()
	return m.Open("u1", "items.csv", columns)
}

func TestSessionDefaults(t *testing.T) {
	s := openSession(t, "sku", "amount", "status")
	state := s.Snapshot()

	if state.Step != wizard.StepColumns {
		t.Errorf("Step = %q, want columns", state.Step)
	}
	if !slices.Equal(state.SelectedColumns, []string{"sku", "amount", "status"}) {
		t.Errorf("SelectedColumns = %v, want all columns selected by default", state.SelectedColumns)
	}
	if state.Settings.Policies != presets.DefaultSettings().Policies {
		t.Errorf("Settings = %+v, want defaults", state.Settings)
	}
	if !state.CanProceed {
		t.Error("CanProceed = false, want true with a non-empty selection")
	}
}

func TestSessionSelectColumns(t *testing.T) {
	t.Run("replaces selection and dedupes", func(t *testing.T) {
		s := openSession(t, "sku", "amount", "status")
		if err := s.SelectColumns([]string{"amount", "sku", "amount"}); err != nil {
			t.Fatalf("SelectColumns() error: %v", err)
		}

		state := s.Snapshot()
		if !slices.Equal(state.SelectedColumns, []string{"amount", "sku"}) {
			t.Errorf("SelectedColumns = %v, want [amount sku]", state.SelectedColumns)
		}
	})

	t.Run("rejects unknown column", func(t *testing.T) {
		s := openSession(t, "sku", "amount")
		err := s.SelectColumns([]string{"sku", "ghost"})
		if !errors.Is(err, wizard.ErrUnknownColumn) {
			t.Errorf("SelectColumns() error = %v, want ErrUnknownColumn", err)
		}
	})

	t.Run("drops configuration for deselected columns", func(t *testing.T) {
		s := openSession(t, "sku", "amount")
		if err := s.DisableRules("amount", []string{"R1"}); err != nil {
			t.Fatalf("DisableRules() error: %v", err)
		}
		if err := s.SelectColumns([]string{"sku"}); err != nil {
			t.Fatalf("SelectColumns() error: %v", err)
		}

		state := s.Snapshot()
		if _, ok := state.Rules.DisableByColumn["amount"]; ok {
			t.Error("DisableByColumn[amount] should be dropped after deselection")
		}
	})

	t.Run("filters required to selection", func(t *testing.T) {
		s := openSession(t, "sku", "amount")
		if err := s.SetRequired([]string{"sku", "amount"}); err != nil {
			t.Fatalf("SetRequired() error: %v", err)
		}
		if err := s.SelectColumns([]string{"amount"}); err != nil {
			t.Fatalf("SelectColumns() error: %v", err)
		}

		state := s.Snapshot()
		if !slices.Equal(state.RequiredColumns, []string{"amount"}) {
			t.Errorf("RequiredColumns = %v, want [amount]", state.RequiredColumns)
		}
	})
}

func TestSessionAdvance(t *testing.T) {
	t.Run("blocked with empty selection", func(t *testing.T) {
		s := openSession(t, "sku")
		if err := s.SelectColumns(nil); err != nil {
			t.Fatalf("SelectColumns() error: %v", err)
		}

		if _, err := s.Advance(); !errors.Is(err, wizard.ErrCannotProceed) {
			t.Errorf("Advance() error = %v, want ErrCannotProceed", err)
		}
	})

	t.Run("profiling requires cached profiles", func(t *testing.T) {
		s := openSession(t, "sku")
		if _, err := s.Advance(); err != nil {
			t.Fatalf("Advance() error: %v", err)
		}

		if _, err := s.Advance(); !errors.Is(err, wizard.ErrCannotProceed) {
			t.Errorf("Advance() error = %v, want ErrCannotProceed before profiling", err)
		}

		if err := s.FetchProfiles(context.Background(), staticSource{}, 100); err != nil {
			t.Fatalf("FetchProfiles() error: %v", err)
		}
		if _, err := s.Advance(); err != nil {
			t.Errorf("Advance() error = %v, want nil with profiles cached", err)
		}
	})

	t.Run("full walk seeds rules and ends at process", func(t *testing.T) {
		s := openSession(t, "sku", "amount")
		if err := s.FetchProfiles(context.Background(), staticSource{}, 100); err != nil {
			t.Fatalf("FetchProfiles() error: %v", err)
		}

		steps := []wizard.Step{
			wizard.StepProfiling,
			wizard.StepSettings,
			wizard.StepRules,
			wizard.StepProcess,
		}
		for _, want := range steps {
			got, err := s.Advance()
			if err != nil {
				t.Fatalf("Advance() to %q error: %v", want, err)
			}
			if got != want {
				t.Fatalf("Advance() = %q, want %q", got, want)
			}
		}

		state := s.Snapshot()
		if len(state.Rules.Global) != 2 {
			t.Errorf("Global rules = %v, want NOT_NULL and MAX_LENGTH seeded once", state.Rules.Global)
		}
		for _, rule := range state.Rules.Global {
			wantSelected := rule.Category == rules.CategoryAuto
			if rule.Selected != wantSelected {
				t.Errorf("rule %s Selected = %v, want %v", rule.RuleID, rule.Selected, wantSelected)
			}
		}
		if state.CanProceed {
			t.Error("CanProceed = true at process step, want false")
		}

		// Process is terminal for navigation.
		if _, err := s.Advance(); !errors.Is(err, wizard.ErrCannotProceed) {
			t.Errorf("Advance() at process error = %v, want ErrCannotProceed", err)
		}
	})

	t.Run("back is a no-op at the first step", func(t *testing.T) {
		s := openSession(t, "sku")
		if got := s.Back(); got != wizard.StepColumns {
			t.Errorf("Back() = %q, want columns", got)
		}
	})
}

func TestSessionSettings(t *testing.T) {
	t.Run("apply preset clears overrides", func(t *testing.T) {
		s := openSession(t, "sku")

		custom := presets.DefaultSettings()
		custom.MaxTextLength = 64
		s.OverrideSettings(custom)

		if s.Snapshot().Overrides == nil {
			t.Fatal("Overrides should be set after OverrideSettings")
		}

		applied := presets.DefaultSettings()
		applied.Policies.Strictness = "strict"
		id := presets.BuiltinDefaultID
		s.ApplyPreset(&id, applied)

		state := s.Snapshot()
		if state.Overrides != nil {
			t.Error("Overrides should be cleared by ApplyPreset")
		}
		if state.Settings.Policies.Strictness != "strict" {
			t.Errorf("Strictness = %q, want strict", state.Settings.Policies.Strictness)
		}
		if state.PresetID == nil || *state.PresetID != id {
			t.Errorf("PresetID = %v, want %v", state.PresetID, id)
		}
	})

	t.Run("override settings records session-local edits", func(t *testing.T) {
		s := openSession(t, "sku")

		custom := presets.DefaultSettings()
		custom.MaxTextLength = 64
		s.OverrideSettings(custom)

		state := s.Snapshot()
		if state.Settings.MaxTextLength != 64 {
			t.Errorf("MaxTextLength = %d, want 64", state.Settings.MaxTextLength)
		}
		if state.Overrides == nil || state.Overrides.MaxTextLength != 64 {
			t.Errorf("Overrides = %+v, want recorded edits", state.Overrides)
		}
	})
}

func TestSessionProcessingGate(t *testing.T) {
	s := openSession(t, "sku")

	if err := s.MarkProcessing(); err != nil {
		t.Fatalf("MarkProcessing() error: %v", err)
	}
	if err := s.MarkProcessing(); !errors.Is(err, processing.ErrAlreadyProcessing) {
		t.Errorf("second MarkProcessing() error = %v, want ErrAlreadyProcessing", err)
	}

	s.FinishProcessing("engine rejected the file")
	state := s.Snapshot()
	if state.IsProcessing {
		t.Error("IsProcessing = true after FinishProcessing")
	}
	if state.ProcessingError != "engine rejected the file" {
		t.Errorf("ProcessingError = %q, want recorded failure", state.ProcessingError)
	}

	if err := s.MarkProcessing(); err != nil {
		t.Errorf("MarkProcessing() after finish error: %v", err)
	}
}

func TestManagerOpen(t *testing.T) {
	t.Run("same upload refreshes in place", func(t *testing.T) {
		m := wizard.NewManager()
		s := m.Open("u1", "items.csv", []string{"sku", "amount", "status"})

		if err := s.SelectColumns([]string{"sku", "status"}); err != nil {
			t.Fatalf("SelectColumns() error: %v", err)
		}
		if err := s.FetchProfiles(context.Background(), staticSource{}, 100); err != nil {
			t.Fatalf("FetchProfiles() error: %v", err)
		}
		if _, err := s.Advance(); err != nil {
			t.Fatalf("Advance() error: %v", err)
		}

		reopened := m.Open("u1", "items-v2.csv", []string{"sku", "amount"})
		state := reopened.Snapshot()

		if state.Step != wizard.StepProfiling {
			t.Errorf("Step = %q, want profiling preserved", state.Step)
		}
		if !slices.Equal(state.SelectedColumns, []string{"sku"}) {
			t.Errorf("SelectedColumns = %v, want intersection [sku]", state.SelectedColumns)
		}
		if state.FileName != "items-v2.csv" {
			t.Errorf("FileName = %q, want items-v2.csv", state.FileName)
		}
		if m.Len() != 1 {
			t.Errorf("Len() = %d, want 1", m.Len())
		}
	})

	t.Run("different upload starts fresh", func(t *testing.T) {
		m := wizard.NewManager()
		s := m.Open("u1", "items.csv", []string{"sku"})
		if err := s.FetchProfiles(context.Background(), staticSource{}, 100); err != nil {
			t.Fatalf("FetchProfiles() error: %v", err)
		}
		if _, err := s.Advance(); err != nil {
			t.Fatalf("Advance() error: %v", err)
		}

		other := m.Open("u2", "other.csv", []string{"sku"})
		if other.Snapshot().Step != wizard.StepColumns {
			t.Errorf("Step = %q, want columns for a fresh session", other.Snapshot().Step)
		}
		if m.Len() != 2 {
			t.Errorf("Len() = %d, want 2", m.Len())
		}
	})

	t.Run("get and close", func(t *testing.T) {
		m := wizard.NewManager()
		m.Open("u1", "items.csv", []string{"sku"})

		if _, err := m.Get("u1"); err != nil {
			t.Errorf("Get(u1) error: %v", err)
		}

		m.Close("u1")
		if _, err := m.Get("u1"); !errors.Is(err, wizard.ErrSessionNotFound) {
			t.Errorf("Get(u1) after close error = %v, want ErrSessionNotFound", err)
		}
	})
}

func TestSessionView(t *testing.T) {
	s := openSession(t, "sku", "amount")
	if err := s.SetRequired([]string{"sku"}); err != nil {
		t.Fatalf("SetRequired() error: %v", err)
	}

	view := s.View()
	if view.UploadID != "u1" {
		t.Errorf("UploadID = %q, want u1", view.UploadID)
	}
	if !slices.Equal(view.SelectedColumns, []string{"sku", "amount"}) {
		t.Errorf("SelectedColumns = %v, want [sku amount]", view.SelectedColumns)
	}
	if !slices.Equal(view.RequiredColumns, []string{"sku"}) {
		t.Errorf("RequiredColumns = %v, want [sku]", view.RequiredColumns)
	}

	payload, err := processing.BuildPayload(view)
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}
	if payload.SelectedColumns != nil {
		t.Errorf("SelectedColumns = %v, want omitted for full selection", payload.SelectedColumns)
	}
}
