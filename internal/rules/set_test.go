package rules_test

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/kestrelworks/winnow/internal/rules"
)

func seedSet() *rules.Set {
	s := rules.NewSet()
	s.SetGlobal([]rules.RuleState{
		rules.NewRuleState("R1", rules.CategoryAuto, ""),
		rules.NewRuleState("R2", rules.CategoryAuto, ""),
		rules.NewRuleState("R6", rules.CategoryHuman, ""),
	})
	s.SetColumn("amount", []rules.RuleState{
		rules.NewRuleState("R1", rules.CategoryAuto, "amount"),
		rules.NewRuleState("R2", rules.CategoryAuto, "amount"),
		rules.NewRuleState("R6", rules.CategoryHuman, "amount"),
	})
	s.SetColumn("status", []rules.RuleState{
		rules.NewRuleState("R1", rules.CategoryAuto, "status"),
		rules.NewRuleState("R3", rules.CategoryAuto, "status"),
	})
	return s
}

func TestCategoryDefaultSelected(t *testing.T) {
	tests := []struct {
		category rules.Category
		want     bool
	}{
		{rules.CategoryAuto, true},
		{rules.CategoryHuman, false},
		{rules.CategoryCustom, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := tt.category.DefaultSelected(); got != tt.want {
				t.Errorf("DefaultSelected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggleGlobal(t *testing.T) {
	s := seedSet()

	if !s.ToggleGlobal("R1", false) {
		t.Error("ToggleGlobal(R1, false) = false, want true on first change")
	}
	if s.ToggleGlobal("R1", false) {
		t.Error("ToggleGlobal(R1, false) = true, want false when already deselected")
	}
	if s.ToggleGlobal("MISSING", true) {
		t.Error("ToggleGlobal(MISSING, true) = true, want false for unknown rule")
	}

	disabled := s.GlobalDisabled()
	if !slices.Contains(disabled, "R1") {
		t.Errorf("GlobalDisabled() = %v, want to contain R1", disabled)
	}
}

func TestEffectiveLayering(t *testing.T) {
	t.Run("selected auto rules by default", func(t *testing.T) {
		s := seedSet()
		got := s.Effective("amount")
		want := []string{"R1", "R2"}
		if !slices.Equal(got, want) {
			t.Errorf("Effective(amount) = %v, want %v", got, want)
		}
	})

	t.Run("global disable removes across columns", func(t *testing.T) {
		s := seedSet()
		s.ToggleGlobal("R1", false)

		for _, column := range []string{"amount", "status"} {
			if got := s.Effective(column); slices.Contains(got, "R1") {
				t.Errorf("Effective(%s) = %v, want R1 excluded", column, got)
			}
		}
	})

	t.Run("column disable removes locally only", func(t *testing.T) {
		s := seedSet()
		s.SetDisable("amount", []string{"R2"})

		if got := s.Effective("amount"); slices.Contains(got, "R2") {
			t.Errorf("Effective(amount) = %v, want R2 excluded", got)
		}
		if got := s.Effective("status"); !slices.Contains(got, "R1") {
			t.Errorf("Effective(status) = %v, want R1 included", got)
		}
	})

	t.Run("override replaces and ignores disables", func(t *testing.T) {
		s := seedSet()
		s.ToggleGlobal("R1", false)
		s.SetDisable("amount", []string{"R2"})
		s.SetOverride("amount", []string{"R9"})

		got := s.Effective("amount")
		want := []string{"R9"}
		if !slices.Equal(got, want) {
			t.Errorf("Effective(amount) = %v, want %v", got, want)
		}
	})

	t.Run("clear override restores suggested rules", func(t *testing.T) {
		s := seedSet()
		s.SetOverride("amount", []string{"R9"})
		s.ClearOverride("amount")

		got := s.Effective("amount")
		want := []string{"R1", "R2"}
		if !slices.Equal(got, want) {
			t.Errorf("Effective(amount) = %v, want %v", got, want)
		}
	})

	t.Run("custom rules always append", func(t *testing.T) {
		s := seedSet()
		s.SetOverride("amount", []string{"R9"})
		s.AddCustom(rules.CustomRule{RuleID: "CHECK_SIGN", Column: "amount"})

		got := s.Effective("amount")
		want := []string{"R9", "CHECK_SIGN"}
		if !slices.Equal(got, want) {
			t.Errorf("Effective(amount) = %v, want %v", got, want)
		}
	})
}

func TestAddCustom(t *testing.T) {
	t.Run("uppercases and trims", func(t *testing.T) {
		s := rules.NewSet()
		rule := s.AddCustom(rules.CustomRule{RuleID: "  check_sign ", Column: "amount"})
		if rule.RuleID != "CHECK_SIGN" {
			t.Errorf("RuleID = %q, want CHECK_SIGN", rule.RuleID)
		}
	})

	t.Run("generates id when empty", func(t *testing.T) {
		s := rules.NewSet()
		rule := s.AddCustom(rules.CustomRule{Column: "amount"})
		if rule.RuleID == "" {
			t.Fatal("RuleID should be generated")
		}
		if rule.RuleID != strings.ToUpper(rule.RuleID) {
			t.Errorf("RuleID = %q, want uppercase", rule.RuleID)
		}
	})

	t.Run("regenerates on collision", func(t *testing.T) {
		s := rules.NewSet()
		first := s.AddCustom(rules.CustomRule{RuleID: "CHECK", Column: "amount"})
		second := s.AddCustom(rules.CustomRule{RuleID: "check", Column: "status"})
		if first.RuleID == second.RuleID {
			t.Errorf("duplicate RuleID %q assigned twice", first.RuleID)
		}
	})
}

func TestRemoveCustom(t *testing.T) {
	s := rules.NewSet()
	rule := s.AddCustom(rules.CustomRule{RuleID: "CHECK", Column: "amount"})

	if !s.RemoveCustom(rule.RuleID) {
		t.Error("RemoveCustom(CHECK) = false, want true")
	}
	if s.RemoveCustom(rule.RuleID) {
		t.Error("RemoveCustom(CHECK) = true, want false on second removal")
	}
}

func TestDropColumns(t *testing.T) {
	s := seedSet()
	s.SetDisable("status", []string{"R3"})
	s.SetOverride("status", []string{"R9"})
	s.AddCustom(rules.CustomRule{RuleID: "CHECK", Column: "status"})

	s.DropColumns(func(column string) bool { return column == "amount" })

	if _, ok := s.ByColumn["status"]; ok {
		t.Error("ByColumn[status] should be dropped")
	}
	if _, ok := s.DisableByColumn["status"]; ok {
		t.Error("DisableByColumn[status] should be dropped")
	}
	if _, ok := s.OverrideByColumn["status"]; ok {
		t.Error("OverrideByColumn[status] should be dropped")
	}
	if len(s.CustomForColumn("status")) != 0 {
		t.Error("custom rules for status should be dropped")
	}
	if _, ok := s.ByColumn["amount"]; !ok {
		t.Error("ByColumn[amount] should be kept")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rule not found", rules.ErrRuleNotFound, http.StatusNotFound},
		{"column required", rules.ErrColumnRequired, http.StatusBadRequest},
		{"prompt required", rules.ErrPromptRequired, http.StatusBadRequest},
		{"suggestion in flight", rules.ErrSuggestionInFlight, http.StatusConflict},
		{"no suggestion", rules.ErrNoSuggestion, http.StatusNotFound},
		{"not executable", rules.ErrNotExecutable, http.StatusBadRequest},
		{"suggest failed", rules.ErrSuggestFailed, http.StatusBadGateway},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("remove failed: %w", rules.ErrRuleNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
