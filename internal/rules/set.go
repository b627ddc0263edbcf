package rules

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Set holds the three configuration layers for one wizard session:
// a global layer applied uniformly across columns, a per-column layer of
// disable or override sets, and an always-additive custom layer.
type Set struct {
	Global           []RuleState            `json:"global_rules"`
	ByColumn         map[string][]RuleState `json:"column_rules"`
	DisableByColumn  map[string][]string    `json:"disable_rules_by_column"`
	OverrideByColumn map[string][]string    `json:"column_rules_override"`
	Custom           []CustomRule           `json:"custom_rules"`
}

// NewSet creates an empty rule set.
func NewSet() *Set {
	return &Set{
		Global:           make([]RuleState, 0),
		ByColumn:         make(map[string][]RuleState),
		DisableByColumn:  make(map[string][]string),
		OverrideByColumn: make(map[string][]string),
		Custom:           make([]CustomRule, 0),
	}
}

// SetGlobal replaces the global rule states.
func (s *Set) SetGlobal(states []RuleState) {
	s.Global = slices.Clone(states)
}

// SetColumn replaces the tracked rule states for a column.
func (s *Set) SetColumn(column string, states []RuleState) {
	s.ByColumn[column] = slices.Clone(states)
}

// ToggleGlobal sets the selected flag of a global rule. Returns true when the
// flag changed; toggling to the current value is a no-op.
func (s *Set) ToggleGlobal(ruleID string, selected bool) bool {
	return toggle(s.Global, ruleID, selected)
}

// ToggleColumn sets the selected flag of a column rule. Returns true when the
// flag changed.
func (s *Set) ToggleColumn(column, ruleID string, selected bool) bool {
	return toggle(s.ByColumn[column], ruleID, selected)
}

func toggle(states []RuleState, ruleID string, selected bool) bool {
	for i := range states {
		if states[i].RuleID == ruleID {
			if states[i].Selected == selected {
				return false
			}
			states[i].Selected = selected
			return true
		}
	}
	return false
}

// GlobalDisabled returns the rule ids with selected=false in the global layer.
func (s *Set) GlobalDisabled() []string {
	disabled := make([]string, 0)
	for _, state := range s.Global {
		if !state.Selected {
			disabled = append(disabled, state.RuleID)
		}
	}
	return disabled
}

// SetDisable records a baseline exclusion set for a column. Disable sets only
// apply to columns without an active override.
func (s *Set) SetDisable(column string, ruleIDs []string) {
	if len(ruleIDs) == 0 {
		delete(s.DisableByColumn, column)
		return
	}
	s.DisableByColumn[column] = slices.Clone(ruleIDs)
}

// SetOverride records a full replacement of the suggested rule set for a column.
func (s *Set) SetOverride(column string, ruleIDs []string) {
	if ruleIDs == nil {
		delete(s.OverrideByColumn, column)
		return
	}
	s.OverrideByColumn[column] = slices.Clone(ruleIDs)
}

// ClearOverride removes the override for a column, restoring suggested rules.
func (s *Set) ClearOverride(column string) {
	delete(s.OverrideByColumn, column)
}

// AddCustom appends an approved custom rule, guaranteeing a unique uppercase
// rule id. Custom rules are additive regardless of disable/override state.
func (s *Set) AddCustom(rule CustomRule) CustomRule {
	rule.RuleID = s.uniqueCustomID(rule.RuleID)
	s.Custom = append(s.Custom, rule)
	return rule
}

// RemoveCustom deletes a custom rule by id. Returns true when a rule was removed.
func (s *Set) RemoveCustom(ruleID string) bool {
	for i, rule := range s.Custom {
		if rule.RuleID == ruleID {
			s.Custom = slices.Delete(s.Custom, i, i+1)
			return true
		}
	}
	return false
}

// CustomForColumn returns the custom rules targeting a column, in approval order.
func (s *Set) CustomForColumn(column string) []CustomRule {
	out := make([]CustomRule, 0)
	for _, rule := range s.Custom {
		if rule.Column == column {
			out = append(out, rule)
		}
	}
	return out
}

// DropColumns removes per-column configuration and custom rules for columns
// no longer in the selection.
func (s *Set) DropColumns(keep func(column string) bool) {
	for column := range s.ByColumn {
		if !keep(column) {
			delete(s.ByColumn, column)
		}
	}
	for column := range s.DisableByColumn {
		if !keep(column) {
			delete(s.DisableByColumn, column)
		}
	}
	for column := range s.OverrideByColumn {
		if !keep(column) {
			delete(s.OverrideByColumn, column)
		}
	}
	s.Custom = slices.DeleteFunc(s.Custom, func(rule CustomRule) bool {
		return !keep(rule.Column)
	})
}

// Effective computes the final rule ids for a column. An override set fully
// replaces the column's suggested rules and ignores disable sets; otherwise
// the selected suggested rules minus global and per-column disables apply.
// Custom rules for the column are always appended.
func (s *Set) Effective(column string) []string {
	var ids []string

	if override, ok := s.OverrideByColumn[column]; ok {
		ids = slices.Clone(override)
	} else {
		globalDisabled := s.GlobalDisabled()
		columnDisabled := s.DisableByColumn[column]

		for _, state := range s.ByColumn[column] {
			if !state.Selected {
				continue
			}
			if slices.Contains(globalDisabled, state.RuleID) {
				continue
			}
			if slices.Contains(columnDisabled, state.RuleID) {
				continue
			}
			ids = append(ids, state.RuleID)
		}
	}

	for _, rule := range s.CustomForColumn(column) {
		if !slices.Contains(ids, rule.RuleID) {
			ids = append(ids, rule.RuleID)
		}
	}

	return ids
}

func (s *Set) uniqueCustomID(candidate string) string {
	id := strings.ToUpper(strings.TrimSpace(candidate))
	if id == "" {
		id = generatedRuleID()
	}

	for s.hasCustomID(id) {
		id = generatedRuleID()
	}
	return id
}

func (s *Set) hasCustomID(id string) bool {
	return slices.ContainsFunc(s.Custom, func(rule CustomRule) bool {
		return rule.RuleID == id
	})
}

func generatedRuleID() string {
	return "CUSTOM_" + strings.ToUpper(uuid.NewString()[:8])
}
