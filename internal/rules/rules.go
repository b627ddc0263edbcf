// Package rules implements the rule configurator for Winnow.
// It merges global rule toggles, per-column disable/override sets, and
// user-authored custom rules into the effective rule set per column, and
// drives the custom-rule suggestion workflow.
package rules

import "github.com/kestrelworks/winnow/internal/profiles"

// Category classifies a rule's origin and default selection behavior.
type Category string

const (
	CategoryAuto   Category = "auto"
	CategoryHuman  Category = "human"
	CategoryCustom Category = "custom"
)

// DefaultSelected returns the default selected flag for a category.
// Auto rules are pre-selected; human rules require explicit opt-in.
func (c Category) DefaultSelected() bool {
	return c == CategoryAuto
}

// RuleState tracks the selection state of a single rule. Column is empty for
// global-layer rules.
type RuleState struct {
	RuleID   string   `json:"rule_id"`
	Category Category `json:"category"`
	Selected bool     `json:"selected"`
	Column   string   `json:"column,omitempty"`
}

// NewRuleState creates a RuleState with the category's default selection.
func NewRuleState(ruleID string, category Category, column string) RuleState {
	return RuleState{
		RuleID:   ruleID,
		Category: category,
		Selected: category.DefaultSelected(),
		Column:   column,
	}
}

// FromSuggestion converts an engine-suggested rule into a RuleState.
func FromSuggestion(column string, s profiles.SuggestedRule) RuleState {
	category := CategoryHuman
	if s.Decision == profiles.DecisionAuto {
		category = CategoryAuto
	}
	return NewRuleState(s.RuleID, category, column)
}

// CustomRule is a user-authored validation rule. RuleID is assigned on
// approval and is uppercase and unique within a session.
type CustomRule struct {
	RuleID      string   `json:"rule_id"`
	RuleName    string   `json:"rule_name"`
	Template    string   `json:"template"`
	Column      string   `json:"column"`
	Severity    string   `json:"severity,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Code        string   `json:"code,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}
