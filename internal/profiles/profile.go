// Package profiles implements the column profile cache for Winnow.
// It provides the profile types produced by the DQ engine and a keyed,
// merge-by-column store with incremental batch fetching.
package profiles

// Decision indicates whether a suggested rule was pre-selected automatically
// or requires explicit human opt-in.
type Decision string

const (
	DecisionAuto  Decision = "auto"
	DecisionHuman Decision = "human"
)

// SuggestedRule is a validation check the engine proposes for a column.
type SuggestedRule struct {
	RuleID   string   `json:"rule_id"`
	Decision Decision `json:"decision"`
	Source   string   `json:"source"`
}

// ColumnProfile holds the engine's statistical profile for a single column.
// Parse rates and length statistics are only present for columns where the
// engine sampled the corresponding interpretation.
type ColumnProfile struct {
	Column           string          `json:"column"`
	TypeGuess        string          `json:"type_guess"`
	TypeConfidence   float64         `json:"type_confidence"`
	NullRate         float64         `json:"null_rate"`
	UniqueRatio      float64         `json:"unique_ratio"`
	NumericParseRate *float64        `json:"numeric_parse_rate,omitempty"`
	DateParseRate    *float64        `json:"date_parse_rate,omitempty"`
	MinLength        *int            `json:"min_length,omitempty"`
	MaxLength        *int            `json:"max_length,omitempty"`
	AvgLength        *float64        `json:"avg_length,omitempty"`
	Rules            []SuggestedRule `json:"rules"`
}
