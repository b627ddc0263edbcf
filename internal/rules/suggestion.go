package rules

// SuggestionPhase tracks the custom-rule suggestion workflow:
// none → suggesting → {suggested | failed}.
type SuggestionPhase string

const (
	SuggestionNone       SuggestionPhase = "none"
	SuggestionSuggesting SuggestionPhase = "suggesting"
	SuggestionSuggested  SuggestionPhase = "suggested"
	SuggestionFailed     SuggestionPhase = "failed"
)

// Candidate is a suggested custom rule held pending user approval. It is not
// part of the session's custom rules until explicitly approved.
type Candidate struct {
	RuleID      string   `json:"rule_id,omitempty"`
	RuleName    string   `json:"rule_name"`
	Template    string   `json:"template"`
	Severity    string   `json:"severity,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Code        string   `json:"code,omitempty"`
	Executable  bool     `json:"executable"`
}

// Suggestion is the per-session pending suggestion state machine.
type Suggestion struct {
	Phase     SuggestionPhase `json:"phase"`
	Column    string          `json:"column,omitempty"`
	Prompt    string          `json:"prompt,omitempty"`
	Candidate *Candidate      `json:"candidate,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// NewSuggestion creates a suggestion machine in the none phase.
func NewSuggestion() *Suggestion {
	return &Suggestion{Phase: SuggestionNone}
}

// Begin starts a suggestion request. Column and prompt are validated before
// any network call; a second request cannot start while one is in flight.
func (s *Suggestion) Begin(column, prompt string) error {
	if s.Phase == SuggestionSuggesting {
		return ErrSuggestionInFlight
	}
	if column == "" {
		return ErrColumnRequired
	}
	if prompt == "" {
		return ErrPromptRequired
	}

	*s = Suggestion{
		Phase:  SuggestionSuggesting,
		Column: column,
		Prompt: prompt,
	}
	return nil
}

// Complete records a returned candidate, moving to the suggested phase.
func (s *Suggestion) Complete(candidate Candidate) {
	s.Phase = SuggestionSuggested
	s.Candidate = &candidate
	s.Error = ""
}

// Fail records a suggestion error, moving to the failed phase.
func (s *Suggestion) Fail(err error) {
	s.Phase = SuggestionFailed
	s.Candidate = nil
	s.Error = err.Error()
}

// Approve converts the pending candidate into a custom rule ready to append.
// Refused when no candidate is pending or the candidate is not executable;
// the pending state is left untouched on refusal.
func (s *Suggestion) Approve() (CustomRule, error) {
	if s.Phase != SuggestionSuggested || s.Candidate == nil {
		return CustomRule{}, ErrNoSuggestion
	}
	if !s.Candidate.Executable {
		return CustomRule{}, ErrNotExecutable
	}

	rule := CustomRule{
		RuleID:      s.Candidate.RuleID,
		RuleName:    s.Candidate.RuleName,
		Template:    s.Candidate.Template,
		Column:      s.Column,
		Severity:    s.Candidate.Severity,
		Explanation: s.Candidate.Explanation,
		Code:        s.Candidate.Code,
		Confidence:  s.Candidate.Confidence,
	}

	*s = Suggestion{Phase: SuggestionNone}
	return rule, nil
}

// Reject discards the pending suggestion.
func (s *Suggestion) Reject() {
	*s = Suggestion{Phase: SuggestionNone}
}
