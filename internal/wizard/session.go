package wizard

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/internal/presets"
	"github.com/kestrelworks/winnow/internal/processing"
	"github.com/kestrelworks/winnow/internal/profiles"
	"github.com/kestrelworks/winnow/internal/rules"
)

// Session holds one upload's accumulated wizard configuration. All access
// goes through its methods; two sessions for two uploads share no mutable
// state and may progress concurrently.
type Session struct {
	mu sync.Mutex

	uploadID string
	fileName string
	step     Step

	allColumns []string
	selected   []string
	required   []string

	profiles   *profiles.Cache
	profileErr string

	settings  presets.Settings
	presetID  *uuid.UUID
	overrides *presets.Settings

	rules      *rules.Set
	suggestion *rules.Suggestion

	processing    bool
	processingErr string
}

// State is the read-only JSON view of a session exposed to the host.
type State struct {
	UploadID        string                            `json:"upload_id"`
	FileName        string                            `json:"file_name"`
	Step            Step                              `json:"step"`
	CanProceed      bool                              `json:"can_proceed"`
	AllColumns      []string                          `json:"all_columns"`
	SelectedColumns []string                          `json:"selected_columns"`
	RequiredColumns []string                          `json:"required_columns"`
	Profiles        map[string]profiles.ColumnProfile `json:"column_profiles"`
	ProfileError    string                            `json:"profile_error,omitempty"`
	Settings        presets.Settings                  `json:"settings"`
	PresetID        *uuid.UUID                        `json:"preset_id,omitempty"`
	Overrides       *presets.Settings                 `json:"preset_overrides,omitempty"`
	Rules           rules.Set                         `json:"rules"`
	Suggestion      rules.Suggestion                  `json:"suggestion"`
	IsProcessing    bool                              `json:"is_processing"`
	ProcessingError string                            `json:"processing_error,omitempty"`
}

func newSession(uploadID, fileName string, columns []string) *Session {
	return &Session{
		uploadID:   uploadID,
		fileName:   fileName,
		step:       StepColumns,
		allColumns: slices.Clone(columns),
		selected:   slices.Clone(columns),
		required:   make([]string, 0),
		profiles:   profiles.NewCache(),
		settings:   presets.DefaultSettings(),
		rules:      rules.NewSet(),
		suggestion: rules.NewSuggestion(),
	}
}

// refresh re-applies a possibly changed column set to an existing session.
// The step is preserved; the selection is filtered to the intersection with
// the new columns, and configuration for dropped columns is discarded.
func (s *Session) refresh(fileName string, columns []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fileName = fileName
	s.allColumns = slices.Clone(columns)
	s.selected = intersect(s.selected, columns)
	s.required = intersect(s.required, columns)

	keep := func(column string) bool {
		return slices.Contains(s.selected, column)
	}
	s.rules.DropColumns(keep)
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		UploadID:        s.uploadID,
		FileName:        s.fileName,
		Step:            s.step,
		CanProceed:      s.canProceed(),
		AllColumns:      slices.Clone(s.allColumns),
		SelectedColumns: slices.Clone(s.selected),
		RequiredColumns: slices.Clone(s.required),
		Profiles:        s.profiles.Snapshot(),
		ProfileError:    s.profileErr,
		Settings:        s.settings,
		PresetID:        s.presetID,
		Overrides:       s.overrides,
		Rules:           *s.rules,
		Suggestion:      *s.suggestion,
		IsProcessing:    s.processing,
		ProcessingError: s.processingErr,
	}
	return state
}

// SelectColumns replaces the column selection. Every column must belong to
// the upload; configuration for deselected columns is discarded.
func (s *Session) SelectColumns(columns []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := make([]string, 0, len(columns))
	for _, column := range columns {
		if !slices.Contains(s.allColumns, column) {
			return ErrUnknownColumn
		}
		if !slices.Contains(selected, column) {
			selected = append(selected, column)
		}
	}

	s.selected = selected
	s.required = intersect(s.required, selected)

	keep := func(column string) bool {
		return slices.Contains(selected, column)
	}
	s.rules.DropColumns(keep)
	return nil
}

// SetRequired replaces the required column set.
func (s *Session) SetRequired(columns []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, column := range columns {
		if !slices.Contains(s.allColumns, column) {
			return ErrUnknownColumn
		}
	}
	s.required = slices.Clone(columns)
	return nil
}

// Advance moves to the next step when the current step's requirements are
// met. The process step is terminal; submission, not navigation, follows.
func (s *Session) Advance() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.canProceed() {
		return s.step, ErrCannotProceed
	}

	s.step = s.step.Next()
	if s.step == StepRules {
		s.seedRules()
	}
	return s.step, nil
}

// Back moves to the previous step; a no-op at the first step.
func (s *Session) Back() Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step = s.step.Prev()
	return s.step
}

// CanProceed reports whether the current step's requirements are met.
func (s *Session) CanProceed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canProceed()
}

func (s *Session) canProceed() bool {
	switch s.step {
	case StepColumns:
		return len(s.selected) > 0
	case StepProfiling:
		return len(s.selected) > 0 && s.profiles.Len() > 0
	case StepSettings, StepRules:
		return true
	default:
		return false
	}
}

// FetchProfiles batch-requests profiles for selected columns not already
// cached. A failure sets a step-scoped error and preserves prior entries;
// the user re-invokes explicitly, there is no automatic retry.
func (s *Session) FetchProfiles(ctx context.Context, src profiles.Source, sampleSize int) error {
	s.mu.Lock()
	uploadID := s.uploadID
	columns := slices.Clone(s.selected)
	s.mu.Unlock()

	err := s.profiles.Fetch(ctx, src, uploadID, columns, sampleSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.profileErr = err.Error()
		return err
	}
	s.profileErr = ""
	return nil
}

// ProfileColumn fetches a single column's profile, used when a column is
// added to the selection after the initial batch.
func (s *Session) ProfileColumn(ctx context.Context, src profiles.Source, column string, sampleSize int) error {
	s.mu.Lock()
	if !slices.Contains(s.selected, column) {
		s.mu.Unlock()
		return ErrUnknownColumn
	}
	uploadID := s.uploadID
	s.mu.Unlock()

	err := s.profiles.FetchOne(ctx, src, uploadID, column, sampleSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.profileErr = err.Error()
		return err
	}
	s.profileErr = ""
	return nil
}

// seedRules populates the rule layers from cached profile suggestions the
// first time the rules step is entered. Auto rules start selected, human
// rules start deselected.
func (s *Session) seedRules() {
	if len(s.rules.Global) > 0 {
		return
	}

	cached := s.profiles.Snapshot()
	var global []rules.RuleState

	for _, column := range s.selected {
		profile, ok := cached[column]
		if !ok {
			continue
		}

		var states []rules.RuleState
		for _, suggested := range profile.Rules {
			state := rules.FromSuggestion(column, suggested)
			states = append(states, state)

			if !slices.ContainsFunc(global, func(g rules.RuleState) bool {
				return g.RuleID == state.RuleID
			}) {
				global = append(global, rules.NewRuleState(state.RuleID, state.Category, ""))
			}
		}
		s.rules.SetColumn(column, states)
	}

	s.rules.SetGlobal(global)
}

// ToggleGlobalRule flips one global rule's selected flag. Idempotent.
func (s *Session) ToggleGlobalRule(ruleID string, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.ToggleGlobal(ruleID, selected)
}

// ToggleColumnRule flips one column rule's selected flag. Idempotent.
func (s *Session) ToggleColumnRule(column, ruleID string, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.ToggleColumn(column, ruleID, selected)
}

// DisableRules records a baseline exclusion set for a column.
func (s *Session) DisableRules(column string, ruleIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.selected, column) {
		return ErrUnknownColumn
	}
	s.rules.SetDisable(column, ruleIDs)
	return nil
}

// OverrideRules records a full replacement rule set for a column.
func (s *Session) OverrideRules(column string, ruleIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.selected, column) {
		return ErrUnknownColumn
	}
	s.rules.SetOverride(column, ruleIDs)
	return nil
}

// ClearOverride removes a column's override, restoring suggested rules.
func (s *Session) ClearOverride(column string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.ClearOverride(column)
}

// RemoveCustomRule deletes a custom rule by id.
func (s *Session) RemoveCustomRule(ruleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rules.RemoveCustom(ruleID) {
		return rules.ErrRuleNotFound
	}
	return nil
}

// BeginSuggestion validates and starts a custom rule suggestion request.
func (s *Session) BeginSuggestion(column, prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if column != "" && !slices.Contains(s.selected, column) {
		return ErrUnknownColumn
	}
	return s.suggestion.Begin(column, prompt)
}

// CompleteSuggestion records the returned candidate as pending approval.
func (s *Session) CompleteSuggestion(candidate rules.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestion.Complete(candidate)
}

// FailSuggestion records a suggestion failure.
func (s *Session) FailSuggestion(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestion.Fail(err)
}

// ApproveSuggestion converts the pending candidate into a custom rule with
// a unique uppercase id. Refused without change when the candidate is not
// executable.
func (s *Session) ApproveSuggestion() (rules.CustomRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, err := s.suggestion.Approve()
	if err != nil {
		return rules.CustomRule{}, err
	}
	return s.rules.AddCustom(rule), nil
}

// RejectSuggestion discards the pending suggestion.
func (s *Session) RejectSuggestion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestion.Reject()
}

// ApplyPreset records the selected preset and its resolved settings,
// clearing any session-local overrides.
func (s *Session) ApplyPreset(id *uuid.UUID, settings presets.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.presetID = id
	s.settings = settings
	s.overrides = nil
}

// OverrideSettings records session-local edits applied on top of whichever
// preset is selected, without persisting the preset itself.
func (s *Session) OverrideSettings(settings presets.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	s.overrides = &settings
}

// View compiles the submission view of the session.
func (s *Session) View() processing.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return processing.SessionView{
		UploadID:        s.uploadID,
		AllColumns:      slices.Clone(s.allColumns),
		SelectedColumns: slices.Clone(s.selected),
		RequiredColumns: slices.Clone(s.required),
		Rules:           *s.rules,
		PresetID:        s.presetID,
		PresetOverrides: s.overrides,
	}
}

// MarkProcessing gates submission: at most one processing run per session.
func (s *Session) MarkProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return processing.ErrAlreadyProcessing
	}
	s.processing = true
	s.processingErr = ""
	return nil
}

// FinishProcessing clears the in-flight gate, recording a failure message
// when the run ended in error.
func (s *Session) FinishProcessing(errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processing = false
	s.processingErr = errMsg
}

// intersect filters base to members of allowed, preserving base order.
func intersect(base, allowed []string) []string {
	out := make([]string, 0, len(base))
	for _, v := range base {
		if slices.Contains(allowed, v) {
			out = append(out, v)
		}
	}
	return out
}
