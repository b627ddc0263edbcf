// Package wizard implements the processing-wizard orchestrator: an ordered
// stepper that accumulates column selection, profiling results, rule
// configuration, and settings into one submission, then tracks the
// resulting job to a terminal outcome.
package wizard

import "slices"

// Step is one stage of the wizard's fixed progression.
type Step string

// Wizard steps, in order.
const (
	StepColumns   Step = "columns"
	StepProfiling Step = "profiling"
	StepSettings  Step = "settings"
	StepRules     Step = "rules"
	StepProcess   Step = "process"
)

var stepOrder = []Step{
	StepColumns,
	StepProfiling,
	StepSettings,
	StepRules,
	StepProcess,
}

// Steps returns the wizard steps in progression order.
func Steps() []Step {
	return slices.Clone(stepOrder)
}

// ParseStep validates a step string.
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if !slices.Contains(stepOrder, step) {
		return "", ErrInvalidStep
	}
	return step, nil
}

// Next returns the following step. The final step returns itself.
func (s Step) Next() Step {
	i := slices.Index(stepOrder, s)
	if i < 0 || i == len(stepOrder)-1 {
		return s
	}
	return stepOrder[i+1]
}

// Prev returns the preceding step. The first step returns itself.
func (s Step) Prev() Step {
	i := slices.Index(stepOrder, s)
	if i <= 0 {
		return s
	}
	return stepOrder[i-1]
}
