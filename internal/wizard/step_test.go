package wizard_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/kestrelworks/winnow/internal/wizard"
)

func TestSteps(t *testing.T) {
	want := []wizard.Step{
		wizard.StepColumns,
		wizard.StepProfiling,
		wizard.StepSettings,
		wizard.StepRules,
		wizard.StepProcess,
	}

	if got := wizard.Steps(); !slices.Equal(got, want) {
		t.Errorf("Steps() = %v, want %v", got, want)
	}
}

func TestParseStep(t *testing.T) {
	t.Run("valid steps", func(t *testing.T) {
		for _, step := range wizard.Steps() {
			got, err := wizard.ParseStep(string(step))
			if err != nil {
				t.Errorf("ParseStep(%q) error: %v", step, err)
			}
			if got != step {
				t.Errorf("ParseStep(%q) = %q", step, got)
			}
		}
	})

	t.Run("invalid step", func(t *testing.T) {
		if _, err := wizard.ParseStep("review"); !errors.Is(err, wizard.ErrInvalidStep) {
			t.Errorf("ParseStep(review) error = %v, want ErrInvalidStep", err)
		}
	})
}

func TestStepNavigation(t *testing.T) {
	tests := []struct {
		step wizard.Step
		next wizard.Step
		prev wizard.Step
	}{
		{wizard.StepColumns, wizard.StepProfiling, wizard.StepColumns},
		{wizard.StepProfiling, wizard.StepSettings, wizard.StepColumns},
		{wizard.StepSettings, wizard.StepRules, wizard.StepProfiling},
		{wizard.StepRules, wizard.StepProcess, wizard.StepSettings},
		{wizard.StepProcess, wizard.StepProcess, wizard.StepRules},
	}

	for _, tt := range tests {
		t.Run(string(tt.step), func(t *testing.T) {
			if got := tt.step.Next(); got != tt.next {
				t.Errorf("Next() = %q, want %q", got, tt.next)
			}
			if got := tt.step.Prev(); got != tt.prev {
				t.Errorf("Prev() = %q, want %q", got, tt.prev)
			}
		})
	}
}
