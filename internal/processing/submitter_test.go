package processing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kestrelworks/winnow/internal/processing"
	"github.com/kestrelworks/winnow/internal/rules"
)

func TestSubmitterCompile(t *testing.T) {
	eng := &fakeEngine{}
	sub := processing.NewSubmitter(eng, discard())

	t.Run("valid view compiles without network", func(t *testing.T) {
		view := processing.SessionView{
			UploadID:        "u1",
			AllColumns:      []string{"a", "b"},
			SelectedColumns: []string{"a"},
			Rules:           *rules.NewSet(),
		}

		payload, err := sub.Compile(view)
		if err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
		if len(payload.SelectedColumns) != 1 {
			t.Errorf("SelectedColumns = %v, want [a]", payload.SelectedColumns)
		}
		if len(eng.submitted) != 0 {
			t.Errorf("submissions = %d, want 0", len(eng.submitted))
		}
	})

	t.Run("empty selection rejects without network", func(t *testing.T) {
		view := processing.SessionView{
			UploadID:        "u1",
			AllColumns:      []string{"a", "b"},
			SelectedColumns: nil,
			Rules:           *rules.NewSet(),
		}

		if _, err := sub.Compile(view); !errors.Is(err, processing.ErrNoColumns) {
			t.Fatalf("Compile() error = %v, want ErrNoColumns", err)
		}
		if len(eng.submitted) != 0 {
			t.Errorf("submissions = %d, want 0", len(eng.submitted))
		}
	})
}

func TestSubmitterStart(t *testing.T) {
	t.Run("issues the start-job call", func(t *testing.T) {
		eng := &fakeEngine{}
		sub := processing.NewSubmitter(eng, discard())

		if err := sub.Start(context.Background(), "u1", processing.Payload{}); err != nil {
			t.Fatalf("Start() error: %v", err)
		}
		if len(eng.submitted) != 1 || eng.submitted[0] != "u1" {
			t.Errorf("submitted = %v, want [u1]", eng.submitted)
		}
	})

	t.Run("engine rejection wraps as submit failure", func(t *testing.T) {
		eng := &fakeEngine{submitErr: errors.New("engine unavailable")}
		sub := processing.NewSubmitter(eng, discard())

		err := sub.Start(context.Background(), "u1", processing.Payload{})
		if !errors.Is(err, processing.ErrSubmitFailed) {
			t.Fatalf("Start() error = %v, want ErrSubmitFailed", err)
		}
	})
}
