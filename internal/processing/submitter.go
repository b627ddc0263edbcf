package processing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kestrelworks/winnow/internal/engine"
)

// Submitter compiles session views into payloads and issues the start-job
// call against the engine. It is the single submission path shared by
// session pre-validation and the workflow's compile and submit nodes.
type Submitter struct {
	engine engine.System
	logger *slog.Logger
}

// NewSubmitter creates a Submitter backed by the given engine.
func NewSubmitter(sys engine.System, logger *slog.Logger) *Submitter {
	return &Submitter{
		engine: sys,
		logger: logger.With("system", "processing"),
	}
}

// Compile validates and compiles the session view into a submission
// payload. Failures reject before any network call is made.
func (s *Submitter) Compile(view SessionView) (Payload, error) {
	return BuildPayload(view)
}

// Start issues the start-job call for a compiled payload. Engine
// rejections are wrapped as ErrSubmitFailed so callers can distinguish
// them from later polling errors.
func (s *Submitter) Start(ctx context.Context, uploadID string, payload Payload) error {
	if err := s.engine.Submit(ctx, uploadID, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	s.logger.Info("job submitted",
		"upload", uploadID,
		"custom_rules", len(payload.CustomRules),
	)
	return nil
}
