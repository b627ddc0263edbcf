package workflow

import (
	"log/slog"

	"github.com/kestrelworks/winnow/internal/engine"
	"github.com/kestrelworks/winnow/internal/jobs"
	"github.com/kestrelworks/winnow/internal/processing"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Engine    engine.System
	Jobs      jobs.System
	Submitter *processing.Submitter
	Options   processing.Options
	Logger    *slog.Logger

	// Observe, when set, receives the poller as soon as it is created so
	// the host can surface live snapshots while the run is in flight.
	Observe func(*processing.Poller)
}
