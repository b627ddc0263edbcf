package jobs

import (
	"context"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/pkg/pagination"
)

// System defines the public contract for job record operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Job], error)

	Find(ctx context.Context, id uuid.UUID) (*Job, error)

	// Latest returns the most recently submitted job for an upload.
	Latest(ctx context.Context, uploadID string) (*Job, error)

	// Start records a new submission at the given status.
	Start(ctx context.Context, uploadID, status string) (*Job, error)

	// Complete records the terminal outcome observed for a job.
	Complete(ctx context.Context, id uuid.UUID, cmd CompleteCommand) (*Job, error)
}
