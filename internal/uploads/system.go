package uploads

import (
	"context"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/pkg/pagination"
)

// System defines the public contract for upload domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Upload], error)

	Find(ctx context.Context, id uuid.UUID) (*Upload, error)
	Create(ctx context.Context, cmd CreateCommand) (*Upload, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
