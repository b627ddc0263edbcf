package presets

import (
	"context"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/pkg/pagination"
)

// System defines the public contract for preset domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Preset], error)

	// All returns every stored preset. When none is flagged default, the
	// built-in Standard preset is appended so callers always see exactly
	// one default.
	All(ctx context.Context) ([]Preset, error)

	Find(ctx context.Context, id uuid.UUID) (*Preset, error)
	Create(ctx context.Context, cmd CreateCommand) (*Preset, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Preset, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Resolve parses the selected preset's config into Settings. A nil id
	// resolves the stored default, falling back to the built-in defaults
	// when no stored preset is flagged default.
	Resolve(ctx context.Context, id *uuid.UUID) (Settings, error)
}
