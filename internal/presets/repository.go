package presets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/pkg/pagination"
	"github.com/kestrelworks/winnow/pkg/query"
	"github.com/kestrelworks/winnow/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a preset repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "presets"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Preset], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count presets: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	presets, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPreset)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}

	result := pagination.NewPageResult(presets, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) All(ctx context.Context) ([]Preset, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	presets, err := repository.QueryMany(ctx, r.db, q, args, scanPreset)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}

	for _, p := range presets {
		if p.IsDefault {
			return presets, nil
		}
	}

	return append(presets, BuiltinDefault()), nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Preset, error) {
	if id == BuiltinDefaultID {
		builtin := BuiltinDefault()
		return &builtin, nil
	}

	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPreset)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Preset, error) {
	if err := validateCommand(cmd.Name, cmd.Config); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO presets(name, config, is_default)
		VALUES ($1, $2, $3)
		RETURNING id, name, config, is_default, created_at, updated_at`

	args := []any{cmd.Name, cmd.Config, cmd.IsDefault}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Preset, error) {
		if cmd.IsDefault {
			if err := clearDefault(ctx, tx); err != nil {
				return Preset{}, err
			}
		}
		return repository.QueryOne(ctx, tx, q, args, scanPreset)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("preset created", "id", p.ID, "name", p.Name, "default", p.IsDefault)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Preset, error) {
	if err := validateCommand(cmd.Name, cmd.Config); err != nil {
		return nil, err
	}

	q := `
		UPDATE presets
		SET name = $1, config = $2, is_default = $3, updated_at = now()
		WHERE id = $4
		RETURNING id, name, config, is_default, created_at, updated_at`

	args := []any{cmd.Name, cmd.Config, cmd.IsDefault, id}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Preset, error) {
		if cmd.IsDefault {
			if err := clearDefault(ctx, tx); err != nil {
				return Preset{}, err
			}
		}
		return repository.QueryOne(ctx, tx, q, args, scanPreset)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("preset updated", "id", p.ID, "name", p.Name, "default", p.IsDefault)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM presets WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("preset deleted", "id", id)
	return nil
}

func (r *repo) Resolve(ctx context.Context, id *uuid.UUID) (Settings, error) {
	if id != nil {
		p, err := r.Find(ctx, *id)
		if err != nil {
			return Settings{}, err
		}
		return ParseSettings(p.Config)
	}

	q, args := query.NewBuilder(projection).BuildSingle("IsDefault", true)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPreset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("resolve default preset: %w", err)
	}

	return ParseSettings(p.Config)
}

func validateCommand(name string, config json.RawMessage) error {
	if name == "" {
		return ErrNameRequired
	}
	if _, err := ParseSettings(config); err != nil {
		return err
	}
	return nil
}

func clearDefault(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(
		ctx,
		"UPDATE presets SET is_default = false WHERE is_default = true",
	); err != nil {
		return fmt.Errorf("clear default preset: %w", err)
	}
	return nil
}
