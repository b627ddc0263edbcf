package jobs

import (
	"context"
	"database/sql"
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

// New creates a job repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "jobs"),
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
) (*pagination.PageResult[Job], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "UploadID", "Status")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	jobs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanJob)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	result := pagination.NewPageResult(jobs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Job, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	j, err := repository.QueryOne(ctx, r.db, q, args, scanJob)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &j, nil
}

func (r *repo) Latest(ctx context.Context, uploadID string) (*Job, error) {
	q := `
		SELECT j.id, j.upload_id, j.status, j.rows_total, j.rows_clean,
		       j.rows_quarantined, j.dq_score, j.reason, j.submitted_at, j.completed_at
		FROM jobs j
		WHERE j.upload_id = $1
		ORDER BY j.submitted_at DESC
		LIMIT 1`

	j, err := repository.QueryOne(ctx, r.db, q, []any{uploadID}, scanJob)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &j, nil
}

func (r *repo) Start(ctx context.Context, uploadID, status string) (*Job, error) {
	q := `
		INSERT INTO jobs(upload_id, status)
		VALUES ($1, $2)
		RETURNING id, upload_id, status, rows_total, rows_clean,
		          rows_quarantined, dq_score, reason, submitted_at, completed_at`

	j, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Job, error) {
		return repository.QueryOne(ctx, tx, q, []any{uploadID, status}, scanJob)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("job recorded", "id", j.ID, "upload", j.UploadID, "status", j.Status)
	return &j, nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID, cmd CompleteCommand) (*Job, error) {
	q := `
		UPDATE jobs
		SET status = $1, rows_total = $2, rows_clean = $3, rows_quarantined = $4,
		    dq_score = $5, reason = $6, completed_at = now()
		WHERE id = $7
		RETURNING id, upload_id, status, rows_total, rows_clean,
		          rows_quarantined, dq_score, reason, submitted_at, completed_at`

	args := []any{
		cmd.Status,
		cmd.RowsTotal,
		cmd.RowsClean,
		cmd.RowsQuarantined,
		cmd.Score,
		cmd.Reason,
		id,
	}

	j, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Job, error) {
		return repository.QueryOne(ctx, tx, q, args, scanJob)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("job completed", "id", j.ID, "upload", j.UploadID, "status", j.Status)
	return &j, nil
}
