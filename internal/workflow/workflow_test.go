package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/internal/engine"
	"github.com/kestrelworks/winnow/internal/jobs"
	"github.com/kestrelworks/winnow/internal/processing"
	"github.com/kestrelworks/winnow/internal/profiles"
	"github.com/kestrelworks/winnow/internal/rules"
	"github.com/kestrelworks/winnow/internal/workflow"
	"github.com/kestrelworks/winnow/pkg/pagination"
)

type fakeEngine struct {
	mu        sync.Mutex
	submitted []any
	statuses  []string
	polls     int
	submitErr error
}

func (f *fakeEngine) Submit(ctx context.Context, uploadID string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, payload)
	return nil
}

func (f *fakeEngine) Status(ctx context.Context, uploadID string) (engine.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.polls
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.polls++
	return engine.JobStatus{UploadID: uploadID, Status: f.statuses[i]}, nil
}

func (f *fakeEngine) Register(ctx context.Context, uploadID, filename, storageKey string) error {
	return nil
}

func (f *fakeEngine) Columns(ctx context.Context, uploadID string) ([]string, error) {
	return nil, nil
}

func (f *fakeEngine) Profile(ctx context.Context, uploadID string, columns []string, sampleSize int) (map[string]profiles.ColumnProfile, error) {
	return nil, nil
}

func (f *fakeEngine) Files(ctx context.Context) ([]engine.FileRecord, error) {
	return nil, nil
}

type fakeJobs struct {
	mu        sync.Mutex
	started   []*jobs.Job
	completed map[uuid.UUID]jobs.CompleteCommand
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{completed: make(map[uuid.UUID]jobs.CompleteCommand)}
}

func (f *fakeJobs) Handler() *jobs.Handler { return nil }

func (f *fakeJobs) List(ctx context.Context, page pagination.PageRequest, filters jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
	return nil, nil
}

func (f *fakeJobs) Find(ctx context.Context, id uuid.UUID) (*jobs.Job, error) {
	return nil, jobs.ErrNotFound
}

func (f *fakeJobs) Latest(ctx context.Context, uploadID string) (*jobs.Job, error) {
	return nil, jobs.ErrNotFound
}

func (f *fakeJobs) Start(ctx context.Context, uploadID, status string) (*jobs.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job := &jobs.Job{
		ID:          uuid.New(),
		UploadID:    uploadID,
		Status:      status,
		SubmittedAt: time.Now(),
	}
	f.started = append(f.started, job)
	return job, nil
}

func (f *fakeJobs) Complete(ctx context.Context, id uuid.UUID, cmd jobs.CompleteCommand) (*jobs.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[id] = cmd
	return &jobs.Job{ID: id, Status: cmd.Status}, nil
}

func testRuntime(eng *fakeEngine, jobSys *fakeJobs) *workflow.Runtime {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &workflow.Runtime{
		Engine:    eng,
		Jobs:      jobSys,
		Submitter: processing.NewSubmitter(eng, logger),
		Options: processing.Options{
			Interval:    time.Millisecond,
			Timeout:     time.Second,
			RetryBudget: 3,
		},
		Logger: logger,
	}
}

func testView() processing.SessionView {
	return processing.SessionView{
		UploadID:        "u1",
		AllColumns:      []string{"sku", "amount"},
		SelectedColumns: []string{"sku", "amount"},
		Rules:           *rules.NewSet(),
	}
}

func TestExecute(t *testing.T) {
	t.Run("successful run records completion", func(t *testing.T) {
		eng := &fakeEngine{statuses: []string{"QUEUED", "DQ_RUNNING", "DQ_COMPLETE"}}
		jobSys := newFakeJobs()
		rt := testRuntime(eng, jobSys)

		result, err := workflow.Execute(context.Background(), rt, testView())
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if !result.Succeeded() {
			t.Errorf("Succeeded() = false, snapshot: %+v", result.Snapshot)
		}
		if result.UploadID != "u1" {
			t.Errorf("UploadID = %q, want u1", result.UploadID)
		}
		if len(eng.submitted) != 1 {
			t.Fatalf("submissions = %d, want 1", len(eng.submitted))
		}
		if len(jobSys.started) != 1 {
			t.Fatalf("started jobs = %d, want 1", len(jobSys.started))
		}

		cmd, ok := jobSys.completed[result.JobID]
		if !ok {
			t.Fatal("job outcome was not recorded")
		}
		if cmd.Status != string(processing.StatusComplete) {
			t.Errorf("recorded status = %q, want DQ_COMPLETE", cmd.Status)
		}
	})

	t.Run("failed run still records outcome", func(t *testing.T) {
		eng := &fakeEngine{statuses: []string{"QUEUED", "DQ_FAILED"}}
		jobSys := newFakeJobs()
		rt := testRuntime(eng, jobSys)

		result, err := workflow.Execute(context.Background(), rt, testView())
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if result.Succeeded() {
			t.Error("Succeeded() = true, want false")
		}
		if result.Snapshot.State != processing.StateError {
			t.Errorf("State = %q, want error", result.Snapshot.State)
		}

		cmd, ok := jobSys.completed[result.JobID]
		if !ok {
			t.Fatal("job outcome was not recorded")
		}
		if cmd.Status != string(processing.StatusFailed) {
			t.Errorf("recorded status = %q, want DQ_FAILED", cmd.Status)
		}
	})

	t.Run("empty selection stops before submission", func(t *testing.T) {
		eng := &fakeEngine{statuses: []string{"QUEUED"}}
		jobSys := newFakeJobs()
		rt := testRuntime(eng, jobSys)

		view := testView()
		view.SelectedColumns = nil

		_, err := workflow.Execute(context.Background(), rt, view)
		if !errors.Is(err, processing.ErrNoColumns) {
			t.Fatalf("Execute() error = %v, want ErrNoColumns", err)
		}
		if len(eng.submitted) != 0 {
			t.Errorf("submissions = %d, want 0", len(eng.submitted))
		}
	})

	t.Run("submit failure surfaces wrapped error", func(t *testing.T) {
		eng := &fakeEngine{
			statuses:  []string{"QUEUED"},
			submitErr: errors.New("engine unavailable"),
		}
		jobSys := newFakeJobs()
		rt := testRuntime(eng, jobSys)

		_, err := workflow.Execute(context.Background(), rt, testView())
		if !errors.Is(err, processing.ErrSubmitFailed) {
			t.Fatalf("Execute() error = %v, want ErrSubmitFailed", err)
		}
		if len(jobSys.started) != 0 {
			t.Errorf("started jobs = %d, want 0", len(jobSys.started))
		}
	})

	t.Run("observer receives the poller", func(t *testing.T) {
		eng := &fakeEngine{statuses: []string{"DQ_COMPLETE"}}
		jobSys := newFakeJobs()
		rt := testRuntime(eng, jobSys)

		var observed *processing.Poller
		rt.Observe = func(p *processing.Poller) { observed = p }

		if _, err := workflow.Execute(context.Background(), rt, testView()); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if observed == nil {
			t.Fatal("observer was not invoked")
		}
		if observed.Snapshot().State != processing.StateSuccess {
			t.Errorf("observed final state = %q, want success", observed.Snapshot().State)
		}
	})
}
