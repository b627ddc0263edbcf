package processing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kestrelworks/winnow/internal/engine"
)

// State identifies where the polling state machine currently sits.
type State string

// Polling states.
const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Snapshot is the poller's externally visible state. Observers read it
// through Snapshot() rather than registering callbacks, so any number of
// them can attach without threading through call signatures.
type Snapshot struct {
	State    State             `json:"state"`
	Status   Status            `json:"status,omitempty"`
	Progress int               `json:"progress"`
	Message  string            `json:"message"`
	Reason   string            `json:"reason,omitempty"`
	Job      *engine.JobStatus `json:"job,omitempty"`
}

// Options tunes one polling run.
type Options struct {
	Interval      time.Duration
	Timeout       time.Duration
	RetryBudget   int
	FallbackAfter int
	ListFallback  bool
}

// InteractiveOptions is the short-interval variant used while a user is
// watching the wizard's process step.
func InteractiveOptions() Options {
	return Options{
		Interval:    2 * time.Second,
		Timeout:     5 * time.Minute,
		RetryBudget: 3,
	}
}

// SmartOptions is the long-running variant with the file-list completion
// fallback enabled.
func SmartOptions() Options {
	return Options{
		Interval:      10 * time.Second,
		Timeout:       30 * time.Minute,
		RetryBudget:   3,
		FallbackAfter: 6,
		ListFallback:  true,
	}
}

// Poller drives one upload's job status to a terminal outcome.
type Poller struct {
	engine   engine.System
	uploadID string
	opts     Options
	logger   *slog.Logger

	mu   sync.RWMutex
	snap Snapshot
}

// NewPoller creates a Poller for the given upload. It starts idle; Run
// moves it to processing.
func NewPoller(sys engine.System, uploadID string, opts Options, logger *slog.Logger) *Poller {
	return &Poller{
		engine:   sys,
		uploadID: uploadID,
		opts:     opts,
		logger:   logger.With("system", "poller", "upload", uploadID),
		snap: Snapshot{
			State:   StateIdle,
			Message: "Waiting to start",
		},
	}
}

// Snapshot returns the current polling state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Run polls the engine until the job reaches a terminal state, the timeout
// ceiling is breached, or the context is canceled. Cancellation stops
// observation only; the external job keeps running. The final snapshot is
// returned and remains readable through Snapshot().
func (p *Poller) Run(ctx context.Context) Snapshot {
	p.update(func(s *Snapshot) {
		s.State = StateProcessing
		s.Progress = 5
		s.Message = "Submitted for processing"
	})

	deadline := time.Now().Add(p.opts.Timeout)
	nonTerminal := 0
	retries := 0

	for {
		job, err := p.engine.Status(ctx, p.uploadID)
		switch {
		case ctx.Err() != nil:
			return p.Snapshot()

		case err != nil:
			if engine.IsTransient(err) && retries < p.opts.RetryBudget {
				retries++
				p.logger.Warn("status poll failed, retrying",
					"attempt", retries, "error", err)
				if !p.sleep(ctx, time.Duration(retries)*p.opts.Interval) {
					return p.Snapshot()
				}
				continue
			}
			return p.fail("", err.Error(), nil)

		default:
			retries = 0
			status := Status(job.Status)

			if status.TerminalSuccess() {
				return p.succeed(status, &job)
			}
			if status.TerminalFailure() {
				reason := job.Reason
				if reason == "" {
					reason = status.Message()
				}
				return p.fail(status, reason, &job)
			}

			nonTerminal++
			p.advance(status, &job)

			if p.opts.ListFallback && nonTerminal == p.opts.FallbackAfter {
				if done, listed := p.listCompleted(ctx); done {
					return p.succeed(listed, &job)
				}
			}
		}

		if time.Now().After(deadline) {
			if p.opts.ListFallback {
				if done, listed := p.listCompleted(ctx); done {
					return p.succeed(listed, nil)
				}
			}
			return p.fail("", ErrTimeout.Error(), nil)
		}

		if !p.sleep(ctx, p.opts.Interval) {
			return p.Snapshot()
		}
	}
}

// listCompleted cross-checks the file list for a terminal-success record
// at this upload id. The direct status query is sometimes observed stale
// relative to the list endpoint.
func (p *Poller) listCompleted(ctx context.Context) (bool, Status) {
	files, err := p.engine.Files(ctx)
	if err != nil {
		p.logger.Warn("file list fallback failed", "error", err)
		return false, ""
	}

	for _, f := range files {
		if f.UploadID != p.uploadID {
			continue
		}
		if status := Status(f.Status); status.TerminalSuccess() {
			p.logger.Info("completion detected via file list", "status", status)
			return true, status
		}
	}
	return false, ""
}

func (p *Poller) advance(status Status, job *engine.JobStatus) {
	p.update(func(s *Snapshot) {
		s.Status = status
		s.Message = status.Message()
		s.Job = job

		next := status.progressFloor()
		if next <= s.Progress {
			next = s.Progress + 1
		}
		if next > 95 {
			next = 95
		}
		s.Progress = next
	})
}

func (p *Poller) succeed(status Status, job *engine.JobStatus) Snapshot {
	p.update(func(s *Snapshot) {
		s.State = StateSuccess
		s.Status = status
		s.Progress = 100
		s.Message = status.Message()
		s.Reason = ""
		if job != nil {
			s.Job = job
		}
	})

	snap := p.Snapshot()
	p.logger.Info("job completed", "status", snap.Status)
	return snap
}

func (p *Poller) fail(status Status, reason string, job *engine.JobStatus) Snapshot {
	p.update(func(s *Snapshot) {
		s.State = StateError
		s.Status = status
		s.Message = "Processing failed"
		s.Reason = reason
		if job != nil {
			s.Job = job
		}
	})

	snap := p.Snapshot()
	p.logger.Error("job failed", "status", snap.Status, "reason", snap.Reason)
	return snap
}

func (p *Poller) update(fn func(*Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.snap)
}

// sleep waits for d or context cancellation, reporting whether the wait
// completed.
func (p *Poller) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
