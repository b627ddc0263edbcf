package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/kestrelworks/winnow/internal/jobs"
	"github.com/kestrelworks/winnow/internal/processing"
)

// CompileNode returns a state node that compiles the session view into a
// submission payload. Validation failures stop the run before any network
// call is made.
func CompileNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		view, err := extractView(s)
		if err != nil {
			return s, fmt.Errorf("compile: %w", err)
		}

		payload, err := rt.Submitter.Compile(view)
		if err != nil {
			return s, fmt.Errorf("compile: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "compile node complete",
			"upload", view.UploadID,
			"custom_rules", len(payload.CustomRules),
		)

		return s.Set(KeyPayload, payload), nil
	})
}

// SubmitNode returns a state node that issues the start-job call and
// records the submission.
func SubmitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		view, err := extractView(s)
		if err != nil {
			return s, fmt.Errorf("submit: %w", err)
		}

		val, ok := s.Get(KeyPayload)
		if !ok {
			return s, fmt.Errorf("submit: %w: missing %s", ErrInvalidState, KeyPayload)
		}

		payload, ok := val.(processing.Payload)
		if !ok {
			return s, fmt.Errorf("submit: %w: %s is not Payload", ErrInvalidState, KeyPayload)
		}

		if err := rt.Submitter.Start(ctx, view.UploadID, payload); err != nil {
			return s, fmt.Errorf("submit: %w", err)
		}

		job, err := rt.Jobs.Start(ctx, view.UploadID, string(processing.StatusQueued))
		if err != nil {
			return s, fmt.Errorf("submit: record job: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "submit node complete",
			"upload", view.UploadID,
			"job", job.ID,
		)

		return s.Set(KeyJobID, job.ID), nil
	})
}

// PollNode returns a state node that drives the job to a terminal outcome.
// The poller is handed to the runtime observer before polling begins.
func PollNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		view, err := extractView(s)
		if err != nil {
			return s, fmt.Errorf("poll: %w", err)
		}

		poller := processing.NewPoller(rt.Engine, view.UploadID, rt.Options, rt.Logger)
		if rt.Observe != nil {
			rt.Observe(poller)
		}

		snap := poller.Run(ctx)
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("poll: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "poll node complete",
			"upload", view.UploadID,
			"state", snap.State,
			"status", snap.Status,
		)

		return s.Set(KeySnapshot, snap), nil
	})
}

// RecordNode returns a state node that records the observed terminal
// outcome against the job.
func RecordNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		jobID, err := extractJobID(s)
		if err != nil {
			return s, fmt.Errorf("record: %w", err)
		}

		snap, err := extractSnapshot(s)
		if err != nil {
			return s, fmt.Errorf("record: %w", err)
		}

		cmd := jobs.CompleteCommand{
			Status: string(snap.Status),
			Reason: snap.Reason,
		}
		if snap.Job != nil {
			cmd.RowsTotal = snap.Job.RowsTotal
			cmd.RowsClean = snap.Job.RowsClean
			cmd.RowsQuarantined = snap.Job.RowsQuarantined
			cmd.Score = snap.Job.Score
		}

		if _, err := rt.Jobs.Complete(ctx, jobID, cmd); err != nil {
			return s, fmt.Errorf("record: %w", err)
		}

		return s, nil
	})
}

func extractView(s state.State) (processing.SessionView, error) {
	val, ok := s.Get(KeySession)
	if !ok {
		return processing.SessionView{}, fmt.Errorf("%w: missing %s", ErrInvalidState, KeySession)
	}

	view, ok := val.(processing.SessionView)
	if !ok {
		return processing.SessionView{}, fmt.Errorf("%w: %s is not SessionView", ErrInvalidState, KeySession)
	}
	return view, nil
}

func extractJobID(s state.State) (uuid.UUID, error) {
	val, ok := s.Get(KeyJobID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s", ErrInvalidState, KeyJobID)
	}

	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s is not uuid.UUID", ErrInvalidState, KeyJobID)
	}
	return id, nil
}

func extractSnapshot(s state.State) (processing.Snapshot, error) {
	val, ok := s.Get(KeySnapshot)
	if !ok {
		return processing.Snapshot{}, fmt.Errorf("%w: missing %s", ErrInvalidState, KeySnapshot)
	}

	snap, ok := val.(processing.Snapshot)
	if !ok {
		return processing.Snapshot{}, fmt.Errorf("%w: %s is not Snapshot", ErrInvalidState, KeySnapshot)
	}
	return snap, nil
}
