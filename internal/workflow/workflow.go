package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/kestrelworks/winnow/internal/processing"
)

// Execute runs the processing workflow for a single configured session.
// It builds the state graph (compile → submit → poll → record), executes
// it, and extracts the RunResult from the final state. A run whose poll
// ends in error still records the outcome and returns a RunResult; only
// graph-level failures return an error.
func Execute(ctx context.Context, rt *Runtime, view processing.SessionView) (*RunResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeySession, view)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(view.UploadID, finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("winnow-process")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("compile", CompileNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("submit", SubmitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("poll", PollNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("record", RecordNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("compile", "submit", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("submit", "poll", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("poll", "record", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("compile"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("record"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(uploadID string, s state.State) (*RunResult, error) {
	jobID, err := extractJobID(s)
	if err != nil {
		return nil, err
	}

	snap, err := extractSnapshot(s)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		UploadID:    uploadID,
		JobID:       jobID,
		Snapshot:    snap,
		CompletedAt: time.Now(),
	}, nil
}
