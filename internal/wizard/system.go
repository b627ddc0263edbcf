package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/internal/engine"
	"github.com/kestrelworks/winnow/internal/jobs"
	"github.com/kestrelworks/winnow/internal/presets"
	"github.com/kestrelworks/winnow/internal/processing"
	"github.com/kestrelworks/winnow/internal/rules"
	"github.com/kestrelworks/winnow/internal/workflow"
)

// System defines the public contract for wizard operations. Every
// operation that mutates a session returns the refreshed state so the
// host always renders from one authoritative view.
type System interface {
	Handler() *Handler

	Open(ctx context.Context, uploadID, fileName string) (State, error)
	Session(uploadID string) (State, error)
	Close(uploadID string)

	SelectColumns(uploadID string, columns []string) (State, error)
	SetRequired(uploadID string, columns []string) (State, error)
	Advance(uploadID string) (State, error)
	Back(uploadID string) (State, error)

	FetchProfiles(ctx context.Context, uploadID string) (State, error)
	ProfileColumn(ctx context.Context, uploadID, column string) (State, error)

	SelectPreset(ctx context.Context, uploadID, preset string) (State, error)
	OverrideSettings(uploadID string, settings presets.Settings) (State, error)

	ToggleGlobalRule(uploadID, ruleID string, selected bool) (State, error)
	ToggleColumnRule(uploadID, column, ruleID string, selected bool) (State, error)
	DisableRules(uploadID, column string, ruleIDs []string) (State, error)
	OverrideRules(uploadID, column string, ruleIDs []string) (State, error)
	ClearOverride(uploadID, column string) (State, error)
	RemoveCustomRule(uploadID, ruleID string) (State, error)

	Suggest(ctx context.Context, uploadID, column, prompt string) (State, error)
	ApproveSuggestion(uploadID string) (State, error)
	RejectSuggestion(uploadID string) (State, error)

	Submit(uploadID string) (processing.Snapshot, error)
	Status(uploadID string) (processing.Snapshot, error)
	Cancel(uploadID string) error
}

type service struct {
	engine     engine.System
	presets    presets.System
	jobs       jobs.System
	suggester  rules.Suggester
	submitter  *processing.Submitter
	sessions   *Manager
	sampleSize int
	options    processing.Options
	logger     *slog.Logger

	mu      sync.Mutex
	pollers map[string]*processing.Poller
	cancels map[string]context.CancelFunc
}

// New creates the wizard service.
func New(
	engineSys engine.System,
	presetSys presets.System,
	jobSys jobs.System,
	suggester rules.Suggester,
	sampleSize int,
	options processing.Options,
	logger *slog.Logger,
) System {
	return &service{
		engine:     engineSys,
		presets:    presetSys,
		jobs:       jobSys,
		suggester:  suggester,
		submitter:  processing.NewSubmitter(engineSys, logger),
		sessions:   NewManager(),
		sampleSize: sampleSize,
		options:    options,
		logger:     logger.With("system", "wizard"),
		pollers:    make(map[string]*processing.Poller),
		cancels:    make(map[string]context.CancelFunc),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Open discovers the upload's columns and opens (or refreshes) its session.
func (s *service) Open(ctx context.Context, uploadID, fileName string) (State, error) {
	columns, err := s.engine.Columns(ctx, uploadID)
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	session := s.sessions.Open(uploadID, fileName, columns)
	s.logger.Info("session opened", "upload", uploadID, "columns", len(columns))
	return session.Snapshot(), nil
}

func (s *service) Session(uploadID string) (State, error) {
	session, err := s.sessions.Get(uploadID)
	if err != nil {
		return State{}, err
	}
	return session.Snapshot(), nil
}

// Close discards the session and stops observing any in-flight run. The
// external job is not canceled; it is only re-observed if a new session
// resumes polling.
func (s *service) Close(uploadID string) {
	s.mu.Lock()
	if cancel, ok := s.cancels[uploadID]; ok {
		cancel()
		delete(s.cancels, uploadID)
	}
	delete(s.pollers, uploadID)
	s.mu.Unlock()

	s.sessions.Close(uploadID)
	s.logger.Info("session closed", "upload", uploadID)
}

func (s *service) SelectColumns(uploadID string, columns []string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		return session.SelectColumns(columns)
	})
}

func (s *service) SetRequired(uploadID string, columns []string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		return session.SetRequired(columns)
	})
}

func (s *service) Advance(uploadID string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		_, err := session.Advance()
		return err
	})
}

func (s *service) Back(uploadID string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		session.Back()
		return nil
	})
}

func (s *service) FetchProfiles(ctx context.Context, uploadID string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		return session.FetchProfiles(ctx, s.engine, s.sampleSize)
	})
}

func (s *service) ProfileColumn(ctx context.Context, uploadID, column string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		return session.ProfileColumn(ctx, s.engine, column, s.sampleSize)
	})
}

// SelectPreset applies a preset by id. "none" clears the selection so raw
// defaults apply.
func (s *service) SelectPreset(ctx context.Context, uploadID, preset string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		if preset == "" || preset == "none" {
			session.ApplyPreset(nil, presets.DefaultSettings())
			return nil
		}

		id, err := uuid.Parse(preset)
		if err != nil {
			return presets.ErrNotFound
		}

		settings, err := s.presets.Resolve(ctx, &id)
		if err != nil {
			return err
		}

		session.ApplyPreset(&id, settings)
		return nil
	})
}

func (s *service) OverrideSettings(uploadID string, settings presets.Settings) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		session.OverrideSettings(settings)
		return nil
	})
}

func (s *service) ToggleGlobalRule(uploadID, ruleID string, selected bool) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		session.ToggleGlobalRule(ruleID, selected)
		return nil
	})
}

func (s *service) ToggleColumnRule(uploadID, column, ruleID string, selected bool) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		session.ToggleColumnRule(column, ruleID, selected)
		return nil
	})
}

func (s *service) DisableRules(uploadID, column string, ruleIDs []string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		return session.DisableRules(column, ruleIDs)
	})
}

func (s *service) OverrideRules(uploadID, column string, ruleIDs []string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		return session.OverrideRules(column, ruleIDs)
	})
}

func (s *service) ClearOverride(uploadID, column string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		session.ClearOverride(column)
		return nil
	})
}

func (s *service) RemoveCustomRule(uploadID, ruleID string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		return session.RemoveCustomRule(ruleID)
	})
}

// Suggest requests a custom rule candidate for a column. Suggestion
// failures land in the session's suggestion state rather than failing the
// operation; validation failures fail it before any network call.
func (s *service) Suggest(ctx context.Context, uploadID, column, prompt string) (State, error) {
	session, err := s.sessions.Get(uploadID)
	if err != nil {
		return State{}, err
	}

	if err := session.BeginSuggestion(column, prompt); err != nil {
		return State{}, err
	}

	req := rules.SuggestRequest{
		UploadID: uploadID,
		Column:   column,
		Prompt:   prompt,
	}
	if profile, ok := session.Snapshot().Profiles[column]; ok {
		req.Profile = &profile
	}

	candidate, err := s.suggester.Suggest(ctx, req)
	if err != nil {
		s.logger.Warn("suggestion failed", "upload", uploadID, "column", column, "error", err)
		session.FailSuggestion(fmt.Errorf("%w: %w", rules.ErrSuggestFailed, err))
		return session.Snapshot(), nil
	}

	session.CompleteSuggestion(candidate)
	return session.Snapshot(), nil
}

func (s *service) ApproveSuggestion(uploadID string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		_, err := session.ApproveSuggestion()
		return err
	})
}

func (s *service) RejectSuggestion(uploadID string) (State, error) {
	return s.mutate(uploadID, func(session *Session) error {
		session.RejectSuggestion()
		return nil
	})
}

// Submit compiles the session and starts the processing run. Validation
// failures reject synchronously with no network call; the run itself
// executes in the background and is observed through Status.
func (s *service) Submit(uploadID string) (processing.Snapshot, error) {
	session, err := s.sessions.Get(uploadID)
	if err != nil {
		return processing.Snapshot{}, err
	}

	view := session.View()
	if _, err := s.submitter.Compile(view); err != nil {
		return processing.Snapshot{}, err
	}

	if err := session.MarkProcessing(); err != nil {
		return processing.Snapshot{}, err
	}

	runCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	delete(s.pollers, uploadID)
	s.cancels[uploadID] = cancel
	s.mu.Unlock()

	rt := &workflow.Runtime{
		Engine:    s.engine,
		Jobs:      s.jobs,
		Submitter: s.submitter,
		Options:   s.options,
		Logger:    s.logger,
		Observe: func(p *processing.Poller) {
			s.mu.Lock()
			s.pollers[uploadID] = p
			s.mu.Unlock()
		},
	}

	go s.run(runCtx, cancel, rt, session, view)

	return processing.Snapshot{
		State:    processing.StateProcessing,
		Progress: 5,
		Message:  "Submitted for processing",
	}, nil
}

func (s *service) run(
	ctx context.Context,
	cancel context.CancelFunc,
	rt *workflow.Runtime,
	session *Session,
	view processing.SessionView,
) {
	defer cancel()

	result, err := workflow.Execute(ctx, rt, view)
	canceled := errors.Is(err, context.Canceled)
	switch {
	case canceled:
		session.FinishProcessing("")
	case err != nil:
		s.logger.Error("processing run failed", "upload", view.UploadID, "error", err)
		session.FinishProcessing(err.Error())
	case result.Succeeded():
		session.FinishProcessing("")
	default:
		session.FinishProcessing(result.Snapshot.Reason)
	}

	s.mu.Lock()
	delete(s.cancels, view.UploadID)
	// A canceled run never reaches a terminal snapshot, so the poller's
	// last observation would report processing forever. Drop it and let
	// Status fall back to the session's own state.
	if canceled {
		delete(s.pollers, view.UploadID)
	}
	s.mu.Unlock()
}

// Status returns the live polling snapshot for an upload's run.
func (s *service) Status(uploadID string) (processing.Snapshot, error) {
	session, err := s.sessions.Get(uploadID)
	if err != nil {
		return processing.Snapshot{}, err
	}

	s.mu.Lock()
	poller := s.pollers[uploadID]
	s.mu.Unlock()

	if poller != nil {
		return poller.Snapshot(), nil
	}

	state := session.Snapshot()
	switch {
	case state.ProcessingError != "":
		return processing.Snapshot{
			State:   processing.StateError,
			Message: "Processing failed",
			Reason:  state.ProcessingError,
		}, nil
	case state.IsProcessing:
		return processing.Snapshot{
			State:    processing.StateProcessing,
			Progress: 5,
			Message:  "Submitted for processing",
		}, nil
	default:
		return processing.Snapshot{
			State:   processing.StateIdle,
			Message: "Waiting to start",
		}, nil
	}
}

// Cancel stops observing an in-flight run. The external job continues.
func (s *service) Cancel(uploadID string) error {
	if _, err := s.sessions.Get(uploadID); err != nil {
		return err
	}

	s.mu.Lock()
	cancel, ok := s.cancels[uploadID]
	s.mu.Unlock()

	if !ok {
		return ErrNotProcessing
	}

	cancel()
	s.logger.Info("polling canceled", "upload", uploadID)
	return nil
}

func (s *service) mutate(uploadID string, fn func(*Session) error) (State, error) {
	session, err := s.sessions.Get(uploadID)
	if err != nil {
		return State{}, err
	}

	if err := fn(session); err != nil {
		return State{}, err
	}
	return session.Snapshot(), nil
}
