package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/kestrelworks/winnow/internal/profiles"
	"github.com/kestrelworks/winnow/pkg/formatting"
)

// SuggestRequest carries the inputs for a custom-rule suggestion.
// Profile is optional context; the model grounds its check in it when present.
type SuggestRequest struct {
	UploadID string
	Column   string
	Prompt   string
	Profile  *profiles.ColumnProfile
}

// Suggester produces custom-rule candidates from a user's natural-language request.
type Suggester interface {
	Suggest(ctx context.Context, req SuggestRequest) (Candidate, error)
}

type agentSuggester struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// NewSuggester creates a model-backed Suggester from the given agent configuration.
func NewSuggester(cfg gaconfig.AgentConfig, logger *slog.Logger) Suggester {
	return &agentSuggester{
		cfg:    cfg,
		logger: logger.With("system", "suggester"),
	}
}

func (s *agentSuggester) Suggest(ctx context.Context, req SuggestRequest) (Candidate, error) {
	a, err := agent.New(&s.cfg)
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: create agent: %w", ErrSuggestFailed, err)
	}

	prompt, err := composeSuggestPrompt(req)
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: %w", ErrSuggestFailed, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: chat call: %w", ErrSuggestFailed, err)
	}

	candidate, err := formatting.Parse[Candidate](resp.Content())
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: parse response: %w", ErrSuggestFailed, err)
	}

	s.logger.InfoContext(
		ctx, "rule suggested",
		"upload_id", req.UploadID,
		"column", req.Column,
		"rule_name", candidate.RuleName,
		"executable", candidate.Executable,
	)

	return candidate, nil
}

// composeSuggestPrompt builds the suggestion prompt from the immutable
// response spec, the user's request, and the column profile when cached.
func composeSuggestPrompt(req SuggestRequest) (string, error) {
	var sb strings.Builder

	sb.WriteString("You design data-quality validation checks for tabular files.\n\n")
	sb.WriteString(suggestSpec)
	sb.WriteString("\n\nColumn: ")
	sb.WriteString(req.Column)
	sb.WriteString("\nRequest: ")
	sb.WriteString(req.Prompt)

	if req.Profile != nil {
		profileJSON, err := json.MarshalIndent(req.Profile, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialize column profile: %w", err)
		}

		sb.WriteString("\n\nColumn profile:\n\n")
		sb.Write(profileJSON)
	}

	return sb.String(), nil
}
