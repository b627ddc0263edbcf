package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kestrelworks/winnow/internal/profiles"
)

type client struct {
	http    *http.Client
	baseURL string
	token   string
	logger  *slog.Logger
}

// New creates an engine client from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return &client{
		http:    &http.Client{Timeout: cfg.RequestTimeoutDuration()},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger.With("system", "engine"),
	}
}

func (c *client) Register(ctx context.Context, uploadID, filename, storageKey string) error {
	body := registerRequest{
		UploadID:   uploadID,
		Filename:   filename,
		StorageKey: storageKey,
	}
	return c.do(ctx, http.MethodPost, "/files", body, nil)
}

func (c *client) Columns(ctx context.Context, uploadID string) ([]string, error) {
	var resp columnsResponse
	path := fmt.Sprintf("/files/%s/columns", url.PathEscape(uploadID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Columns, nil
}

func (c *client) Profile(ctx context.Context, uploadID string, columns []string, sampleSize int) (map[string]profiles.ColumnProfile, error) {
	body := profileRequest{
		Columns:    columns,
		SampleSize: sampleSize,
	}

	var resp map[string]profiles.ColumnProfile
	path := fmt.Sprintf("/files/%s/profile", url.PathEscape(uploadID))
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *client) Submit(ctx context.Context, uploadID string, payload any) error {
	path := fmt.Sprintf("/files/%s/process", url.PathEscape(uploadID))
	return c.do(ctx, http.MethodPost, path, payload, nil)
}

func (c *client) Status(ctx context.Context, uploadID string) (JobStatus, error) {
	var status JobStatus
	path := fmt.Sprintf("/files/%s/status", url.PathEscape(uploadID))
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return JobStatus{}, err
	}
	return status, nil
}

func (c *client) Files(ctx context.Context) ([]FileRecord, error) {
	var resp filesResponse
	if err := c.do(ctx, http.MethodGet, "/files", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiErrorFrom(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}

	return nil
}

func apiErrorFrom(method, path string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := strings.TrimSpace(string(data))
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != "" {
		message = parsed.Error
	}

	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
