package uploads_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"

	"github.com/kestrelworks/winnow/internal/uploads"
	"github.com/kestrelworks/winnow/pkg/pagination"
)

type fakeSystem struct {
	created *uploads.CreateCommand
}

func (f *fakeSystem) Handler(maxUploadSize int64) *uploads.Handler { return nil }

func (f *fakeSystem) List(ctx context.Context, page pagination.PageRequest, filters uploads.Filters) (*pagination.PageResult[uploads.Upload], error) {
	result := pagination.NewPageResult([]uploads.Upload{}, 0, page.Page, page.PageSize)
	return &result, nil
}

func (f *fakeSystem) Find(ctx context.Context, id uuid.UUID) (*uploads.Upload, error) {
	return nil, uploads.ErrNotFound
}

func (f *fakeSystem) Create(ctx context.Context, cmd uploads.CreateCommand) (*uploads.Upload, error) {
	f.created = &cmd
	return &uploads.Upload{ID: uuid.New(), Filename: cmd.Filename}, nil
}

func (f *fakeSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return uploads.ErrNotFound
}

func newHandler(sys uploads.System) *uploads.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return uploads.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, 1<<20)
}

func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &buf, mw.FormDataContentType()
}

func TestHandlerUpload(t *testing.T) {
	t.Run("sniffs CSV header column count", func(t *testing.T) {
		sys := &fakeSystem{}
		h := newHandler(sys)

		body, contentType := multipartBody(t, "items.csv", "text/csv", []byte("sku,amount,status\nA1,10,ok\n"))
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Code = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if sys.created == nil {
			t.Fatal("Create was not called")
		}
		if sys.created.ColumnCount == nil || *sys.created.ColumnCount != 3 {
			t.Errorf("ColumnCount = %v, want 3", sys.created.ColumnCount)
		}
		if sys.created.ContentType != "text/csv" {
			t.Errorf("ContentType = %q, want text/csv", sys.created.ContentType)
		}
	})

	t.Run("csv extension without content type still sniffs", func(t *testing.T) {
		sys := &fakeSystem{}
		h := newHandler(sys)

		body, contentType := multipartBody(t, "items.csv", "application/octet-stream", []byte("a,b\n1,2\n"))
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Code = %d, want 201", rec.Code)
		}
		if sys.created.ColumnCount == nil || *sys.created.ColumnCount != 2 {
			t.Errorf("ColumnCount = %v, want 2", sys.created.ColumnCount)
		}
	})

	t.Run("non-CSV leaves column count for the engine", func(t *testing.T) {
		sys := &fakeSystem{}
		h := newHandler(sys)

		body, contentType := multipartBody(t, "items.parquet", "application/vnd.apache.parquet", []byte{0x50, 0x41, 0x52, 0x31})
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Code = %d, want 201", rec.Code)
		}
		if sys.created.ColumnCount != nil {
			t.Errorf("ColumnCount = %v, want nil for non-CSV", sys.created.ColumnCount)
		}
	})

	t.Run("missing file part rejects", func(t *testing.T) {
		sys := &fakeSystem{}
		h := newHandler(sys)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("note", "no file here")
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/uploads", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Code = %d, want 400", rec.Code)
		}
		if sys.created != nil {
			t.Error("Create should not be called without a file part")
		}
	})
}

func TestHandlerFind(t *testing.T) {
	t.Run("invalid id rejects", func(t *testing.T) {
		h := newHandler(&fakeSystem{})

		req := httptest.NewRequest(http.MethodGet, "/uploads/not-a-uuid", nil)
		req.SetPathValue("id", "not-a-uuid")

		rec := httptest.NewRecorder()
		h.Find(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Code = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		h := newHandler(&fakeSystem{})

		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/uploads/"+id, nil)
		req.SetPathValue("id", id)

		rec := httptest.NewRecorder()
		h.Find(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Code = %d, want 404", rec.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["error"] == "" {
			t.Error("error message missing from body")
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", uploads.ErrNotFound, http.StatusNotFound},
		{"duplicate", uploads.ErrDuplicate, http.StatusConflict},
		{"too large", uploads.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", uploads.ErrInvalidFile, http.StatusBadRequest},
		{"register failed", uploads.ErrRegisterFailed, http.StatusBadGateway},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uploads.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
