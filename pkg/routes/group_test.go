package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kestrelworks/winnow/pkg/routes"
)

func handler(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tag))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/uploads",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: handler("list")},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: handler("find")},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/jobs",
				Routes: []routes.Route{
					{Method: http.MethodGet, Pattern: "", Handler: handler("jobs")},
				},
			},
		},
	})

	tests := []struct {
		name string
		path string
		want string
	}{
		{"top-level route", "/uploads", "list"},
		{"path value route", "/uploads/abc", "find"},
		{"nested child group", "/uploads/abc/jobs", "jobs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("Code = %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("method mismatch", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/uploads", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Code = %d, want 405", rec.Code)
		}
	})
}
