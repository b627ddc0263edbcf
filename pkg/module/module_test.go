package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kestrelworks/winnow/pkg/module"
)

func echoPath() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})
}

func TestModulePrefixValidation(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		panics bool
	}{
		{"valid prefix", "/api", false},
		{"empty prefix", "", true},
		{"missing slash", "api", true},
		{"multi-level prefix", "/api/v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				recovered := recover() != nil
				if recovered != tt.panics {
					t.Errorf("panic = %v, want %v", recovered, tt.panics)
				}
			}()
			module.New(tt.prefix, echoPath())
		})
	}
}

func TestModuleServeStripsPrefix(t *testing.T) {
	m := module.New("/api", echoPath())

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/uploads/u1", nil))

	if got := rec.Body.String(); got != "/uploads/u1" {
		t.Errorf("inner path = %q, want /uploads/u1", got)
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	m := module.New("/api", echoPath())

	var order []string
	mw := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	m.Use(mw("first"))
	m.Use(mw("second"))

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("middleware order = %v, want [first second]", order)
	}
}

func TestRouterDispatch(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", echoPath()))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	t.Run("module prefix", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
		if got := rec.Body.String(); got != "/uploads" {
			t.Errorf("body = %q, want /uploads", got)
		}
	})

	t.Run("trailing slash normalized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploads/", nil))
		if got := rec.Body.String(); got != "/uploads" {
			t.Errorf("body = %q, want /uploads", got)
		}
	})

	t.Run("native fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if got := rec.Body.String(); got != "ok" {
			t.Errorf("body = %q, want ok", got)
		}
	})

	t.Run("unmatched path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("Code = %d, want 404", rec.Code)
		}
	})
}
