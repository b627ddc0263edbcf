package pagination_test

import (
	"net/url"
	"testing"

	"github.com/kestrelworks/winnow/pkg/pagination"
)

func testConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"zero values", 0, 0, 1, 20},
		{"negative page", -3, 10, 1, 10},
		{"oversized page size", 1, 500, 1, 100},
		{"valid request", 2, 50, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(testConfig())

			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 4, PageSize: 25}
	if got := req.Offset(); got != 75 {
		t.Errorf("Offset() = %d, want 75", got)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "10")
	values.Set("search", "items")
	values.Set("sort", "-uploadedAt")

	req := pagination.PageRequestFromQuery(values, testConfig())

	if req.Page != 2 || req.PageSize != 10 {
		t.Errorf("page/size = %d/%d, want 2/10", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "items" {
		t.Errorf("Search = %v, want items", req.Search)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "uploadedAt" || !req.Sort[0].Descending {
		t.Errorf("Sort = %v, want [-uploadedAt]", req.Sort)
	}
}

func TestNewPageResult(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		result := pagination.NewPageResult([]string{"a"}, 21, 1, 10)
		if result.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", result.TotalPages)
		}
	})

	t.Run("empty total has one page", func(t *testing.T) {
		result := pagination.NewPageResult[string](nil, 0, 1, 10)
		if result.TotalPages != 1 {
			t.Errorf("TotalPages = %d, want 1", result.TotalPages)
		}
		if result.Data == nil {
			t.Error("Data should be an empty slice, not nil")
		}
	})
}
