package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paramsForQuery(t *testing.T, query string) *PageParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return ParsePageParams(c)
}

func TestParsePageParams(t *testing.T) {
	p := paramsForQuery(t, "page=3&page_size=20")
	if p.Page != 3 || p.PageSize != 20 {
		t.Fatalf("unexpected params: %+v", p)
	}

	// 非法值回退到默认
	p = paramsForQuery(t, "page=0&page_size=abc")
	if p.Page != DefaultPage || p.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults, got %+v", p)
	}

	// 超过上限的page_size被钳制
	p = paramsForQuery(t, "page_size=500")
	if p.PageSize != MaxPageSize {
		t.Fatalf("expected clamped page size, got %d", p.PageSize)
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(2, 10, 35)
	if info.TotalPages != 4 {
		t.Fatalf("expected 4 total pages, got %d", info.TotalPages)
	}
	if !info.HasNext || !info.HasPrev {
		t.Fatalf("expected middle page to have both neighbors: %+v", info)
	}

	info = NewPageInfo(1, 10, 0)
	if info.TotalPages != 0 || info.HasNext || info.HasPrev {
		t.Fatalf("unexpected info for empty result: %+v", info)
	}
}
