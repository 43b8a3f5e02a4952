package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/makbarsyahwana/logistic-gateway/pkg/httpx"
)

// Утилита для создания *gin.Context с query-строкой
func ctxWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/?"+rawQuery, http.NoBody)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestClampInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		v, min, max int
		want        int
	}{
		{"below_min", 0, 1, 10, 1},
		{"above_max", 11, 1, 10, 10},
		{"inside", 5, 1, 10, 5},
		{"equal_min", 1, 1, 10, 1},
		{"equal_max", 10, 1, 10, 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := httpx.ClampInt(tt.v, tt.min, tt.max); got != tt.want {
				t.Fatalf("ClampInt(%d,%d,%d) = %d, want %d", tt.v, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rawQuery string
		want     int
	}{
		{"no_query", "", 1},
		{"ok", "page=3", 3},
		{"zero_becomes_first", "page=0", 1},
		{"negative_becomes_first", "page=-5", 1},
		{"non_int_becomes_first", "page=foo", 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := ctxWithQuery(tt.rawQuery)
			if got := httpx.ParsePage(c); got != tt.want {
				t.Fatalf("ParsePage() = %d, want %d (query=%q)", got, tt.want, tt.rawQuery)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	t.Parallel()

	allowed := []int{10, 20, 50}

	tests := []struct {
		name     string
		rawQuery string
		want     int
	}{
		{"no_query_uses_default", "", 10},
		{"allowed_value", "limit=20", 20},
		{"allowed_max", "limit=50", 50},
		{"not_in_allowed_uses_default", "limit=25", 10},
		{"zero_uses_default", "limit=0", 10},
		{"negative_uses_default", "limit=-5", 10},
		{"non_int_uses_default", "limit=foo", 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := ctxWithQuery(tt.rawQuery)
			if got := httpx.ParseLimit(c, allowed, 10); got != tt.want {
				t.Fatalf("ParseLimit() = %d, want %d (query=%q)", got, tt.want, tt.rawQuery)
			}
		})
	}
}
