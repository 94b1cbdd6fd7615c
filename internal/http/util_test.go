package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		maxLimit   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults when absent", query: "", maxLimit: 200, wantLimit: defaultListLimit, wantOffset: 0},
		{name: "explicit values", query: "limit=25&offset=75", maxLimit: 200, wantLimit: 25, wantOffset: 75},
		{name: "limit clamped to max", query: "limit=5000", maxLimit: 200, wantLimit: 200, wantOffset: 0},
		{name: "limit floored to one", query: "limit=0", maxLimit: 200, wantLimit: 1, wantOffset: 0},
		{name: "negative offset floored to zero", query: "offset=-5", maxLimit: 200, wantLimit: defaultListLimit, wantOffset: 0},
		{name: "malformed values fall back", query: "limit=abc&offset=1.5", maxLimit: 200, wantLimit: defaultListLimit, wantOffset: 0},
		{name: "non-positive max still yields a page", query: "limit=10", maxLimit: 0, wantLimit: 1, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/employees?"+tt.query, nil)

			limit, offset := ParseLimitOffset(req, tt.maxLimit)

			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
