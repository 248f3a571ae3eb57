package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 4, p.Size)
	assert.Equal(t, 0, p.Offset())
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products/summaries", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), p)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products/summaries?page=3&size=50", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.Size)
	assert.Equal(t, 150, p.Offset())
}

func TestFromRequest_NegativeValuesPassThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?page=-1&size=0", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, -1, p.Page)
	assert.Equal(t, 0, p.Size)
}

func TestFromRequest_NotANumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?page=abc", nil)
	_, err := FromRequest(req)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestFromRequest_Overflow(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?size=99999999999", nil)
	_, err := FromRequest(req)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 4))
	assert.Equal(t, 1, TotalPages(4, 4))
	assert.Equal(t, 2, TotalPages(5, 4))
	assert.Equal(t, 500, TotalPages(2000, 4))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		params     Params
		start, end int
	}{
		{"first page", 6, Params{Page: 0, Size: 4}, 0, 4},
		{"partial last page", 6, Params{Page: 1, Size: 4}, 4, 6},
		{"past the end", 6, Params{Page: 5, Size: 4}, 6, 6},
		{"empty", 0, Params{Page: 0, Size: 4}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.total, tt.params)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
