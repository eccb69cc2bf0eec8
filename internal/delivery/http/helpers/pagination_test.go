package helpers

import (
	"net/http/httptest"
	"testing"

	"studyenrollment/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    domain.PaginationParams
		wantErr bool
	}{
		{name: "defaults", query: "", want: domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}},
		{name: "explicit", query: "?page=3&page_size=5", want: domain.PaginationParams{Page: 3, PageSize: 5}},
		{name: "page size capped", query: "?page_size=1000", want: domain.PaginationParams{Page: 1, PageSize: MaxPageSize}},
		{name: "zero page", query: "?page=0", wantErr: true},
		{name: "negative page size", query: "?page_size=-1", wantErr: true},
		{name: "not a number", query: "?page=two", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/events/x/enrollments"+tt.query, nil)
			got, err := ParsePagination(req)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t,
		PaginationMeta{Page: 1, PageSize: 2, Total: 5, TotalPages: 3, HasMore: true},
		NewPaginationMeta(domain.PaginationParams{Page: 1, PageSize: 2}, 5))
	assert.Equal(t,
		PaginationMeta{Page: 3, PageSize: 2, Total: 5, TotalPages: 3},
		NewPaginationMeta(domain.PaginationParams{Page: 3, PageSize: 2}, 5))
	assert.Equal(t,
		PaginationMeta{Page: 1, PageSize: 20},
		NewPaginationMeta(domain.PaginationParams{Page: 1, PageSize: 20}, 0))
}
