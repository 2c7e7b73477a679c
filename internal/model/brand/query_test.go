package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortKey_Field(t *testing.T) {
	tests := []struct {
		key    SortKey
		want   SortField
		wantOK bool
	}{
		{SortNameAsc, SortField{Field: "name"}, true},
		{SortNameDesc, SortField{Field: "name", Desc: true}, true},
		{SortCreatedAtAsc, SortField{Field: "createdAt"}, true},
		{SortCreatedAtDesc, SortField{Field: "createdAt", Desc: true}, true},
		{SortUpdatedAtAsc, SortField{Field: "updatedAt"}, true},
		{SortUpdatedAtDesc, SortField{Field: "updatedAt", Desc: true}, true},
		{SortNone, SortField{}, false},
		{SortKey("rating"), SortField{}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got, ok := tt.key.Field()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortKeyNames_AllResolve(t *testing.T) {
	names := SortKeyNames()
	require.Len(t, names, 6)
	for _, name := range names {
		_, ok := SortKey(name).Field()
		assert.True(t, ok, name)
	}
}

func TestListQuery_Skip(t *testing.T) {
	assert.Equal(t, int64(0), ListQuery{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, int64(10), ListQuery{Page: 2, Limit: 10}.Skip())
	assert.Equal(t, int64(75), ListQuery{Page: 4, Limit: 25}.Skip())
	assert.Equal(t, int64(0), ListQuery{Page: 0, Limit: 25}.Skip())
}

func TestListQuery_Normalized(t *testing.T) {
	q := ListQuery{Page: -3, Limit: 500}.Normalized()
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)

	q = ListQuery{Page: 2, Limit: 0}.Normalized()
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
}

func TestListBrandsRequest_Query(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q := (&ListBrandsRequest{}).Query()
		assert.Equal(t, DefaultPage, q.Page)
		assert.Equal(t, DefaultLimit, q.Limit)
		assert.Equal(t, SortNone, q.Sort)
		assert.True(t, q.Filter.IsEmpty())
	})

	t.Run("all parameters", func(t *testing.T) {
		req := &ListBrandsRequest{Search: "nike", Rating: 3.5, Sort: "nameDesc", Page: 3, Limit: 20}
		q := req.Query()

		assert.Equal(t, "nike", q.Filter.Search)
		require.NotNil(t, q.Filter.MinRating)
		assert.InDelta(t, 3.5, *q.Filter.MinRating, 0.0001)
		assert.Equal(t, SortNameDesc, q.Sort)
		assert.Equal(t, 3, q.Page)
		assert.Equal(t, 20, q.Limit)
		assert.Equal(t, int64(40), q.Skip())
	})
}

func TestListBrandsRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ListBrandsRequest
		wantErr bool
	}{
		{name: "empty", req: ListBrandsRequest{}},
		{name: "valid", req: ListBrandsRequest{Rating: 4, Sort: "createdAtDesc", Page: 2, Limit: 100}},
		{name: "rating too high", req: ListBrandsRequest{Rating: 5.5}, wantErr: true},
		{name: "negative rating", req: ListBrandsRequest{Rating: -1}, wantErr: true},
		{name: "unknown sort", req: ListBrandsRequest{Sort: "rating"}, wantErr: true},
		{name: "negative page", req: ListBrandsRequest{Page: -1}, wantErr: true},
		{name: "limit too high", req: ListBrandsRequest{Limit: 101}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListBrandsRequest_TrimsSearch(t *testing.T) {
	req := &ListBrandsRequest{Search: "  adidas  "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "adidas", req.Search)
}
