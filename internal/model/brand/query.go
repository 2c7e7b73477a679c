package brand

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortKey is one of the fixed sort options accepted by the list endpoint.
type SortKey string

const (
	SortNone          SortKey = ""
	SortNameAsc       SortKey = "name"
	SortNameDesc      SortKey = "nameDesc"
	SortCreatedAtAsc  SortKey = "createdAtAsc"
	SortCreatedAtDesc SortKey = "createdAtDesc"
	SortUpdatedAtAsc  SortKey = "updatedAtAsc"
	SortUpdatedAtDesc SortKey = "updatedAtDesc"
)

// Sortable document fields.
const (
	FieldName      = "name"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// SortField is a resolved sort key: a document field and a direction.
type SortField struct {
	Field string
	Desc  bool
}

var sortFields = map[SortKey]SortField{
	SortNameAsc:       {Field: FieldName},
	SortNameDesc:      {Field: FieldName, Desc: true},
	SortCreatedAtAsc:  {Field: FieldCreatedAt},
	SortCreatedAtDesc: {Field: FieldCreatedAt, Desc: true},
	SortUpdatedAtAsc:  {Field: FieldUpdatedAt},
	SortUpdatedAtDesc: {Field: FieldUpdatedAt, Desc: true},
}

// SortKeyNames lists the accepted sort keys in documentation order.
func SortKeyNames() []string {
	return []string{
		string(SortNameAsc),
		string(SortNameDesc),
		string(SortCreatedAtAsc),
		string(SortCreatedAtDesc),
		string(SortUpdatedAtAsc),
		string(SortUpdatedAtDesc),
	}
}

// Field resolves the key. ok is false for SortNone and unknown keys, in which
// case the store's natural order is used.
func (k SortKey) Field() (SortField, bool) {
	sf, ok := sortFields[k]
	return sf, ok
}

// Filter narrows the brands returned by a list.
type Filter struct {
	// Search is matched case-insensitively and literally against the name.
	Search string

	// MinRating keeps brands with rating >= *MinRating.
	MinRating *float64
}

// IsEmpty reports whether the filter matches every brand.
func (f Filter) IsEmpty() bool {
	return f.Search == "" && f.MinRating == nil
}

// ListQuery is the backend-neutral description of a list request.
// Each store translates it into its own filter, sort and pagination.
type ListQuery struct {
	Filter Filter
	Sort   SortKey
	Page   int
	Limit  int
}

// Skip is the number of documents before the requested page.
func (q ListQuery) Skip() int64 {
	if q.Page <= 1 {
		return 0
	}
	return int64(q.Page-1) * int64(q.Limit)
}

// Normalized clamps page and limit into their valid ranges.
func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}
