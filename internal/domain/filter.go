package domain

import "time"

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortKey captures one ordering preference for record listings.
type SortKey struct {
	Field     string
	Direction SortDirection
}

// RangeFilter bounds a date field. Nil bounds are left open.
type RangeFilter struct {
	Field string
	From  *time.Time
	To    *time.Time
}

// ListFilter represents filtering options for listing records. Unset keys
// are omitted from the generated query entirely; there is no implicit
// wildcard.
type ListFilter struct {
	Equals map[string]string
	In     map[string][]string
	Ranges []RangeFilter
	Sort   []SortKey
	Limit  int
	Offset int
}

// WithEquals returns a copy of the filter with an exact-match condition
// added.
func (f ListFilter) WithEquals(field, value string) ListFilter {
	eq := make(map[string]string, len(f.Equals)+1)
	for k, v := range f.Equals {
		eq[k] = v
	}
	eq[field] = value
	f.Equals = eq
	return f
}

// WithIn returns a copy of the filter with a membership condition added.
func (f ListFilter) WithIn(field string, values []string) ListFilter {
	in := make(map[string][]string, len(f.In)+1)
	for k, v := range f.In {
		in[k] = v
	}
	in[field] = values
	f.In = in
	return f
}

// WithRange returns a copy of the filter with a date-range condition added.
func (f ListFilter) WithRange(field string, from, to *time.Time) ListFilter {
	ranges := make([]RangeFilter, len(f.Ranges), len(f.Ranges)+1)
	copy(ranges, f.Ranges)
	f.Ranges = append(ranges, RangeFilter{Field: field, From: from, To: to})
	return f
}

// WithSort returns a copy of the filter with a sort key appended.
func (f ListFilter) WithSort(field string, direction SortDirection) ListFilter {
	sort := make([]SortKey, len(f.Sort), len(f.Sort)+1)
	copy(sort, f.Sort)
	f.Sort = append(sort, SortKey{Field: field, Direction: direction})
	return f
}

// IsEmpty reports whether the filter carries no conditions.
func (f ListFilter) IsEmpty() bool {
	return len(f.Equals) == 0 && len(f.In) == 0 && len(f.Ranges) == 0
}
