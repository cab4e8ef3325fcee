package db

// Condition is a single pre-filter on an indexed field.
// Exactly one of Match and Range is set.
type Condition struct {
	Key   string
	Match *string
	Range *NumericRange
}

// NumericRange is an inclusive numeric range. A nil bound is open.
type NumericRange struct {
	Min *float64
	Max *float64
}

// Filter is a conjunction of conditions. The empty Filter matches every document.
type Filter []Condition

// MatchTag returns an exact TAG condition.
func MatchTag(key, value string) Condition {
	return Condition{Key: key, Match: &value}
}

// InRange returns an inclusive NUMERIC condition.
func InRange(key string, lo, hi *float64) Condition {
	return Condition{Key: key, Range: &NumericRange{Min: lo, Max: hi}}
}

// ListQuery is the input for a filtered, paged FT.SEARCH.
type ListQuery struct {
	IndexName    string
	Filters      Filter
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
