package predicate

import "github.com/kailas-cloud/speeches/internal/domain/speech"

// Criteria holds the optional search criteria. A nil field is absent;
// a non-nil pointer to an empty string is present and matched literally.
type Criteria struct {
	Author    *string
	StartDate *speech.Date
	EndDate   *speech.Date
	Keyword   *string
}

// IsEmpty reports whether no criterion is present.
func (c Criteria) IsEmpty() bool {
	return c.Author == nil && c.StartDate == nil && c.EndDate == nil && c.Keyword == nil
}
