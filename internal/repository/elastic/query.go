package elastic

import (
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

const indexMapping = `{
  "mappings": {
    "dynamic": "strict",
    "properties": {
      "id":         {"type": "keyword"},
      "title":      {"type": "text"},
      "body":       {"type": "text"},
      "author":     {"type": "keyword"},
      "speechDate": {"type": "date", "format": "yyyy-MM-dd"},
      "keywords":   {"type": "keyword"}
    }
  }
}`

// document is the indexed form of a speech. Every field is always
// serialized, so a partial update replaces the whole document.
type document struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Author     string   `json:"author"`
	SpeechDate *string  `json:"speechDate"`
	Keywords   []string `json:"keywords"`
}

func toDocument(s domspeech.Speech) document {
	d := document{
		ID:       s.ID(),
		Title:    s.Title(),
		Body:     s.Body(),
		Author:   s.Author(),
		Keywords: s.Keywords(),
	}
	if !s.SpeechDate().IsZero() {
		date := s.SpeechDate().String()
		d.SpeechDate = &date
	}
	return d
}

func (d document) toDomain(id string) (domspeech.Speech, error) {
	var date domspeech.Date
	if d.SpeechDate != nil && *d.SpeechDate != "" {
		parsed, err := domspeech.ParseDate(*d.SpeechDate)
		if err != nil {
			return domspeech.Speech{}, err
		}
		date = parsed
	}
	return domspeech.Reconstruct(id, domspeech.Fields{
		Title:      d.Title,
		Body:       d.Body,
		Author:     d.Author,
		SpeechDate: date,
		Keywords:   d.Keywords,
	}), nil
}

// native reports whether Elasticsearch evaluates c exactly. Case-insensitive
// matching folds differently from strings.ToLower, so body matches stay
// in-process.
func native(c predicate.Clause) bool {
	return c.Kind() != predicate.KindBodyContains
}

// compile folds pushed clauses into a bool/filter query. An empty predicate
// falls back to match_all.
func compile(p predicate.Predicate) map[string]any {
	clauses := p.Clauses()
	if len(clauses) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}

	filters := make([]map[string]any, 0, len(clauses))
	for _, c := range clauses {
		switch c.Kind() {
		case predicate.KindAuthorEquals:
			filters = append(filters, map[string]any{
				"term": map[string]any{"author": c.Text()},
			})
		case predicate.KindDateFrom:
			filters = append(filters, dateRange("gte", c.Date()))
		case predicate.KindDateTo:
			// an undated speech sorts before every date
			filters = append(filters, map[string]any{
				"bool": map[string]any{
					"should": []map[string]any{
						dateRange("lte", c.Date()),
						{"bool": map[string]any{
							"must_not": map[string]any{"exists": map[string]any{"field": "speechDate"}},
						}},
					},
					"minimum_should_match": 1,
				},
			})
		}
	}
	return map[string]any{"bool": map[string]any{"filter": filters}}
}

func dateRange(op string, d domspeech.Date) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"speechDate": map[string]any{op: d.String(), "format": "yyyy-MM-dd"},
		},
	}
}
