package speech

import (
	"strings"

	"github.com/kailas-cloud/speeches/internal/db"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
)

// authorSeparator is never part of a pushed-down author value.
const authorSeparator = ","

func buildIndex(prefix string) (*db.IndexDefinition, error) {
	return db.NewIndex(prefix+"speech:idx").
		OnJSON().
		Prefix(prefix+"speech:").
		TagWithOpts("$.author", "author", authorSeparator, true).
		Numeric("$.speech_day", "speech_day").
		Text("$.title", "title").
		Text("$.body", "body").
		Build()
}

// native reports whether RediSearch evaluates c exactly.
// TEXT fields are tokenized and stemmed, so body matches stay in-process.
func native(c predicate.Clause) bool {
	switch c.Kind() {
	case predicate.KindAuthorEquals:
		return tagSafe(c.Text())
	case predicate.KindDateFrom, predicate.KindDateTo:
		return true
	default:
		return false
	}
}

// tagSafe rejects values the TAG index stores differently: empty strings,
// values split on the separator, and values with surrounding whitespace.
func tagSafe(v string) bool {
	return v != "" && !strings.Contains(v, authorSeparator) && strings.TrimSpace(v) == v
}

func compile(p predicate.Predicate) db.Filter {
	clauses := p.Clauses()
	f := make(db.Filter, 0, len(clauses))
	for _, c := range clauses {
		switch c.Kind() {
		case predicate.KindAuthorEquals:
			f = append(f, db.MatchTag("author", c.Text()))
		case predicate.KindDateFrom:
			day := float64(c.Date().Days())
			f = append(f, db.InRange("speech_day", &day, nil))
		case predicate.KindDateTo:
			day := float64(c.Date().Days())
			f = append(f, db.InRange("speech_day", nil, &day))
		}
	}
	return f
}
