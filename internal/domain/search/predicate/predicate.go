// Package predicate composes optional speech search criteria into a single
// conjunctive predicate that stores can evaluate in-process or translate into
// their native query language.
package predicate

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/speeches/internal/domain/speech"
)

// Kind identifies what a Clause tests.
type Kind int

const (
	// KindAuthorEquals matches the author exactly (case-sensitive).
	KindAuthorEquals Kind = iota
	// KindDateFrom is an inclusive lower bound on the speech date.
	KindDateFrom
	// KindDateTo is an inclusive upper bound on the speech date.
	KindDateTo
	// KindBodyContains is a case-insensitive substring match on the body.
	KindBodyContains
)

func (k Kind) String() string {
	switch k {
	case KindAuthorEquals:
		return "author"
	case KindDateFrom:
		return "date_from"
	case KindDateTo:
		return "date_to"
	case KindBodyContains:
		return "body_contains"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Clause is a single sub-predicate of a conjunction.
type Clause struct {
	kind   Kind
	text   string
	needle string // lowercased text, KindBodyContains only
	date   speech.Date
}

// AuthorEquals creates an exact author match clause.
func AuthorEquals(author string) Clause {
	return Clause{kind: KindAuthorEquals, text: author}
}

// DateFrom creates an inclusive lower date bound.
func DateFrom(d speech.Date) Clause {
	return Clause{kind: KindDateFrom, date: d}
}

// DateTo creates an inclusive upper date bound.
func DateTo(d speech.Date) Clause {
	return Clause{kind: KindDateTo, date: d}
}

// BodyContains creates a case-insensitive substring clause on the body.
func BodyContains(keyword string) Clause {
	return Clause{kind: KindBodyContains, text: keyword, needle: strings.ToLower(keyword)}
}

// Kind returns the clause kind.
func (c Clause) Kind() Kind { return c.kind }

// Text returns the author or keyword operand as supplied.
func (c Clause) Text() string { return c.text }

// Date returns the date operand of a date bound.
func (c Clause) Date() speech.Date { return c.date }

// Match evaluates the clause against s.
func (c Clause) Match(s speech.Speech) bool {
	switch c.kind {
	case KindAuthorEquals:
		return s.Author() == c.text
	case KindDateFrom:
		return s.SpeechDate().Compare(c.date) >= 0
	case KindDateTo:
		return s.SpeechDate().Compare(c.date) <= 0
	case KindBodyContains:
		return strings.Contains(strings.ToLower(s.Body()), c.needle)
	default:
		return false
	}
}

func (c Clause) String() string {
	switch c.kind {
	case KindAuthorEquals:
		return fmt.Sprintf("author == %q", c.text)
	case KindDateFrom:
		return "speechDate >= " + c.date.String()
	case KindDateTo:
		return "speechDate <= " + c.date.String()
	case KindBodyContains:
		return fmt.Sprintf("lower(body) contains %q", c.needle)
	default:
		return c.kind.String()
	}
}

// Predicate is a logical AND of zero or more clauses.
// The zero value is the empty conjunction and matches every speech.
type Predicate struct {
	clauses []Clause
}

// All returns the empty conjunction.
func All() Predicate { return Predicate{} }

// Build folds every present criterion into a single conjunction,
// in the order author, start date, end date, keyword.
func Build(c Criteria) Predicate {
	p := All()
	if c.Author != nil {
		p = p.And(AuthorEquals(*c.Author))
	}
	if c.StartDate != nil {
		p = p.And(DateFrom(*c.StartDate))
	}
	if c.EndDate != nil {
		p = p.And(DateTo(*c.EndDate))
	}
	if c.Keyword != nil {
		p = p.And(BodyContains(*c.Keyword))
	}
	return p
}

// And returns a new predicate with c appended to the conjunction.
func (p Predicate) And(c Clause) Predicate {
	out := make([]Clause, len(p.clauses), len(p.clauses)+1)
	copy(out, p.clauses)
	return Predicate{clauses: append(out, c)}
}

// Clauses returns a copy of the clauses.
func (p Predicate) Clauses() []Clause {
	out := make([]Clause, len(p.clauses))
	copy(out, p.clauses)
	return out
}

// IsEmpty reports whether p has no clauses.
func (p Predicate) IsEmpty() bool { return len(p.clauses) == 0 }

// Match reports whether s satisfies every clause.
func (p Predicate) Match(s speech.Speech) bool {
	for _, c := range p.clauses {
		if !c.Match(s) {
			return false
		}
	}
	return true
}

// Filter returns the speeches that satisfy p, preserving order.
func (p Predicate) Filter(in []speech.Speech) []speech.Speech {
	if p.IsEmpty() {
		return in
	}
	out := make([]speech.Speech, 0, len(in))
	for _, s := range in {
		if p.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Split partitions p into the clauses a backend evaluates natively and the
// residual it must apply in-process. pushed AND residual is equivalent to p.
func (p Predicate) Split(native func(Clause) bool) (pushed, residual Predicate) {
	for _, c := range p.clauses {
		if native(c) {
			pushed.clauses = append(pushed.clauses, c)
		} else {
			residual.clauses = append(residual.clauses, c)
		}
	}
	return pushed, residual
}

func (p Predicate) String() string {
	if p.IsEmpty() {
		return "TRUE"
	}
	parts := make([]string, len(p.clauses))
	for i, c := range p.clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}
