package speech

import "slices"

// Fields is the mutable field set of a Speech.
type Fields struct {
	Title      string
	Body       string
	Author     string
	SpeechDate Date
	Keywords   []string
}

// Speech is the stored speech record (immutable value object).
// The identity is empty until a store assigns one.
type Speech struct {
	id     string
	fields Fields
}

// New creates a Speech without identity, ready for insertion.
func New(f Fields) Speech {
	return Speech{fields: cloneFields(f)}
}

// Reconstruct creates a Speech with a known identity (storage hydration).
func Reconstruct(id string, f Fields) Speech {
	return Speech{id: id, fields: cloneFields(f)}
}

// ID returns the store-assigned identity, or "" before insertion.
func (s Speech) ID() string { return s.id }

// HasID reports whether the speech has been assigned an identity.
func (s Speech) HasID() bool { return s.id != "" }

// Title returns the title.
func (s Speech) Title() string { return s.fields.Title }

// Body returns the body text.
func (s Speech) Body() string { return s.fields.Body }

// Author returns the author.
func (s Speech) Author() string { return s.fields.Author }

// SpeechDate returns the date the speech was given.
func (s Speech) SpeechDate() Date { return s.fields.SpeechDate }

// Keywords returns a copy of the keyword tags in insertion order.
func (s Speech) Keywords() []string { return slices.Clone(s.fields.Keywords) }

// Fields returns a copy of the mutable field set.
func (s Speech) Fields() Fields { return cloneFields(s.fields) }

// WithID returns a copy of s carrying the given identity.
// Stores call it once, at insertion.
func (s Speech) WithID(id string) Speech {
	return Speech{id: id, fields: cloneFields(s.fields)}
}

// Replace returns a copy of s whose every mutable field is taken from f.
// The identity is kept.
func (s Speech) Replace(f Fields) Speech {
	return Speech{id: s.id, fields: cloneFields(f)}
}

func cloneFields(f Fields) Fields {
	f.Keywords = slices.Clone(f.Keywords)
	return f
}
