// Package mapper translates between the stored speech record and its
// wire-facing representation.
package mapper

import (
	"slices"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/kailas-cloud/speeches/internal/domain/speech"
)

// SpeechDTO is the external representation of a speech.
// ID is absent on create and ignored in update bodies.
type SpeechDTO struct {
	ID         *string             `json:"id,omitempty"`
	Title      string              `json:"title"`
	Body       string              `json:"body"`
	Author     string              `json:"author"`
	SpeechDate *openapi_types.Date `json:"speechDate"`
	Keywords   []string            `json:"keywords"`
}

// ToExternal copies a stored speech into its DTO. Keywords are never nil, so
// every store renders an absent list as [].
func ToExternal(s speech.Speech) SpeechDTO {
	dto := SpeechDTO{
		Title:    s.Title(),
		Body:     s.Body(),
		Author:   s.Author(),
		Keywords: s.Keywords(),
	}
	if dto.Keywords == nil {
		dto.Keywords = []string{}
	}
	if s.HasID() {
		id := s.ID()
		dto.ID = &id
	}
	if d := s.SpeechDate(); !d.IsZero() {
		dto.SpeechDate = &openapi_types.Date{Time: d.Time()}
	}
	return dto
}

// ToExternalList maps every record. The result is never nil.
func ToExternalList(in []speech.Speech) []SpeechDTO {
	out := make([]SpeechDTO, len(in))
	for i, s := range in {
		out[i] = ToExternal(s)
	}
	return out
}

// ToStored builds a speech without identity from dto.
// The store assigns identity on insert; dto.ID is never carried over.
func ToStored(dto SpeechDTO) speech.Speech {
	return speech.New(ToFields(dto))
}

// ToFields returns the mutable field set carried by dto.
func ToFields(dto SpeechDTO) speech.Fields {
	f := speech.Fields{
		Title:    dto.Title,
		Body:     dto.Body,
		Author:   dto.Author,
		Keywords: slices.Clone(dto.Keywords),
	}
	if dto.SpeechDate != nil {
		f.SpeechDate = speech.DateOf(dto.SpeechDate.Time)
	}
	return f
}
