package speeches

import (
	"slices"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/kailas-cloud/speeches/internal/mapper"
)

// Speech is a stored speech record.
// Date is a calendar date; the clock part is ignored.
type Speech struct {
	ID       string
	Title    string
	Body     string
	Author   string
	Date     time.Time
	Keywords []string
}

func toDTO(s Speech) mapper.SpeechDTO {
	dto := mapper.SpeechDTO{
		Title:    s.Title,
		Body:     s.Body,
		Author:   s.Author,
		Keywords: slices.Clone(s.Keywords),
	}
	if !s.Date.IsZero() {
		dto.SpeechDate = &openapi_types.Date{Time: s.Date}
	}
	return dto
}

func fromDTO(dto mapper.SpeechDTO) Speech {
	s := Speech{
		Title:    dto.Title,
		Body:     dto.Body,
		Author:   dto.Author,
		Keywords: dto.Keywords,
	}
	if dto.ID != nil {
		s.ID = *dto.ID
	}
	if dto.SpeechDate != nil {
		s.Date = dto.SpeechDate.Time
	}
	return s
}

func fromDTOs(in []mapper.SpeechDTO) []Speech {
	out := make([]Speech, len(in))
	for i, dto := range in {
		out[i] = fromDTO(dto)
	}
	return out
}
