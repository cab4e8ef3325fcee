package speech

import (
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

// jsonDoc is the RedisJSON document layout. speech_day mirrors the date as
// days since the epoch so NUMERIC ranges can address it.
type jsonDoc struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Author     string   `json:"author"`
	SpeechDate string   `json:"speech_date"`
	SpeechDay  int64    `json:"speech_day"`
	Keywords   []string `json:"keywords"`
}

func toJSONDoc(s domspeech.Speech) jsonDoc {
	d := s.SpeechDate()
	var date string
	if !d.IsZero() {
		date = d.String()
	}
	return jsonDoc{
		ID:         s.ID(),
		Title:      s.Title(),
		Body:       s.Body(),
		Author:     s.Author(),
		SpeechDate: date,
		SpeechDay:  d.Days(),
		Keywords:   s.Keywords(),
	}
}

// toDomain hydrates a Speech. id comes from the key, not the document body.
func (d jsonDoc) toDomain(id string) (domspeech.Speech, error) {
	var date domspeech.Date
	if d.SpeechDate != "" {
		parsed, err := domspeech.ParseDate(d.SpeechDate)
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
