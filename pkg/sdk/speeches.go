package speeches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

// SpeechService manages speech records.
type SpeechService struct {
	svc speechUseCase
	obs *observer
}

// List returns every stored speech.
func (s *SpeechService) List(ctx context.Context) (_ []Speech, err error) {
	start := time.Now()
	defer func() { s.obs.observe("speech.list", start, err) }()

	dtos, err := s.svc.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speeches: %w", err)
	}
	return fromDTOs(dtos), nil
}

// Create stores sp and returns it with its assigned ID. sp.ID is ignored.
// Title, Body, Author and Date are required.
func (s *SpeechService) Create(ctx context.Context, sp Speech) (_ Speech, err error) {
	start := time.Now()
	defer func() { s.obs.observe("speech.create", start, err) }()

	if err = validate(sp); err != nil {
		return Speech{}, err
	}
	dto, err := s.svc.Create(ctx, toDTO(sp))
	if err != nil {
		return Speech{}, fmt.Errorf("create speech: %w", err)
	}
	return fromDTO(dto), nil
}

// Update replaces every field of the speech with the given id.
// sp.ID is ignored. Returns ErrNotFound when no such speech exists.
func (s *SpeechService) Update(ctx context.Context, id string, sp Speech) (_ Speech, err error) {
	start := time.Now()
	defer func() { s.obs.observe("speech.update", start, err) }()

	if err = validate(sp); err != nil {
		return Speech{}, err
	}
	dto, err := s.svc.Update(ctx, id, toDTO(sp))
	if err != nil {
		return Speech{}, fmt.Errorf("update speech: %w", err)
	}
	return fromDTO(dto), nil
}

// Delete removes the speech with the given id.
// Returns ErrNotFound when no such speech exists.
func (s *SpeechService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("speech.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete speech: %w", err)
	}
	return nil
}

// Search starts a search. Every criterion is optional; none matches all.
func (s *SpeechService) Search() *SearchBuilder {
	return &SearchBuilder{svc: s}
}

func validate(sp Speech) error {
	var missing []string
	if strings.TrimSpace(sp.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(sp.Body) == "" {
		missing = append(missing, "body")
	}
	if strings.TrimSpace(sp.Author) == "" {
		missing = append(missing, "author")
	}
	if sp.Date.IsZero() {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// SearchBuilder collects search criteria. Criteria combine with AND.
type SearchBuilder struct {
	svc      *SpeechService
	criteria predicate.Criteria
}

// Author matches the author exactly (case-sensitive).
func (b *SearchBuilder) Author(author string) *SearchBuilder {
	b.criteria.Author = &author
	return b
}

// From keeps speeches dated on or after t.
func (b *SearchBuilder) From(t time.Time) *SearchBuilder {
	d := domspeech.DateOf(t)
	b.criteria.StartDate = &d
	return b
}

// To keeps speeches dated on or before t.
func (b *SearchBuilder) To(t time.Time) *SearchBuilder {
	d := domspeech.DateOf(t)
	b.criteria.EndDate = &d
	return b
}

// Between is From(from).To(to).
func (b *SearchBuilder) Between(from, to time.Time) *SearchBuilder {
	return b.From(from).To(to)
}

// Keyword matches a case-insensitive substring of the body.
func (b *SearchBuilder) Keyword(keyword string) *SearchBuilder {
	b.criteria.Keyword = &keyword
	return b
}

// Do runs the search.
func (b *SearchBuilder) Do(ctx context.Context) (_ []Speech, err error) {
	start := time.Now()
	defer func() { b.svc.obs.observe("speech.search", start, err) }()

	dtos, err := b.svc.svc.Search(ctx, b.criteria)
	if err != nil {
		return nil, fmt.Errorf("search speeches: %w", err)
	}
	return fromDTOs(dtos), nil
}
