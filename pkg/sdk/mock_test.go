package speeches

import (
	"context"
	"time"

	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	"github.com/kailas-cloud/speeches/internal/mapper"
)

// --- speechUseCase mock ---

type mockSpeechUC struct {
	listFn   func(ctx context.Context) ([]mapper.SpeechDTO, error)
	createFn func(ctx context.Context, dto mapper.SpeechDTO) (mapper.SpeechDTO, error)
	updateFn func(ctx context.Context, id string, dto mapper.SpeechDTO) (mapper.SpeechDTO, error)
	deleteFn func(ctx context.Context, id string) error
	searchFn func(ctx context.Context, c predicate.Criteria) ([]mapper.SpeechDTO, error)
}

func (m *mockSpeechUC) ListAll(ctx context.Context) ([]mapper.SpeechDTO, error) {
	return m.listFn(ctx)
}

func (m *mockSpeechUC) Create(ctx context.Context, dto mapper.SpeechDTO) (mapper.SpeechDTO, error) {
	return m.createFn(ctx, dto)
}

func (m *mockSpeechUC) Update(ctx context.Context, id string, dto mapper.SpeechDTO) (mapper.SpeechDTO, error) {
	return m.updateFn(ctx, id, dto)
}

func (m *mockSpeechUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSpeechUC) Search(ctx context.Context, c predicate.Criteria) ([]mapper.SpeechDTO, error) {
	return m.searchFn(ctx, c)
}

// --- helpers ---

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
