package speech

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/speeches/internal/domain"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	"github.com/kailas-cloud/speeches/internal/logger"
	"github.com/kailas-cloud/speeches/internal/mapper"
)

// Service orchestrates speech CRUD and search.
type Service struct {
	repo     Repository
	notifier Notifier
}

// New creates a speech service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithNotifier enables change notifications. A nil notifier disables them.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// ListAll returns every stored speech.
func (s *Service) ListAll(ctx context.Context) ([]mapper.SpeechDTO, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all speeches: %w", err)
	}
	return mapper.ToExternalList(all), nil
}

// Create stores a new speech and returns it with its assigned identity.
func (s *Service) Create(ctx context.Context, dto mapper.SpeechDTO) (mapper.SpeechDTO, error) {
	created, err := s.repo.Insert(ctx, mapper.ToStored(dto))
	if err != nil {
		return mapper.SpeechDTO{}, fmt.Errorf("insert speech: %w", err)
	}

	logger.FromContext(ctx).Debug("Speech created", zap.String("speech_id", created.ID()))
	if s.notifier != nil {
		s.notify(ctx, "created", created.ID(), s.notifier.SpeechCreated(ctx, created))
	}
	return mapper.ToExternal(created), nil
}

// Update replaces every mutable field of the speech addressed by id.
// The identity in dto is ignored.
func (s *Service) Update(ctx context.Context, id string, dto mapper.SpeechDTO) (mapper.SpeechDTO, error) {
	existing, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapper.SpeechDTO{}, fmt.Errorf("find speech: %w", err)
	}
	if !found {
		return mapper.SpeechDTO{}, fmt.Errorf("speech %s: %w", id, domain.ErrNotFound)
	}

	updated := existing.Replace(mapper.ToFields(dto))
	if err := s.repo.Update(ctx, updated); err != nil {
		return mapper.SpeechDTO{}, fmt.Errorf("update speech: %w", err)
	}

	logger.FromContext(ctx).Debug("Speech updated", zap.String("speech_id", id))
	if s.notifier != nil {
		s.notify(ctx, "updated", id, s.notifier.SpeechUpdated(ctx, updated))
	}
	return mapper.ToExternal(updated), nil
}

// Delete removes the speech addressed by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find speech: %w", err)
	}
	if !found {
		return fmt.Errorf("speech %s: %w", id, domain.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete speech: %w", err)
	}

	logger.FromContext(ctx).Debug("Speech deleted", zap.String("speech_id", id))
	if s.notifier != nil {
		s.notify(ctx, "deleted", id, s.notifier.SpeechDeleted(ctx, id))
	}
	return nil
}

// Search returns the speeches matching every present criterion.
func (s *Service) Search(ctx context.Context, c predicate.Criteria) ([]mapper.SpeechDTO, error) {
	p := predicate.Build(c)
	logger.FromContext(ctx).Debug("Searching speeches", zap.Stringer("predicate", p))

	found, err := s.repo.FindMatching(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("find matching speeches: %w", err)
	}
	return mapper.ToExternalList(found), nil
}

// notify logs a failed notification. The change is already committed.
func (s *Service) notify(ctx context.Context, change, id string, err error) {
	if err == nil {
		return
	}
	logger.FromContext(ctx).Warn("Speech change notification failed",
		zap.String("change", change),
		zap.String("speech_id", id),
		zap.Error(err),
	)
}
