package speech

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/speeches/internal/domain"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
	"github.com/kailas-cloud/speeches/internal/metrics"
)

// InstrumentedRepository wraps a Repository with metrics and error logging.
// Errors are returned unchanged.
type InstrumentedRepository struct {
	inner   Repository
	backend string
	logger  *zap.Logger
}

var _ Repository = (*InstrumentedRepository)(nil)

// NewInstrumentedRepository wraps inner. backend names the store in logs.
func NewInstrumentedRepository(inner Repository, backend string, logger *zap.Logger) *InstrumentedRepository {
	return &InstrumentedRepository{inner: inner, backend: backend, logger: logger}
}

// Insert delegates to the inner repository.
func (r *InstrumentedRepository) Insert(ctx context.Context, s domspeech.Speech) (domspeech.Speech, error) {
	start := time.Now()
	out, err := r.inner.Insert(ctx, s)
	r.observe("insert", start, err)
	return out, err //nolint:wrapcheck // transparent decorator
}

// FindByID delegates to the inner repository.
func (r *InstrumentedRepository) FindByID(ctx context.Context, id string) (domspeech.Speech, bool, error) {
	start := time.Now()
	out, found, err := r.inner.FindByID(ctx, id)
	observed := err
	if err == nil && !found {
		observed = domain.ErrNotFound
	}
	r.observe("find_by_id", start, observed)
	return out, found, err //nolint:wrapcheck // transparent decorator
}

// FindAll delegates to the inner repository.
func (r *InstrumentedRepository) FindAll(ctx context.Context) ([]domspeech.Speech, error) {
	start := time.Now()
	out, err := r.inner.FindAll(ctx)
	r.observe("find_all", start, err)
	if err == nil {
		metrics.StoreSearchResults.WithLabelValues("find_all").Observe(float64(len(out)))
	}
	return out, err //nolint:wrapcheck // transparent decorator
}

// Update delegates to the inner repository.
func (r *InstrumentedRepository) Update(ctx context.Context, s domspeech.Speech) error {
	start := time.Now()
	err := r.inner.Update(ctx, s)
	r.observe("update", start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// Delete delegates to the inner repository.
func (r *InstrumentedRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.inner.Delete(ctx, id)
	r.observe("delete", start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// FindMatching delegates to the inner repository.
func (r *InstrumentedRepository) FindMatching(
	ctx context.Context, p predicate.Predicate,
) ([]domspeech.Speech, error) {
	start := time.Now()
	out, err := r.inner.FindMatching(ctx, p)
	r.observe("find_matching", start, err)
	if err != nil {
		r.logger.Debug("Predicate that failed", zap.String("backend", r.backend), zap.Stringer("predicate", p))
		return nil, err //nolint:wrapcheck // transparent decorator
	}
	metrics.StoreSearchResults.WithLabelValues("find_matching").Observe(float64(len(out)))
	return out, nil
}

func (r *InstrumentedRepository) observe(op string, start time.Time, err error) {
	duration := time.Since(start)
	metrics.StoreOperationDuration.WithLabelValues(op).Observe(duration.Seconds())

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		status = "not_found"
	default:
		status = "error"
		r.logger.Error("Store operation failed",
			zap.String("backend", r.backend),
			zap.String("operation", op),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	metrics.StoreOperationsTotal.WithLabelValues(op, status).Inc()
}
