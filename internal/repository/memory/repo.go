// Package memory is a process-local speech store.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/kailas-cloud/speeches/internal/domain"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

// Repo implements usecase/speech.Repository over a map.
// Listing order is insertion order.
type Repo struct {
	mu    sync.RWMutex
	byID  map[string]domspeech.Speech
	order []string
	newID func() string
}

// New creates an empty in-memory repository.
func New() *Repo {
	return &Repo{
		byID:  make(map[string]domspeech.Speech),
		newID: uuid.NewString,
	}
}

// Insert assigns a fresh identity and stores s.
func (r *Repo) Insert(_ context.Context, s domspeech.Speech) (domspeech.Speech, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, taken := r.byID[id]; taken; _, taken = r.byID[id] {
		id = r.newID()
	}
	stored := s.WithID(id)
	r.byID[id] = stored
	r.order = append(r.order, id)
	return stored, nil
}

// FindByID returns the speech with the given identity.
func (r *Repo) FindByID(_ context.Context, id string) (domspeech.Speech, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	return s, ok, nil
}

// FindAll returns every speech in insertion order.
func (r *Repo) FindAll(ctx context.Context) ([]domspeech.Speech, error) {
	return r.FindMatching(ctx, predicate.All())
}

// Update overwrites the stored speech with the same identity.
func (r *Repo) Update(_ context.Context, s domspeech.Speech) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID()]; !ok {
		return domain.ErrNotFound
	}
	r.byID[s.ID()] = s
	return nil
}

// Delete removes the speech with the given identity.
func (r *Repo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

// FindMatching evaluates p against every stored speech.
func (r *Repo) FindMatching(_ context.Context, p predicate.Predicate) ([]domspeech.Speech, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domspeech.Speech, 0, len(r.order))
	for _, id := range r.order {
		if s := r.byID[id]; p.Match(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Ping always succeeds.
func (r *Repo) Ping(context.Context) error { return nil }
