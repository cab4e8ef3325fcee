package speech

import (
	"context"

	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

// Repository defines the record store contract for speeches.
type Repository interface {
	// Insert stores a speech without identity and returns it with the assigned identity.
	Insert(ctx context.Context, s domspeech.Speech) (domspeech.Speech, error)
	// FindByID reports absence with found == false and a nil error.
	FindByID(ctx context.Context, id string) (s domspeech.Speech, found bool, err error)
	FindAll(ctx context.Context) ([]domspeech.Speech, error)
	// Update overwrites the stored speech with the same identity.
	// Returns domain.ErrNotFound if no such identity exists.
	Update(ctx context.Context, s domspeech.Speech) error
	// Delete returns domain.ErrNotFound if no such identity exists.
	Delete(ctx context.Context, id string) error
	// FindMatching returns every speech p matches. An empty p is FindAll.
	FindMatching(ctx context.Context, p predicate.Predicate) ([]domspeech.Speech, error)
}

// Notifier receives committed changes.
type Notifier interface {
	SpeechCreated(ctx context.Context, s domspeech.Speech) error
	SpeechUpdated(ctx context.Context, s domspeech.Speech) error
	SpeechDeleted(ctx context.Context, id string) error
}
