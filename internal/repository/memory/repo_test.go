package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/speeches/internal/domain"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

func newSpeech(author, body, date string) domspeech.Speech {
	return domspeech.New(domspeech.Fields{
		Title:      "Title",
		Body:       body,
		Author:     author,
		SpeechDate: domspeech.MustParseDate(date),
		Keywords:   []string{},
	})
}

func mustInsert(t *testing.T, r *Repo, s domspeech.Speech) domspeech.Speech {
	t.Helper()
	out, err := r.Insert(context.Background(), s)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return out
}

func TestInsert_AssignsUniqueIdentity(t *testing.T) {
	r := New()
	a := mustInsert(t, r, newSpeech("Jane", "a", "2024-01-10"))
	b := mustInsert(t, r, newSpeech("Jane", "b", "2024-01-10"))

	if !a.HasID() || !b.HasID() {
		t.Fatal("expected identities to be assigned")
	}
	if a.ID() == b.ID() {
		t.Fatalf("duplicate identity %q", a.ID())
	}
}

func TestInsert_RetriesOnCollision(t *testing.T) {
	r := New()
	ids := []string{"x", "x", "y"}
	r.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	a := mustInsert(t, r, newSpeech("A", "", "2024-01-01"))
	b := mustInsert(t, r, newSpeech("B", "", "2024-01-01"))

	if a.ID() != "x" || b.ID() != "y" {
		t.Fatalf("ids = %q, %q", a.ID(), b.ID())
	}
}

func TestFindByID(t *testing.T) {
	r := New()
	s := mustInsert(t, r, newSpeech("Jane", "body", "2024-01-10"))

	got, found, err := r.FindByID(context.Background(), s.ID())
	if err != nil || !found {
		t.Fatalf("FindByID: found=%v err=%v", found, err)
	}
	if got.Author() != "Jane" {
		t.Errorf("author = %q", got.Author())
	}

	_, found, err = r.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if found {
		t.Error("expected not found")
	}
}

func TestUpdate(t *testing.T) {
	r := New()
	s := mustInsert(t, r, newSpeech("Jane", "body", "2024-01-10"))

	f := s.Fields()
	f.Author = "Janet"
	if err := r.Update(context.Background(), s.Replace(f)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _, _ := r.FindByID(context.Background(), s.ID())
	if got.Author() != "Janet" {
		t.Errorf("author = %q, want Janet", got.Author())
	}
}

func TestUpdate_NotFound(t *testing.T) {
	r := New()
	mustInsert(t, r, newSpeech("Jane", "body", "2024-01-10"))

	err := r.Update(context.Background(), newSpeech("X", "", "2024-01-01").WithID("missing"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if all, _ := r.FindAll(context.Background()); len(all) != 1 {
		t.Errorf("len = %d, want 1", len(all))
	}
}

func TestDelete(t *testing.T) {
	r := New()
	a := mustInsert(t, r, newSpeech("A", "", "2024-01-01"))
	b := mustInsert(t, r, newSpeech("B", "", "2024-01-01"))

	if err := r.Delete(context.Background(), a.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete(context.Background(), a.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	all, _ := r.FindAll(context.Background())
	if len(all) != 1 || all[0].ID() != b.ID() {
		t.Fatalf("remaining = %v", all)
	}
}

func TestFindMatching(t *testing.T) {
	r := New()
	mustInsert(t, r, newSpeech("John", "We choose FREEDOM", "2024-01-10"))
	mustInsert(t, r, newSpeech("john", "tyranny", "2023-06-01"))
	mustInsert(t, r, newSpeech("Jane", "freedom of the press", "2024-03-15"))

	author := "John"
	got, err := r.FindMatching(context.Background(), predicate.Build(predicate.Criteria{Author: &author}))
	if err != nil {
		t.Fatalf("FindMatching: %v", err)
	}
	if len(got) != 1 || got[0].Author() != "John" {
		t.Fatalf("got %d results", len(got))
	}

	kw := "freedom"
	got, _ = r.FindMatching(context.Background(), predicate.Build(predicate.Criteria{Keyword: &kw}))
	if len(got) != 2 {
		t.Fatalf("keyword: got %d, want 2", len(got))
	}

	all, _ := r.FindAll(context.Background())
	empty, _ := r.FindMatching(context.Background(), predicate.All())
	if len(all) != 3 || len(empty) != 3 {
		t.Fatalf("all=%d empty=%d", len(all), len(empty))
	}
}
