// Package speech keeps speeches as RedisJSON documents indexed by RediSearch.
package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/speeches/internal/db"
	"github.com/kailas-cloud/speeches/internal/domain"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

// pageSize is the FT.SEARCH batch used to drain a result set.
const pageSize = 1000

// store is the consumer interface for speeches (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetXX(ctx context.Context, key, path string, data []byte) (bool, error)
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo implements usecase/speech.Repository.
type Repo struct {
	store  store
	prefix string
	newID  func() string
}

// New creates a speech repository. prefix namespaces every key and the index.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix, newID: uuid.NewString}
}

// EnsureIndex creates the search index. An existing index is left as is.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := buildIndex(r.prefix)
	if err != nil {
		return err
	}
	exists, err := r.store.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", def.Name, err)
	}
	if exists {
		return nil
	}
	// another instance may create it between the check and FT.CREATE
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Insert assigns a fresh identity and stores s.
func (r *Repo) Insert(ctx context.Context, s domspeech.Speech) (domspeech.Speech, error) {
	id, err := r.freeID(ctx)
	if err != nil {
		return domspeech.Speech{}, err
	}
	stored := s.WithID(id)

	data, err := json.Marshal(toJSONDoc(stored))
	if err != nil {
		return domspeech.Speech{}, fmt.Errorf("marshal speech: %w", err)
	}
	key := r.key(id)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return domspeech.Speech{}, fmt.Errorf("json.set %s: %w", key, err)
	}
	return stored, nil
}

// FindByID returns the speech with the given identity.
func (r *Repo) FindByID(ctx context.Context, id string) (domspeech.Speech, bool, error) {
	key := r.key(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domspeech.Speech{}, false, nil
		}
		return domspeech.Speech{}, false, fmt.Errorf("json.get %s: %w", key, err)
	}

	var docs []jsonDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domspeech.Speech{}, false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	if len(docs) == 0 {
		return domspeech.Speech{}, false, nil
	}
	s, err := docs[0].toDomain(id)
	if err != nil {
		return domspeech.Speech{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return s, true, nil
}

// FindAll returns every stored speech.
func (r *Repo) FindAll(ctx context.Context) ([]domspeech.Speech, error) {
	return r.FindMatching(ctx, predicate.All())
}

// Update overwrites the stored speech with the same identity.
func (r *Repo) Update(ctx context.Context, s domspeech.Speech) error {
	data, err := json.Marshal(toJSONDoc(s))
	if err != nil {
		return fmt.Errorf("marshal speech: %w", err)
	}
	key := r.key(s.ID())
	ok, err := r.store.JSONSetXX(ctx, key, "$", data)
	if err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("speech %s: %w", s.ID(), domain.ErrNotFound)
	}
	return nil
}

// Delete removes the speech with the given identity.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	existed, err := r.store.Del(ctx, key)
	if err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if !existed {
		return fmt.Errorf("speech %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// FindMatching pushes tag and range clauses into FT.SEARCH and re-checks
// every returned document against p.
func (r *Repo) FindMatching(ctx context.Context, p predicate.Predicate) ([]domspeech.Speech, error) {
	pushed, _ := p.Split(native)
	q := &db.ListQuery{
		IndexName:    r.indexName(),
		Filters:      compile(pushed),
		Limit:        pageSize,
		ReturnFields: []string{"$"},
	}

	out := make([]domspeech.Speech, 0)
	for {
		res, err := r.store.SearchList(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", q.IndexName, err)
		}
		if res == nil || len(res.Entries) == 0 {
			return out, nil
		}
		for _, e := range res.Entries {
			s, err := r.decodeEntry(e)
			if err != nil {
				return nil, err
			}
			if p.Match(s) {
				out = append(out, s)
			}
		}
		q.Offset += len(res.Entries)
		if q.Offset >= res.Total {
			return out, nil
		}
	}
}

// freeID draws identities until one is not taken.
func (r *Repo) freeID(ctx context.Context) (string, error) {
	for {
		id := r.newID()
		taken, err := r.store.Exists(ctx, r.key(id))
		if err != nil {
			return "", fmt.Errorf("check exists %s: %w", id, err)
		}
		if !taken {
			return id, nil
		}
	}
}

func (r *Repo) decodeEntry(e db.SearchEntry) (domspeech.Speech, error) {
	id := strings.TrimPrefix(e.Key, r.keyPrefix())
	raw := e.Fields["$"]
	if raw == "" {
		return domspeech.Speech{}, fmt.Errorf("decode %s: empty document", e.Key)
	}
	var d jsonDoc
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return domspeech.Speech{}, fmt.Errorf("unmarshal %s: %w", e.Key, err)
	}
	s, err := d.toDomain(id)
	if err != nil {
		return domspeech.Speech{}, fmt.Errorf("decode %s: %w", e.Key, err)
	}
	return s, nil
}

func (r *Repo) keyPrefix() string { return r.prefix + "speech:" }

func (r *Repo) key(id string) string { return r.keyPrefix() + id }

func (r *Repo) indexName() string { return r.prefix + "speech:idx" }
