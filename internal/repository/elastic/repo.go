// Package elastic keeps speeches in an Elasticsearch index and compiles search
// predicates into bool/filter queries.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/kailas-cloud/speeches/internal/domain"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

// pageSize is the search_after batch used to drain a result set.
const pageSize = 1000

// refresh makes writes visible to the next search before the call returns.
const refresh = "wait_for"

// Repo implements usecase/speech.Repository over Elasticsearch.
type Repo struct {
	es    *elasticsearch.Client
	index string
	newID func() string
}

// New creates an Elasticsearch client for addrs and binds it to index.
func New(addrs []string, username, password, index string) (*Repo, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return NewWithClient(es, index), nil
}

// NewWithClient binds an existing client to index.
func NewWithClient(es *elasticsearch.Client, index string) *Repo {
	return &Repo{es: es, index: index, newID: uuid.NewString}
}

// Ping checks if Elasticsearch is available.
func (r *Repo) Ping(ctx context.Context) error {
	res, err := r.es.Ping(r.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the index with its mapping when missing.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{r.index}}.Do(ctx, r.es)
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	res.Body.Close()
	switch {
	case res.StatusCode == http.StatusOK:
		return nil
	case res.StatusCode != http.StatusNotFound:
		return fmt.Errorf("index exists failed: %s", res.Status())
	}

	res, err = esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, r.es)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body := readBody(res)
		// lost a creation race
		if strings.Contains(body, "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index failed: %s", body)
	}
	return nil
}

// Insert assigns a fresh identity and stores s. A taken identity is redrawn.
func (r *Repo) Insert(ctx context.Context, s domspeech.Speech) (domspeech.Speech, error) {
	for {
		stored := s.WithID(r.newID())
		payload, err := json.Marshal(toDocument(stored))
		if err != nil {
			return domspeech.Speech{}, fmt.Errorf("marshal speech: %w", err)
		}

		res, err := esapi.IndexRequest{
			Index:      r.index,
			DocumentID: stored.ID(),
			Body:       bytes.NewReader(payload),
			OpType:     "create",
			Refresh:    refresh,
		}.Do(ctx, r.es)
		if err != nil {
			return domspeech.Speech{}, fmt.Errorf("index doc: %w", err)
		}

		if res.StatusCode == http.StatusConflict {
			res.Body.Close()
			continue
		}
		if res.IsError() {
			body := readBody(res)
			res.Body.Close()
			return domspeech.Speech{}, fmt.Errorf("index doc failed: %s", body)
		}
		res.Body.Close()
		return stored, nil
	}
}

// FindByID returns the speech with the given identity.
func (r *Repo) FindByID(ctx context.Context, id string) (domspeech.Speech, bool, error) {
	res, err := esapi.GetRequest{Index: r.index, DocumentID: id}.Do(ctx, r.es)
	if err != nil {
		return domspeech.Speech{}, false, fmt.Errorf("get doc %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return domspeech.Speech{}, false, nil
	}
	if res.IsError() {
		return domspeech.Speech{}, false, fmt.Errorf("get doc %s failed: %s", id, readBody(res))
	}

	var parsed struct {
		Found  bool     `json:"found"`
		Source document `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return domspeech.Speech{}, false, fmt.Errorf("decode get response: %w", err)
	}
	if !parsed.Found {
		return domspeech.Speech{}, false, nil
	}
	s, err := parsed.Source.toDomain(id)
	if err != nil {
		return domspeech.Speech{}, false, fmt.Errorf("decode doc %s: %w", id, err)
	}
	return s, true, nil
}

// FindAll returns every stored speech.
func (r *Repo) FindAll(ctx context.Context) ([]domspeech.Speech, error) {
	return r.FindMatching(ctx, predicate.All())
}

// Update overwrites every field of the stored document.
func (r *Repo) Update(ctx context.Context, s domspeech.Speech) error {
	payload, err := json.Marshal(map[string]any{"doc": toDocument(s)})
	if err != nil {
		return fmt.Errorf("marshal speech: %w", err)
	}

	res, err := esapi.UpdateRequest{
		Index:      r.index,
		DocumentID: s.ID(),
		Body:       bytes.NewReader(payload),
		Refresh:    refresh,
	}.Do(ctx, r.es)
	if err != nil {
		return fmt.Errorf("update doc %s: %w", s.ID(), err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("speech %s: %w", s.ID(), domain.ErrNotFound)
	}
	if res.IsError() {
		return fmt.Errorf("update doc %s failed: %s", s.ID(), readBody(res))
	}
	return nil
}

// Delete removes the speech with the given identity.
func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := esapi.DeleteRequest{Index: r.index, DocumentID: id, Refresh: refresh}.Do(ctx, r.es)
	if err != nil {
		return fmt.Errorf("delete doc %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("speech %s: %w", id, domain.ErrNotFound)
	}
	if res.IsError() {
		return fmt.Errorf("delete doc %s failed: %s", id, readBody(res))
	}
	return nil
}

// FindMatching runs the compiled bool query, pages with search_after on id
// and re-checks every hit against p.
func (r *Repo) FindMatching(ctx context.Context, p predicate.Predicate) ([]domspeech.Speech, error) {
	pushed, _ := p.Split(native)
	body := map[string]any{
		"size":  pageSize,
		"query": compile(pushed),
		"sort":  []map[string]any{{"id": map[string]any{"order": "asc"}}},
	}

	out := make([]domspeech.Speech, 0)
	for {
		hits, err := r.search(ctx, body)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			s, err := h.Source.toDomain(h.ID)
			if err != nil {
				return nil, fmt.Errorf("decode doc %s: %w", h.ID, err)
			}
			if p.Match(s) {
				out = append(out, s)
			}
		}
		if len(hits) < pageSize {
			return out, nil
		}
		body["search_after"] = hits[len(hits)-1].Sort
	}
}

type hit struct {
	ID     string   `json:"_id"`
	Source document `json:"_source"`
	Sort   []any    `json:"sort"`
}

func (r *Repo) search(ctx context.Context, body map[string]any) ([]hit, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(r.index),
		r.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", readBody(res))
	}

	var parsed struct {
		Hits struct {
			Hits []hit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return parsed.Hits.Hits, nil
}

func readBody(res *esapi.Response) string {
	data, _ := io.ReadAll(res.Body)
	return strings.TrimSpace(string(data))
}
