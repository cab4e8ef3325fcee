package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
	"github.com/kailas-cloud/speeches/internal/mapper"
	"github.com/kailas-cloud/speeches/internal/metrics"
	"github.com/kailas-cloud/speeches/internal/repository/memory"
	gen "github.com/kailas-cloud/speeches/internal/transport/generated"
	healthuc "github.com/kailas-cloud/speeches/internal/usecase/health"
	speechuc "github.com/kailas-cloud/speeches/internal/usecase/speech"
)

type failingPinger struct{ err error }

func (p failingPinger) Ping(context.Context) error { return p.err }

// brokenRepo fails every call.
type brokenRepo struct{}

var errBroken = errors.New("dial tcp 10.0.0.7:5432: connection refused")

func (brokenRepo) Insert(context.Context, domspeech.Speech) (domspeech.Speech, error) {
	return domspeech.Speech{}, errBroken
}

func (brokenRepo) FindByID(context.Context, string) (domspeech.Speech, bool, error) {
	return domspeech.Speech{}, false, errBroken
}

func (brokenRepo) FindAll(context.Context) ([]domspeech.Speech, error) { return nil, errBroken }

func (brokenRepo) Update(context.Context, domspeech.Speech) error { return errBroken }

func (brokenRepo) Delete(context.Context, string) error { return errBroken }

func (brokenRepo) FindMatching(context.Context, predicate.Predicate) ([]domspeech.Speech, error) {
	return nil, errBroken
}

func newHandler(t *testing.T, repo speechuc.Repository, db healthuc.DBPinger) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	srv := NewServer(speechuc.New(repo), healthuc.New(db, nil), logger)
	return srv.Routes(
		JSONRecoverer(logger),
		chiMiddleware.RequestID,
		WideEventMiddleware(logger),
		metrics.Middleware(),
	)
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	repo := memory.New()
	return newHandler(t, repo, repo)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSpeech(t *testing.T, rec *httptest.ResponseRecorder) mapper.SpeechDTO {
	t.Helper()
	var dto mapper.SpeechDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []mapper.SpeechDTO {
	t.Helper()
	var list []mapper.SpeechDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	return list
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) gen.ErrorResponse {
	t.Helper()
	var e gen.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

const speechA = `{"title":"Speech A","body":"We choose FREEDOM","author":"Jane","speechDate":"2024-01-10","keywords":["liberty"]}`
const speechB = `{"title":"Speech B","body":"On tyranny","author":"Janet","speechDate":"2023-05-01","keywords":[]}`

func TestCreateAndList(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/speeches", speechA)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeSpeech(t, rec)
	require.NotNil(t, created.ID)
	assert.NotEmpty(t, *created.ID)
	assert.Equal(t, "Jane", created.Author)
	assert.Equal(t, "2024-01-10", created.SpeechDate.String())
	assert.Equal(t, []string{"liberty"}, created.Keywords)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodGet, "/api/speeches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList(t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, *created.ID, *list[0].ID)
}

func TestCreate_OmittedKeywordsRenderEmpty(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/speeches",
		`{"title":"T","body":"B","author":"Jane","speechDate":"2024-01-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"keywords":[]`)

	rec = do(t, h, http.MethodGet, "/api/speeches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"keywords":[]`)
}

func TestList_EmptyIsArray(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/api/speeches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = do(t, h, http.MethodGet, "/api/speeches/search?author=nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreate_Validation(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"blank title", `{"title":" ","body":"b","author":"a","speechDate":"2024-01-01"}`, "title"},
		{"missing body", `{"title":"t","author":"a","speechDate":"2024-01-01"}`, "body"},
		{"missing author", `{"title":"t","body":"b","speechDate":"2024-01-01"}`, "author"},
		{"missing date", `{"title":"t","body":"b","author":"a"}`, "speechDate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/speeches", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			e := decodeError(t, rec)
			assert.Equal(t, gen.ErrorResponseCodeValidationFailed, e.Code)
			assert.Contains(t, e.Message, tc.want)
		})
	}

	rec := do(t, h, http.MethodGet, "/api/speeches", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreate_MalformedJSON(t *testing.T) {
	h := newTestHandler(t)

	for _, body := range []string{`{"title":`, `{"title":"t","speechDate":"10/01/2024"}`} {
		rec := do(t, h, http.MethodPost, "/api/speeches", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, gen.ErrorResponseCodeBadRequest, decodeError(t, rec).Code)
	}
}

func TestUpdate(t *testing.T) {
	h := newTestHandler(t)
	created := decodeSpeech(t, do(t, h, http.MethodPost, "/api/speeches", speechA))

	body := `{"id":"ignored","title":"Speech A2","body":"Renewed","author":"Jane","speechDate":"2024-02-02","keywords":["x","y"]}`
	rec := do(t, h, http.MethodPut, "/api/speeches/"+*created.ID, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decodeSpeech(t, rec)
	assert.Equal(t, *created.ID, *updated.ID)
	assert.Equal(t, "Speech A2", updated.Title)
	assert.Equal(t, "2024-02-02", updated.SpeechDate.String())
	assert.Equal(t, []string{"x", "y"}, updated.Keywords)

	list := decodeList(t, do(t, h, http.MethodGet, "/api/speeches", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "Renewed", list[0].Body)
}

func TestUpdate_NotFound(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPut, "/api/speeches/missing", speechA)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, gen.ErrorResponseCodeNotFound, decodeError(t, rec).Code)

	assert.Empty(t, decodeList(t, do(t, h, http.MethodGet, "/api/speeches", "")))
}

func TestDelete(t *testing.T) {
	h := newTestHandler(t)
	created := decodeSpeech(t, do(t, h, http.MethodPost, "/api/speeches", speechA))

	rec := do(t, h, http.MethodDelete, "/api/speeches/"+*created.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/speeches/"+*created.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, gen.ErrorResponseCodeNotFound, decodeError(t, rec).Code)
}

func TestSearch_Scenario(t *testing.T) {
	h := newTestHandler(t)
	a := decodeSpeech(t, do(t, h, http.MethodPost, "/api/speeches", speechA))
	b := decodeSpeech(t, do(t, h, http.MethodPost, "/api/speeches", speechB))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"author exact", "author=Jane", []string{*a.ID}},
		{"author prefix does not match", "author=Jan", nil},
		{"keyword any case", "keyword=freedom", []string{*a.ID}},
		{"date range inclusive", "startDate=2024-01-10&endDate=2024-01-10", []string{*a.ID}},
		{"open start", "endDate=2023-12-31", []string{*b.ID}},
		{"start after end", "startDate=2025-01-01&endDate=2020-01-01", nil},
		{"empty keyword matches all", "keyword=", []string{*a.ID, *b.ID}},
		{"empty author is literal", "author=", nil},
		{"no criteria", "", []string{*a.ID, *b.ID}},
		{"conjunction", "author=Janet&keyword=tyranny&startDate=2023-01-01", []string{*b.ID}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/speeches/search?"+tc.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			list := decodeList(t, rec)
			got := make([]string, 0, len(list))
			for _, s := range list {
				got = append(got, *s.ID)
			}
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSearch_MalformedDate(t *testing.T) {
	h := newTestHandler(t)

	for _, q := range []string{"startDate=10-01-2024", "endDate=2024-13-01"} {
		rec := do(t, h, http.MethodGet, "/api/speeches/search?"+q, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
		e := decodeError(t, rec)
		assert.Equal(t, gen.ErrorResponseCodeBadRequest, e.Code)
		assert.Contains(t, e.Message, "Date")
	}
}

func TestInternalError_Sanitized(t *testing.T) {
	h := newHandler(t, brokenRepo{}, failingPinger{})

	rec := do(t, h, http.MethodGet, "/api/speeches", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, gen.ErrorResponseCodeInternalError, e.Code)
	assert.NotContains(t, e.Message, "10.0.0.7")

	rec = do(t, h, http.MethodDelete, "/api/speeches/x", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp gen.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, gen.HealthResponseStatusOk, resp.Status)
	assert.Equal(t, gen.HealthResponseChecksOk, resp.Checks["database"])

	h := newHandler(t, memory.New(), failingPinger{err: errors.New("down")})
	rec = do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)
	do(t, h, http.MethodGet, "/api/speeches", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "speeches_http_requests_total")
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, gen.ErrorResponseCodeInternalError, decodeError(t, rec).Code)
}
