package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/speeches/internal/domain"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
	"github.com/kailas-cloud/speeches/internal/logger"
	"github.com/kailas-cloud/speeches/internal/mapper"
	gen "github.com/kailas-cloud/speeches/internal/transport/generated"
	healthuc "github.com/kailas-cloud/speeches/internal/usecase/health"
	speechuc "github.com/kailas-cloud/speeches/internal/usecase/speech"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements generated.ServerInterface for the oapi-codegen chi router.
type Server struct {
	speeches      *speechuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(speeches *speechuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		speeches: speeches,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, gen.ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed),
	}
	return s
}

// Routes mounts every API route on a new chi router behind middlewares.
func (s *Server) Routes(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := gochi.NewRouter()
	r.Use(middlewares...)
	return gen.HandlerWithOptions(s, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: s.ParamError,
	})
}

// ParamError answers requests whose path or query parameters fail to bind.
func (s *Server) ParamError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Debug("invalid request parameter", zap.Error(err))
	msg := "invalid request"
	var pe *gen.InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = fmt.Sprintf("invalid %s parameter", pe.ParamName)
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, msg)
}

// ListSpeeches handles GET /api/speeches.
func (s *Server) ListSpeeches(w http.ResponseWriter, r *http.Request) {
	list, err := s.speeches.ListAll(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateSpeech handles POST /api/speeches.
func (s *Server) CreateSpeech(w http.ResponseWriter, r *http.Request) {
	dto, ok := s.decodeSpeech(w, r)
	if !ok {
		return
	}

	created, err := s.speeches.Create(r.Context(), dto)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateSpeech handles PUT /api/speeches/{id}.
func (s *Server) UpdateSpeech(w http.ResponseWriter, r *http.Request, id gen.SpeechId) {
	dto, ok := s.decodeSpeech(w, r)
	if !ok {
		return
	}

	updated, err := s.speeches.Update(r.Context(), id, dto)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSpeech handles DELETE /api/speeches/{id}.
func (s *Server) DeleteSpeech(w http.ResponseWriter, r *http.Request, id gen.SpeechId) {
	if err := s.speeches.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchSpeeches handles GET /api/speeches/search.
func (s *Server) SearchSpeeches(w http.ResponseWriter, r *http.Request, params gen.SearchSpeechesParams) {
	found, err := s.speeches.Search(r.Context(), criteriaFromGen(params))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeSpeech reads and validates a request body. On failure the response
// has been written and ok is false.
func (s *Server) decodeSpeech(w http.ResponseWriter, r *http.Request) (mapper.SpeechDTO, bool) {
	var dto mapper.SpeechDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return mapper.SpeechDTO{}, false
	}
	if err := validateSpeech(dto); err != nil {
		s.handleDomainError(w, err)
		return mapper.SpeechDTO{}, false
	}
	return dto, true
}

// validateSpeech enforces the required fields of a create or update body.
func validateSpeech(dto mapper.SpeechDTO) error {
	var missing []string
	if strings.TrimSpace(dto.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(dto.Body) == "" {
		missing = append(missing, "body")
	}
	if strings.TrimSpace(dto.Author) == "" {
		missing = append(missing, "author")
	}
	if dto.SpeechDate == nil {
		missing = append(missing, "speechDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func criteriaFromGen(p gen.SearchSpeechesParams) predicate.Criteria {
	c := predicate.Criteria{
		Author:  p.Author,
		Keyword: p.Keyword,
	}
	if p.StartDate != nil {
		d := domspeech.DateOf(p.StartDate.Time)
		c.StartDate = &d
	}
	if p.EndDate != nil {
		d := domspeech.DateOf(p.EndDate.Time)
		c.EndDate = &d
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors carry their own detail.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "speech not found"
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}
