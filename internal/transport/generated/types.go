// Package generated holds the HTTP API types, the ServerInterface and its chi
// routing, laid out the way oapi-codegen's chi-server target emits them for
// api/openapi.yaml.
package generated

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
)

// Defines values for HealthResponseChecks.
const (
	HealthResponseChecksError HealthResponseChecks = "error"
	HealthResponseChecksOk    HealthResponseChecks = "ok"
)

// Defines values for HealthResponseStatus.
const (
	HealthResponseStatusDegraded HealthResponseStatus = "degraded"
	HealthResponseStatusError    HealthResponseStatus = "error"
	HealthResponseStatusOk       HealthResponseStatus = "ok"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// ErrorResponseCode defines model for ErrorResponse.Code.
type ErrorResponseCode string

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Checks map[string]HealthResponseChecks `json:"checks"`
	Status HealthResponseStatus            `json:"status"`
}

// HealthResponseChecks defines model for HealthResponse.Checks.
type HealthResponseChecks string

// HealthResponseStatus defines model for HealthResponse.Status.
type HealthResponseStatus string

// SpeechId defines model for SpeechId.
type SpeechId = string

// SearchSpeechesParams defines parameters for SearchSpeeches.
type SearchSpeechesParams struct {
	// Author exact, case-sensitive author match.
	Author *string `form:"author,omitempty" json:"author,omitempty"`

	// StartDate inclusive lower bound on speechDate.
	StartDate *openapi_types.Date `form:"startDate,omitempty" json:"startDate,omitempty"`

	// EndDate inclusive upper bound on speechDate.
	EndDate *openapi_types.Date `form:"endDate,omitempty" json:"endDate,omitempty"`

	// Keyword case-insensitive substring of the body.
	Keyword *string `form:"keyword,omitempty" json:"keyword,omitempty"`
}
