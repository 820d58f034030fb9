// Package handler provides shared JSON plumbing for the HTTP handlers:
// request decoding, response encoding, and the error envelope. Domain
// error codes map to HTTP statuses through the middleware package.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/middleware"
)

// errorBody is the JSON error envelope shared by all endpoints.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Issues  []issueDetail `json:"issues,omitempty"`
}

type issueDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse writes a domain error as a JSON response. Internal error
// details are logged but never sent to the client. When the error carries
// a ValidationResult, each issue is included so the shopper sees every
// problem at once.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := middleware.ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	body := errorBody{Error: errorDetail{
		Code:    code,
		Message: domain.ErrorMessage(err),
	}}
	if result := domain.ValidationResultFromError(err); result != nil {
		for _, issue := range result.Issues {
			body.Error.Issues = append(body.Error.Issues, issueDetail{
				Code:    issue.Code,
				Message: issue.Message,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// DecodeJSON decodes the request body into v, rejecting unknown fields
// and trailing data.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.Invalid("", "invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.Invalid("", "invalid request body")
	}
	return nil
}
