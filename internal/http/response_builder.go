// Package http serves the fintrack JSON API.
//
// This file implements a small builder for JSON responses so every handler
// writes status, headers and body the same way.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fintrack/internal/core"
)

const contentTypeJSON = "application/json; charset=utf-8"

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	payload    any
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields []core.FieldError `json:"fields,omitempty"`
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Payload sets the value encoded as the response body. A nil payload
// writes no body.
func (b *JSONResponseBuilder) Payload(v any) *JSONResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	body, err := json.Marshal(b.payload)
	if err != nil {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// OK creates a 200 response carrying v.
func OK(v any) *JSONResponseBuilder {
	return NewJSONResponse().Payload(v)
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Payload(ErrorBody{Error: message})
}

// BadRequestError creates a 400 response for a single malformed field.
func BadRequestError(field, message string) *JSONResponseBuilder {
	return ValidationErrorResponse(&core.ValidationError{
		Errors: []core.FieldError{{Field: field, Message: message}},
	})
}

// ValidationErrorResponse creates a 400 response listing every field failure.
func ValidationErrorResponse(ve *core.ValidationError) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusBadRequest).
		Payload(ErrorBody{Error: "validation failed", Fields: ve.Errors})
}

// NotFoundResponse creates a 404 Not Found error response.
func NotFoundResponse(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// InternalServerError creates a 500 response. The message is generic; causes
// are logged, never returned.
func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal error")
}

// ResponseForError maps domain errors to responses. It reports false for
// errors that are not part of the domain taxonomy.
func ResponseForError(err error) (*JSONResponseBuilder, bool) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ValidationErrorResponse(ve), true
	}
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		return NotFoundResponse(nf.Error()), true
	}
	return nil, false
}
