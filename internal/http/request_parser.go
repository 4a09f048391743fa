// Package http serves the fintrack JSON API.
//
// This file implements utilities for decoding request bodies and the query
// parameters shared by several endpoints.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 64 << 10

// Query parameter names for period based endpoints and export.
const (
	ParamPeriod    = "period"
	ParamAnchor    = "anchor"
	ParamBreakdown = "breakdown"
	ParamHeader    = "header"
)

// FieldBody is reported when the request body itself cannot be decoded.
const FieldBody = "body"

// DecodeJSON decodes exactly one JSON value from the request body into dst.
// Unknown fields, trailing data and oversized bodies are rejected with a
// ValidationError on FieldBody.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return bodyError(fmt.Sprintf("body exceeds %d bytes", MaxBodyBytes))
		}
		return bodyError("could not read body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return bodyError("body is required")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return bodyError(describeJSONError(err))
	}
	if dec.More() {
		return bodyError("body must contain a single JSON object")
	}
	return nil
}

func bodyError(msg string) error {
	return core.NewValidationError([]core.FieldError{{Field: FieldBody, Message: msg}})
}

func describeJSONError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "malformed JSON: unexpected end of input"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q has the wrong type", typeErr.Field)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	}
	return sanitizeInput(err.Error())
}

// ParsePeriodQuery reads period and anchor, defaulting to the month
// containing today. Values are validated by the aggregation engine.
func ParsePeriodQuery(q url.Values, today core.Date) core.TimePeriod {
	p := core.TimePeriod{
		Type:       core.PeriodMonth,
		AnchorDate: today.String(),
	}
	if v := strings.TrimSpace(q.Get(ParamPeriod)); v != "" {
		p.Type = core.PeriodType(strings.ToLower(v))
	}
	if v := strings.TrimSpace(q.Get(ParamAnchor)); v != "" {
		p.AnchorDate = v
	}
	return p
}

// ParseBoolQuery reads a boolean query parameter with a default.
func ParseBoolQuery(q url.Values, name string, def bool) (bool, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, core.NewValidationError([]core.FieldError{{Field: name, Message: "must be true or false"}})
	}
	return b, nil
}
