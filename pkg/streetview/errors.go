package streetview

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingAPIKey    = errors.New("google maps API key not found; set the " + APIKeyEnvVar + " environment variable")
	ErrInvalidParams    = errors.New("invalid parameters")
	ErrTransport        = errors.New("street view request failed")
	ErrNoImagery        = errors.New("no Street View imagery available for this location")
	ErrInvalidRequest   = errors.New("invalid request parameters")
	ErrRequestDenied    = errors.New("API key invalid or quota exceeded")
	ErrUnexpectedStatus = errors.New("unexpected Street View API response")
)

// Kind classifies a failed invocation for hosts and downstream events.
type Kind string

const (
	KindNone           Kind = ""
	KindConfiguration  Kind = "configuration"
	KindValidation     Kind = "validation"
	KindTransport      Kind = "transport"
	KindNoImagery      Kind = "no_imagery"
	KindRequestDenied  Kind = "request_denied"
	KindInvalidRequest Kind = "invalid_request"
	KindAPI            Kind = "api"
)

// FieldError names one rejected parameter.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every rejected parameter of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return ErrInvalidParams.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidParams }

// APIError is a response the Street View API answered but did not satisfy.
type APIError struct {
	StatusCode int
	// APIStatus is the Street View status string when the API sent one (e.g. ZERO_RESULTS).
	APIStatus string
	Snippet   string
	Err       error
}

func (e *APIError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrUnexpectedStatus) {
		return e.Err.Error()
	}
	msg := fmt.Sprintf("Street View API error: %d", e.StatusCode)
	if e.APIStatus != "" {
		msg += " " + e.APIStatus
	}
	if e.Snippet != "" {
		msg += ": " + e.Snippet
	}
	return msg
}

func (e *APIError) Unwrap() error {
	if e.Err == nil {
		return ErrUnexpectedStatus
	}
	return e.Err
}

// KindOf maps an error returned by Fetch onto its category.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingAPIKey):
		return KindConfiguration
	case errors.Is(err, ErrInvalidParams):
		return KindValidation
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrNoImagery):
		return KindNoImagery
	case errors.Is(err, ErrRequestDenied):
		return KindRequestDenied
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	default:
		return KindAPI
	}
}

// StatusMessage renders err as the node's user-facing status. Nil means success
// and yields an empty status.
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}
	return "Failed to fetch Street View image: " + err.Error()
}
