package service

import (
	"errors"
	"net/http"
)

// Kind classifies the failures of a meal suggestion request
type Kind int

const (
	// KindConfiguration means the server is misconfigured, not the caller's fault
	KindConfiguration Kind = iota + 1
	// KindValidation means the caller sent an unusable payload
	KindValidation
	// KindUpstream means the generative API failed
	KindUpstream
)

// Public messages returned to callers. Upstream details never appear here.
const (
	MsgAPIKeyNotConfigured = "AI service API key not configured"
	MsgNoMenuText          = "No menu text provided"
	MsgUpstreamFailure     = "Error contacting the AI service"
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// StatusCode maps the kind to the HTTP status returned to the caller
func (k Kind) StatusCode() int {
	if k == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is returned by MealService. Message is safe to show to callers;
// Err holds the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrAPIKeyNotConfigured = &Error{Kind: KindConfiguration, Message: MsgAPIKeyNotConfigured}
	ErrNoMenuText          = &Error{Kind: KindValidation, Message: MsgNoMenuText}
)

// NewUpstreamError wraps a failure of the generative API
func NewUpstreamError(err error) *Error {
	return &Error{Kind: KindUpstream, Message: MsgUpstreamFailure, Err: err}
}

// AsError extracts a *Error from err. Anything else is reported as an
// upstream failure so callers never see raw error text.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewUpstreamError(err)
}
