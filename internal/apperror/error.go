package apperror

import (
	"errors"
	"fmt"
	"time"
)

// AppError is a structured error carrying the feed-failure Code that
// drives the Supervisor's reconnect decision, plus enough context to
// log the failure usefully.
type AppError struct {
	Code      Code      `json:"code"`
	Message   string    `json:"message"`
	Venue     string    `json:"venue,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Venue != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Code, e.Venue, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is implements the errors.Is interface, comparing by Code so callers
// can write errors.Is(err, apperror.New(apperror.CodeTimeout)).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Temporary reports whether the Feed Supervisor should treat this
// failure as a signal to reconnect rather than give up. Every code in
// this taxonomy except CodeParseError is temporary: a parse error is
// recovered within the session without tearing down the connection,
// so it never reaches the Supervisor as a session-ending failure in
// the first place, but the predicate stays total for callers that
// receive an AppError from somewhere other than the session loop.
func (e *AppError) Temporary() bool {
	return e.Code != CodeParseError
}

// New creates an AppError with the given code and options. The
// default message comes from the messages.go message table; options may
// override it.
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:      code,
		Message:   messages[code],
		Timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(err)
	}
	if err.Message == "" {
		err.Message = string(code)
	}
	return err
}

// Option is a functional option for AppError.
type Option func(*AppError)

// WithMessage overrides the default message for the code.
func WithMessage(message string) Option {
	return func(e *AppError) { e.Message = message }
}

// WithVenue tags the error with the venue that produced it.
func WithVenue(venue string) Option {
	return func(e *AppError) { e.Venue = venue }
}

// WithCause wraps an underlying error.
func WithCause(cause error) Option {
	return func(e *AppError) { e.cause = cause }
}

// Wrap classifies a lower-level error under code, preserving it as the
// cause. If err is already an AppError it is returned unchanged, so
// wrapping an already-classified error at a higher layer is a no-op.
func Wrap(err error, code Code, venue string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(code, WithVenue(venue), WithCause(err))
}

// GetCode extracts the Code from err, or returns ok=false if err is not
// (or does not wrap) an AppError.
func GetCode(err error) (Code, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
