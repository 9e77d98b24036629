// Package errors provides a structured error type with wrapping and
// stable machine-readable codes
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// Code identifies an error class on the wire. Values are stable API
// contract; add sparingly and never rename
type Code string

const (
	// CodeUnknown is for unclassified errors
	CodeUnknown Code = "internal_error"

	// CodePanic is for panics recovered by middleware
	CodePanic Code = "panic"

	// CodeUnavailable is for transient errors where retry may succeed
	CodeUnavailable Code = "unavailable"

	// CodeDB is for general database errors
	CodeDB Code = "storage_error"

	// CodeInvalidPayload is for malformed or missing input
	CodeInvalidPayload Code = "invalid_payload"

	// CodeUsernameTaken is for registration against an existing username
	CodeUsernameTaken Code = "username_taken"

	// CodeInvalidTosVersion is for accepting a version that is not current
	CodeInvalidTosVersion Code = "invalid_tos_version"

	// CodeTosNotAccepted is for mutating requests before TOS acceptance
	CodeTosNotAccepted Code = "tos_not_accepted"

	// CodeAnswerLimitExceeded is for the daily answer quota gate
	CodeAnswerLimitExceeded Code = "answer_limit_exceeded"

	// CodeQuestionNotFound is for requests against a missing question
	CodeQuestionNotFound Code = "question_not_found"

	// CodeAnswerNotFound is for requests against a missing answer
	CodeAnswerNotFound Code = "answer_not_found"

	// CodeDuplicateTargetNotFound is for mark-duplicate against a missing canonical question
	CodeDuplicateTargetNotFound Code = "duplicate_target_not_found"

	// CodeForbidden is for authenticated agents acting outside their rights
	CodeForbidden Code = "forbidden"

	// CodeAlreadyClaimed is for a claim race lost
	CodeAlreadyClaimed Code = "already_claimed"

	// CodeUserNotFound is for lookups against an unknown username
	CodeUserNotFound Code = "user_not_found"

	// CodeInvalidAPIKey is for missing or unmatched credentials
	CodeInvalidAPIKey Code = "invalid_api_key"
)

// HTTPStatusCode turns a Code into an http status code
func HTTPStatusCode(c Code) int {
	switch c {
	case CodeInvalidPayload, CodeInvalidTosVersion:
		return http.StatusBadRequest
	case CodeInvalidAPIKey:
		return http.StatusUnauthorized
	case CodeTosNotAccepted, CodeForbidden:
		return http.StatusForbidden
	case CodeQuestionNotFound, CodeAnswerNotFound, CodeDuplicateTargetNotFound, CodeUserNotFound:
		return http.StatusNotFound
	case CodeUsernameTaken, CodeAlreadyClaimed:
		return http.StatusConflict
	case CodeAnswerLimitExceeded:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeDB, CodePanic, CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (for validation); orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  Code
	field string
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() Code { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom converts any error into a Wire payload with best-effort mapping
// If err is nil, returns the zero-value Wire (no error)
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: CodeUnknown, Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts a Code from any error, defaulting to Unknown
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.code
	}
	return CodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code Code) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code Code, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code Code, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code Code, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code Code, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// InvalidPayloadf returns an invalid payload error
func InvalidPayloadf(format string, a ...any) error { return Newf(CodeInvalidPayload, format, a...) }

// Forbiddenf returns a forbidden error
func Forbiddenf(format string, a ...any) error { return Newf(CodeForbidden, format, a...) }

// Unauthorizedf returns an invalid api key error
func Unauthorizedf(format string, a ...any) error { return Newf(CodeInvalidAPIKey, format, a...) }

// DBf returns a general database error
func DBf(format string, a ...any) error { return Newf(CodeDB, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(CodePanic, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(CodeUnavailable, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(CodeUnknown, format, a...) }

// HTTP bundles status + wire in one shot (nice for handlers)
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}
