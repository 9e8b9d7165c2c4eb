package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies failures by who is at fault and how they are reported.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindRouting
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRouting:
		return "routing"
	case KindDependency:
		return "dependency"
	default:
		return "internal"
	}
}

// Error is a classified failure carrying the message shown to callers.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Validation reports a bad or missing upload.
func Validation(message, details string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Routing reports an unsupported method or path.
func Routing(message string) *Error {
	return &Error{Kind: KindRouting, Message: message}
}

// Dependency wraps a failed call to the vision service.
func Dependency(err error) *Error {
	return &Error{Kind: KindDependency, Message: "Internal server error", Details: errMessage(err), Err: err}
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Details: errMessage(err), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain. Unclassified
// errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusOf maps a kind to its HTTP status code.
func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindRouting:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Envelope is the JSON body of every error response.
type Envelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ToEnvelope converts any error into the response envelope.
func ToEnvelope(err error) Envelope {
	var appErr *Error
	if errors.As(err, &appErr) {
		return Envelope{Error: appErr.Message, Details: appErr.Details}
	}
	return Envelope{Error: "Internal server error", Details: errMessage(err)}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
