package utils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when the remote service rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a credential is missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the signed-in role may not use an endpoint.
	ErrForbidden = errors.New("forbidden")
	// ErrRejected covers every other 4xx answer.
	ErrRejected = errors.New("request rejected")
	// ErrNetworkOrServer covers transport failures and 5xx answers.
	ErrNetworkOrServer = errors.New("network or server error")

	ErrNotSignedIn         = errors.New("not signed in")
	ErrSubmissionInFlight  = errors.New("a submission is already in progress")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnknownTab          = errors.New("unknown tab")
)

// RemoteError keeps the message sent by the remote service next to the
// category it maps to, so callers can match with errors.Is and still show
// the message verbatim.
type RemoteError struct {
	Kind    error
	Status  int
	Message string
	// Fields is set when the remote answered with a per-field detail list.
	Fields []FieldError
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *RemoteError) Unwrap() error { return e.Kind }

// NewRemoteError builds a RemoteError of the given kind.
func NewRemoteError(kind error, status int, message string) error {
	return &RemoteError{Kind: kind, Status: status, Message: message}
}

// FieldError is one violated input field.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError lists every violated field of a form, one message per field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field returns the message recorded for name, if any.
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// UserMessage is the single line shown to a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Error()
	}
	if v, ok := AsValidation(err); ok && len(v.Fields) > 0 {
		return v.Fields[0].Message
	}
	return err.Error()
}
