package content

import (
	"errors"
	"fmt"
)

// Kind classifies provider failures.
type Kind int

const (
	// KindNetwork means the request could not complete.
	KindNetwork Kind = iota + 1
	// KindRemote means the provider answered with a structured error.
	KindRemote
	// KindDecode means the response body was not what we expected.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRemote:
		return "remote"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by providers for every failed List or Read.
type Error struct {
	Kind    Kind
	Op      string // "list" or "read"
	Path    string
	Status  int
	Message string

	// Auth is set for 401/403 answers, RateLimited when the provider
	// reported an exhausted quota.
	Auth        bool
	RateLimited bool

	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %q: %s error (status %d): %s", e.Op, e.Path, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s %q: %s error: %s", e.Op, e.Path, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NetworkError wraps a transport failure.
func NetworkError(op, path string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Path: path, Err: err}
}

// DecodeError wraps a body that could not be interpreted.
func DecodeError(op, path string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Path: path, Err: err}
}

// RemoteError builds an error for a structured provider answer.
func RemoteError(op, path string, status int, message string) *Error {
	return &Error{
		Kind:    KindRemote,
		Op:      op,
		Path:    path,
		Status:  status,
		Message: message,
		Auth:    status == 401 || status == 403,
	}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// IsAuth reports whether err is an authorization or rate-limit failure.
func IsAuth(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Auth || ce.RateLimited
	}
	return false
}
