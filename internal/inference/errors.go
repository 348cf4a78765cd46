package inference

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call by the path that produced it.
type Kind int

const (
	KindRemote Kind = iota + 1
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindRemote:
		return "remote"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Error is returned by Dispatcher.Generate for every failed call.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a Dispatcher error, or 0 if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusError is a non-2xx response from the remote endpoint.
type StatusError struct {
	Code int
	URL  string
	// Body holds at most the first 4 KiB of the response.
	Body string
}

func (e *StatusError) Error() string {
	class := "Client"
	if e.Code >= 500 {
		class = "Server"
	}
	msg := fmt.Sprintf("%d %s Error: %s for url: %s", e.Code, class, http.StatusText(e.Code), e.URL)
	if b := strings.TrimSpace(e.Body); b != "" {
		msg += " (body: " + b + ")"
	}
	return msg
}

// StatusCode reports the upstream HTTP status.
func (e *StatusError) StatusCode() int { return e.Code }

// modelNotFoundError is returned when a local model id resolves to no file.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound returns an error for a model id that is not on disk.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a missing runtime dependency (llama.cpp
// not built in, completion server unreachable, no credential).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}

// ErrCredentialMissing is returned by the remote backend when no API key is configured.
var ErrCredentialMissing = errors.New("HF_API_KEY not set")
