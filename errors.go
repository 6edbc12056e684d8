package benchbot

import (
	"errors"
	"fmt"
	"net/http"
)

// Input and local I/O errors
var (
	// ErrMissingInput indicates a required input file is absent.
	ErrMissingInput = errors.New("missing input")

	// ErrInvalidInput indicates an input file holds malformed content.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIO indicates a local read or write failed.
	ErrIO = errors.New("i/o error")
)

// Remote errors
var (
	// ErrRemote matches every failure of a GitHub API call.
	ErrRemote = errors.New("remote API error")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates invalid or missing authentication.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden indicates the token lacks permission for the operation.
	ErrForbidden = errors.New("permission denied")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// InputError describes a failed validation of a local input file.
type InputError struct {
	// Kind is ErrMissingInput, ErrInvalidInput or ErrIO.
	Kind error

	// File is the base name of the offending file.
	File string

	// Value is the raw offending content, for ErrInvalidInput.
	Value string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message reported to the workflow run.
func (e *InputError) Error() string {
	switch e.Kind {
	case ErrMissingInput:
		return fmt.Sprintf("Required artifact file '%s' was not found in the workspace.", e.File)
	case ErrInvalidInput:
		return fmt.Sprintf("Invalid PR number in %s: \"%s\"", e.File, e.Value)
	default:
		if e.Err != nil {
			return fmt.Sprintf("Failed to read '%s': %v", e.File, e.Err)
		}
		return fmt.Sprintf("Failed to read '%s'", e.File)
	}
}

// Unwrap returns the underlying error.
func (e *InputError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the error kind.
func (e *InputError) Is(target error) bool {
	return target == e.Kind
}

// RemoteError represents a failed GitHub API call.
type RemoteError struct {
	// Op names the operation, e.g. "list artifacts".
	Op string

	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int

	// Err is the error returned by the client.
	Err error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the client error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is matches ErrRemote and the sentinel for the status code.
func (e *RemoteError) Is(target error) bool {
	if target == ErrRemote {
		return true
	}
	return target != nil && target == statusSentinel(e.StatusCode)
}

func statusSentinel(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}
