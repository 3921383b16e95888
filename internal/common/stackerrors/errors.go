// Package stackerrors contains the error types returned by stackcheck validators and live checks.
//
// Report writers look for the types defined in this file to classify a failure (see KindFromError).
// Errors are usually wrapped with github.com/pkg/errors; classification walks the chain with errors.As.
// Where several independent checks fail, the caller returns a *multierror.Error from
// github.com/hashicorp/go-multierror that encapsulates the individual errors.
package stackerrors

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrMissingArtifact indicates that a file the staging repository must contain does not exist.
type ErrMissingArtifact struct {
	// Path of the artifact, relative to the repository root.
	Path string
	// Optional message included with the error message
	Message string
}

func (err *ErrMissingArtifact) Error() string {
	s := fmt.Sprintf("%s not found", err.Path)
	if err.Message != "" {
		s += fmt.Sprintf("; %s", err.Message)
	}
	return s
}

// ErrMissingKey indicates that an artifact exists but lacks a required key, target or marker.
// Artifact is the file the key was looked up in; Key names what was expected.
type ErrMissingKey struct {
	Artifact string
	Key      string
	Message  string
}

func (err *ErrMissingKey) Error() string {
	s := fmt.Sprintf("%s missing %q", err.Artifact, err.Key)
	if err.Message != "" {
		s += fmt.Sprintf("; %s", err.Message)
	}
	return s
}

// ErrInvalidArgument is a generic error to be returned on invalid argument.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the field referred to, e.g., "VERSION"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message to include with the error message, e.g., explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %q is invalid for field %q", err.Value, err.Name)
	}
	return fmt.Sprintf("value %q is invalid for field %q; %s", err.Value, err.Name, err.Message)
}

// ErrUnexpectedStatus indicates that a service answered with a status code outside the accepted set.
type ErrUnexpectedStatus struct {
	Method string
	Url    string
	Got    int
	Want   []int
	// Response body, possibly truncated.
	Body string
}

func (err *ErrUnexpectedStatus) Error() string {
	want := make([]string, len(err.Want))
	for i, code := range err.Want {
		want[i] = fmt.Sprint(code)
	}
	s := fmt.Sprintf("%s %s returned %d, expected one of [%s]", err.Method, err.Url, err.Got, strings.Join(want, " "))
	if err.Body != "" {
		s += fmt.Sprintf("; body: %s", err.Body)
	}
	return s
}

// ErrUnexpectedBody indicates that a response parsed but did not have the expected shape.
type ErrUnexpectedBody struct {
	Url     string
	Message string
}

func (err *ErrUnexpectedBody) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", err.Url, err.Message)
}

// ErrJobFailed is returned when a polled benchmark job reaches a failure status.
type ErrJobFailed struct {
	JobId  string
	Status string
	// Raw status response.
	Body string
}

func (err *ErrJobFailed) Error() string {
	return fmt.Sprintf("job %s failed with status %q: %s", err.JobId, err.Status, err.Body)
}

// ErrTimeout is returned when an operation did not reach a terminal state within its deadline.
type ErrTimeout struct {
	Operation string
	After     time.Duration
}

func (err *ErrTimeout) Error() string {
	return fmt.Sprintf("timeout waiting for %s after %s", err.Operation, err.After)
}

// ErrSkipped signals that a check decided not to run, e.g. because the stack is down
// or the service requires authentication. It is not a failure.
type ErrSkipped struct {
	Reason string
}

func (err *ErrSkipped) Error() string {
	return fmt.Sprintf("skipped: %s", err.Reason)
}

// Skip returns an *ErrSkipped carrying the formatted reason.
func Skip(format string, args ...interface{}) error {
	return &ErrSkipped{Reason: fmt.Sprintf(format, args...)}
}

// IsSkipped reports whether err or any error in its chain is an *ErrSkipped.
func IsSkipped(err error) bool {
	var e *ErrSkipped
	return errors.As(err, &e)
}

// Kind classifies an error for reporting.
type Kind string

const (
	KindNone             Kind = ""
	KindMissingArtifact  Kind = "MissingArtifact"
	KindMissingKey       Kind = "MissingKey"
	KindInvalidArgument  Kind = "InvalidArgument"
	KindUnexpectedStatus Kind = "UnexpectedStatus"
	KindUnexpectedBody   Kind = "UnexpectedBody"
	KindJobFailed        Kind = "JobFailed"
	KindTimeout          Kind = "Timeout"
	KindSkipped          Kind = "Skipped"
	KindUnknown          Kind = "Unknown"
)

// KindFromError maps error types to a Kind.
// Uses errors.As to look through the chain of errors, as opposed to just considering the topmost error in the chain.
func KindFromError(err error) Kind {
	if err == nil {
		return KindNone
	}

	// Using {} scopes just to re-use the "e" variable name for each case.
	{
		var e *ErrSkipped
		if errors.As(err, &e) {
			return KindSkipped
		}
	}
	{
		var e *ErrMissingArtifact
		if errors.As(err, &e) {
			return KindMissingArtifact
		}
	}
	{
		var e *ErrMissingKey
		if errors.As(err, &e) {
			return KindMissingKey
		}
	}
	{
		var e *ErrInvalidArgument
		if errors.As(err, &e) {
			return KindInvalidArgument
		}
	}
	{
		var e *ErrUnexpectedStatus
		if errors.As(err, &e) {
			return KindUnexpectedStatus
		}
	}
	{
		var e *ErrUnexpectedBody
		if errors.As(err, &e) {
			return KindUnexpectedBody
		}
	}
	{
		var e *ErrJobFailed
		if errors.As(err, &e) {
			return KindJobFailed
		}
	}
	{
		var e *ErrTimeout
		if errors.As(err, &e) {
			return KindTimeout
		}
	}
	return KindUnknown
}
