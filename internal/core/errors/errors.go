// Package errors provides centralized error definitions for the application.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Lookup errors.
var (
	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")

	// ErrCacheNotFound indicates a cached query result was not found.
	ErrCacheNotFound = errors.New("cache entry not found")
)

// Run coordination errors.
var (
	// ErrRunInProgress indicates another process holds the lock for the same run.
	ErrRunInProgress = errors.New("run already in progress")

	// ErrNoThemes indicates there are no scored themes for the run date.
	ErrNoThemes = errors.New("no themes for run date")
)

// Client and connection errors.
var (
	// ErrClientDisabled indicates a client or feature is disabled by configuration.
	ErrClientDisabled = errors.New("client disabled")

	// ErrMissingAPIKey indicates a required credential is not configured.
	ErrMissingAPIKey = errors.New("missing api key")

	// ErrHTTPStatus indicates a remote API answered with a non-success status.
	ErrHTTPStatus = errors.New("unexpected http status")
)

// Response and parsing errors.
var (
	// ErrEmptyResponse indicates an empty response was received.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoJSONObject indicates a text response contained no JSON object.
	ErrNoJSONObject = errors.New("no json object in response")
)

// Validation errors.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownMode indicates an unsupported application mode.
	ErrUnknownMode = errors.New("unknown mode")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
