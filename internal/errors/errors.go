package errors

import "errors"

// Custom error types for the link shortener.
//
// Creation errors are all recoverable: the caller keeps its input, nothing is
// persisted, and the reason can be shown to the user as-is. Resolution errors
// (not found, expired) are terminal outcomes of a visit, not faults.

// ErrEmptyURL is returned when the original URL is blank after trimming.
var ErrEmptyURL = errors.New("original URL is empty")

// ErrInvalidURL is returned when the provided URL is invalid
var ErrInvalidURL = errors.New("invalid URL format")

// ErrInvalidAlias is returned when a custom alias breaks the code format rule
// (3-30 characters from A-Z, a-z, 0-9, '_' and '-').
var ErrInvalidAlias = errors.New("invalid alias format")

// ErrAliasTaken is returned when a custom alias collides with a stored code.
// Expired links count: a code stays taken until housekeeping prunes it.
var ErrAliasTaken = errors.New("alias already in use")

// ErrShortCodeGenerationFailed is returned when we can't generate a unique short code
var ErrShortCodeGenerationFailed = errors.New("failed to generate unique short code")

// ErrShortCodeNotFound is returned when a short code doesn't exist in the store
var ErrShortCodeNotFound = errors.New("short code not found")

// ErrLinkExpired is returned when a resolved link is past its expiry instant.
var ErrLinkExpired = errors.New("link has expired")
