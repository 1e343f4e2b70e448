package interview

import "errors"

// Stable error kinds for the session orchestrator. Handlers map these
// onto HTTP responses; the kinds themselves are transport-agnostic.
var (
	// ErrNotFound covers both absence and foreign ownership.
	ErrNotFound = errors.New("interview not found")

	// ErrInvalidState rejects mutations against a non-active interview.
	ErrInvalidState = errors.New("this interview has already ended")

	// ErrInvalidInput rejects missing or empty required fields.
	ErrInvalidInput = errors.New("missing required field")

	// ErrLimitReached rejects further answers once the interviewer-turn
	// threshold is hit, even before the End transition is recorded.
	ErrLimitReached = errors.New("interview question limit reached")

	// ErrFeedbackNotReady signals that the feedback pipeline has not
	// linked a record yet. An explicit not-ready result, not a failure.
	ErrFeedbackNotReady = errors.New("feedback not available yet")
)
