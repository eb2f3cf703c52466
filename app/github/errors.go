package github

import "fmt"

// StatusError is an unexpected HTTP status from the API. 5xx statuses are
// transient and safe to retry; anything else is not.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Transient() bool {
	return e.StatusCode >= 500
}

// AuthError is a non-retryable 401/403 authentication or authorization
// failure.
type AuthError struct {
	StatusCode int
	Login      string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s with status %d", e.Login, e.StatusCode)
}

// QuotaError reports a request refused because the shared request budget
// is exhausted. It is a scheduling signal rather than a failure; Rate
// carries the headers so the caller can record the zero budget.
type QuotaError struct {
	Rate RateLimit
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("rate limit exhausted, resets at %s", e.Rate.ResetAt.Format("15:04:05"))
}

// MalformedError is a response whose payload did not match the expected
// shape (undecodable JSON, missing event fields, unparsable timestamps).
type MalformedError struct {
	Login  string
	Detail string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response for %s: %s: %v", e.Login, e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed response for %s: %s", e.Login, e.Detail)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
