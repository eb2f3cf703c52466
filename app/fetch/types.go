package fetch

import (
	"time"

	"github.com/kbarbary/ghdash/app/github"
)

// Status is the terminal state a user reaches within one run.
type Status string

const (
	// StatusCommitted: new events were staged and appended to the store.
	StatusCommitted Status = "committed"
	// StatusUpToDate: a conditional request confirmed nothing changed.
	StatusUpToDate Status = "up-to-date"
	// StatusThrottled: the per-user minimum interval has not elapsed; no
	// network request was made.
	StatusThrottled Status = "throttled"
	// StatusDeferred: the shared request budget ran out; this and every
	// remaining user stop for the rest of the run.
	StatusDeferred Status = "deferred"
	// StatusFailed: a non-retryable error, or retries were exhausted.
	// Poll state is left untouched so the next run resumes safely.
	StatusFailed Status = "failed"
)

// Result is the outcome for one user.
type Result struct {
	Login     string
	Status    Status
	NewEvents int
	Wait      time.Duration    // until next eligibility or quota reset
	Rate      github.RateLimit // budget as observed when this user was processed
	Err       error
}

// Summary aggregates a whole run.
type Summary struct {
	Results  []Result
	Deferred bool
	ResetIn  time.Duration
}

// Failed reports whether any user ended the run in error. Throttling and
// quota deferral are scheduling outcomes, not failures.
func (s *Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			return true
		}
	}
	return false
}

// NewEvents is the total committed across all users this run.
func (s *Summary) NewEvents() int {
	total := 0
	for _, r := range s.Results {
		total += r.NewEvents
	}
	return total
}
