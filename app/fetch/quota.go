package fetch

import (
	"time"

	"github.com/kbarbary/ghdash/app/github"
)

// QuotaTracker is the single source of truth for whether another request
// may be issued. It is pure bookkeeping over the most recently observed
// rate-limit headers and never blocks; callers decide whether to wait or
// skip. One run mutates it from a single goroutine only.
type QuotaTracker struct {
	rate github.RateLimit
}

func NewQuotaTracker() *QuotaTracker {
	return &QuotaTracker{}
}

// Record overwrites the tracked budget with a fresh snapshot. Responses
// that carried no rate-limit headers leave the last snapshot in place.
func (q *QuotaTracker) Record(rate github.RateLimit) {
	if !rate.Known {
		return
	}
	q.rate = rate
}

// MayRequest reports whether the budget allows another request. Before the
// first response the budget is unknown and the answer is optimistic.
func (q *QuotaTracker) MayRequest() bool {
	return !q.rate.Known || q.rate.Remaining > 0
}

// TimeUntilReset returns how long until the advertised budget reset, or
// zero when the reset time is unknown or already past.
func (q *QuotaTracker) TimeUntilReset(now time.Time) time.Duration {
	if !q.rate.Known || q.rate.ResetAt.IsZero() {
		return 0
	}
	d := q.rate.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Snapshot returns the last observed budget.
func (q *QuotaTracker) Snapshot() github.RateLimit {
	return q.rate
}
