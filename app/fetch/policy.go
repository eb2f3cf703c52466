package fetch

import (
	"time"

	"github.com/kbarbary/ghdash/app/cfg"
	"github.com/kbarbary/ghdash/app/github"
)

// NextInterval computes how long a user stays ineligible after a poll.
// The server's X-Poll-Interval hint (when present) raises the floor, and
// the interval widens linearly towards the configured maximum as the
// shared budget is consumed, so aggregate polling pressure across all
// tracked users self-regulates against the one quota they share.
func NextInterval(policy cfg.Policy, serverHint time.Duration, rate github.RateLimit) time.Duration {
	base := policy.MinInterval
	if serverHint > base {
		base = serverHint
	}
	if base >= policy.MaxInterval {
		return policy.MaxInterval
	}

	if !rate.Known || rate.Limit <= 0 {
		return base
	}

	used := 1 - float64(rate.Remaining)/float64(rate.Limit)
	if used < 0 {
		used = 0
	}

	return base + time.Duration(used*float64(policy.MaxInterval-base))
}
