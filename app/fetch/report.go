package fetch

import (
	"fmt"
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	message.Set(language.English, "%d new events",
		plural.Selectf(1, "",
			plural.One, "%d new event",
			plural.Other, "%d new events"))
}

var printer = message.NewPrinter(language.English)

// Describe renders the per-user diagnostic line: outcome, new-event count
// and the remaining/limit budget observed when the user was processed.
func (r Result) Describe() string {
	var msg string

	switch r.Status {
	case StatusCommitted:
		msg = fmt.Sprintf("%s: %s", r.Login, printer.Sprintf("%d new events", r.NewEvents))
	case StatusUpToDate:
		msg = fmt.Sprintf("%s: up-to-date", r.Login)
	case StatusThrottled:
		msg = fmt.Sprintf("%s: polled recently, next poll allowed in %s", r.Login, r.Wait.Round(time.Second))
	case StatusDeferred:
		msg = fmt.Sprintf("%s: deferred, quota resets in %s", r.Login, r.Wait.Round(time.Second))
	case StatusFailed:
		msg = fmt.Sprintf("%s: failed: %v", r.Login, r.Err)
	default:
		msg = fmt.Sprintf("%s: %s", r.Login, r.Status)
	}

	if r.Rate.Known {
		msg = fmt.Sprintf("%-40s [%4d/%4d]", msg, r.Rate.Remaining, r.Rate.Limit)
	}

	return msg
}
