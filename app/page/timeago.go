package page

import (
	"fmt"
	"time"
)

// fmtTimeAgo renders an elapsed duration the way the page shows it.
func fmtTimeAgo(d time.Duration) string {
	days := int(d.Hours()) / 24
	seconds := int(d.Seconds())

	switch {
	case days > 1:
		return fmt.Sprintf("%d days ago", days)
	case days == 1:
		return "1 day ago"
	case seconds > 7200:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	case seconds > 3600:
		return "1 hour ago"
	case seconds > 120:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds > 60:
		return "1 minute ago"
	default:
		return "just now"
	}
}

// timeAgo describes how long ago an event happened relative to now.
// Aggregated pushes cover a range and may render as "X ago – Y ago".
func timeAgo(e event, now time.Time) string {
	if e.Type == aggPushType {
		s1 := fmtTimeAgo(now.Sub(e.begin))
		s2 := fmtTimeAgo(now.Sub(e.end))
		if s1 == s2 {
			return s1
		}
		// a literal en dash; an HTML entity here would get escaped by
		// the template and show up as text
		return s1 + " – " + s2
	}
	return fmtTimeAgo(now.Sub(e.CreatedAt))
}
