package page

import (
	"sort"
	"strings"
	"time"
)

// pushAggWindow is the largest gap between two pushes to the same repo
// that still lands them in one aggregated entry.
const pushAggWindow = 24 * time.Hour

// isMergeEvent reports whether a push's last commit is a pull request
// merge; those are dropped since the PR event already covers them.
func isMergeEvent(e event) bool {
	if e.Type != "PushEvent" || len(e.Payload.Commits) == 0 {
		return false
	}
	last := e.Payload.Commits[len(e.Payload.Commits)-1].Message
	return strings.HasPrefix(strings.ToLower(last), "merge pull request")
}

func filterMerges(events []event) []event {
	kept := make([]event, 0, len(events))
	for _, e := range events {
		if !isMergeEvent(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

// combinePushes folds a streak of pushes (newest first) into a single
// synthetic aggregate event spanning their time range.
func combinePushes(events []event) event {
	if len(events) == 1 {
		return events[0]
	}

	var commits []commit
	distinctSize := 0
	for _, e := range events {
		commits = append(commits, e.Payload.Commits...)
		distinctSize += e.Payload.DistinctSize
	}

	agg := events[0]
	agg.Type = aggPushType
	agg.Payload.Commits = commits
	agg.Payload.DistinctSize = distinctSize
	agg.begin = events[0].CreatedAt // most recent
	agg.end = events[len(events)-1].CreatedAt

	return agg
}

// aggregatePushes combines pushes to the same repo that happened within
// pushAggWindow of each other. Input order does not matter; the result is
// unsorted and gets sorted by the caller.
func aggregatePushes(events []event) []event {
	sorted := make([]event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	byRepo := make(map[string][]event)
	var repoOrder []string
	for _, e := range sorted {
		name := e.Repo.Name
		if _, seen := byRepo[name]; !seen {
			repoOrder = append(repoOrder, name)
		}
		byRepo[name] = append(byRepo[name], e)
	}

	var result []event
	for _, name := range repoOrder {
		var streak []event
		var streakStart time.Time

		for _, e := range byRepo[name] {
			if e.Type != "PushEvent" {
				result = append(result, e)
				continue
			}

			if streak == nil {
				streak = []event{e}
				streakStart = e.CreatedAt
			} else if streakStart.Sub(e.CreatedAt) < pushAggWindow {
				streak = append(streak, e)
			} else {
				result = append(result, combinePushes(streak))
				streak = []event{e}
				streakStart = e.CreatedAt
			}
		}

		if streak != nil {
			result = append(result, combinePushes(streak))
		}
	}

	return result
}
