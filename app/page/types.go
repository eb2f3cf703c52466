package page

import (
	"html/template"
	"time"
)

// event is a decoded stored payload, reduced to the fields the page needs.
type event struct {
	Type      string    `json:"type"`
	Actor     actor     `json:"actor"`
	Repo      repo      `json:"repo"`
	Payload   payload   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`

	// aggregated pushes span a time range instead of a single instant
	begin time.Time
	end   time.Time
}

type actor struct {
	Login string `json:"login"`
}

type repo struct {
	Name string `json:"name"`
}

type payload struct {
	Action       string       `json:"action"`
	Number       int          `json:"number"`
	RefType      string       `json:"ref_type"`
	Ref          string       `json:"ref"`
	DistinctSize int          `json:"distinct_size"`
	Commits      []commit     `json:"commits"`
	PullRequest  *pullRequest `json:"pull_request"`
	Release      *release     `json:"release"`
}

type commit struct {
	Message string `json:"message"`
}

type pullRequest struct {
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
	Merged  bool   `json:"merged"`
}

type release struct {
	TagName string `json:"tag_name"`
}

// aggPushType marks a synthetic event combining nearby pushes to one repo.
const aggPushType = "AggPushEvent"

// Summary is one rendered line of the page.
type Summary struct {
	Icon    string
	Body    template.HTML
	Time    time.Time
	TimeAgo string
}
