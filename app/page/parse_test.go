package page

import (
	"strings"
	"testing"
	"time"
)

func TestParseWatch(t *testing.T) {
	e := event{
		Type:  "WatchEvent",
		Actor: actor{Login: "alice"},
		Repo:  repo{Name: "bob/project"},
	}

	summary := parseWatch(e)
	if summary.Icon != "star" {
		t.Errorf("Expected star icon, got %s", summary.Icon)
	}
	body := string(summary.Body)
	if !strings.Contains(body, "starred") || !strings.Contains(body, "bob/project") {
		t.Errorf("Unexpected body: %s", body)
	}
	if !strings.Contains(body, `href="https://github.com/alice"`) {
		t.Errorf("Expected actor link in body: %s", body)
	}
}

func TestParsePullRequest(t *testing.T) {
	base := event{
		Type:  "PullRequestEvent",
		Actor: actor{Login: "alice"},
		Repo:  repo{Name: "bob/project"},
	}

	opened := base
	opened.Payload = payload{
		Action:      "opened",
		Number:      7,
		PullRequest: &pullRequest{HTMLURL: "https://github.com/bob/project/pull/7", Title: "Add thing"},
	}
	if summary := parsePullRequest(opened); summary == nil || !strings.Contains(string(summary.Body), "opened pull request") {
		t.Errorf("Expected opened PR summary, got %+v", summary)
	}

	// closed-and-merged reads as merged
	merged := base
	merged.Payload = payload{
		Action:      "closed",
		Number:      8,
		PullRequest: &pullRequest{HTMLURL: "u", Title: "t", Merged: true},
	}
	if summary := parsePullRequest(merged); summary == nil || !strings.Contains(string(summary.Body), "merged pull request") {
		t.Errorf("Expected merged PR summary, got %+v", summary)
	}

	// closed without merge is dropped
	closed := base
	closed.Payload = payload{
		Action:      "closed",
		PullRequest: &pullRequest{HTMLURL: "u", Title: "t"},
	}
	if summary := parsePullRequest(closed); summary != nil {
		t.Errorf("Expected closed-unmerged PR dropped, got %+v", summary)
	}
}

func TestParseCreate(t *testing.T) {
	e := event{
		Type:    "CreateEvent",
		Actor:   actor{Login: "alice"},
		Repo:    repo{Name: "alice/new"},
		Payload: payload{RefType: "repository"},
	}
	if summary := parseCreate(e); summary == nil || summary.Icon != "repo" {
		t.Errorf("Expected repo creation summary, got %+v", summary)
	}

	e.Payload = payload{RefType: "tag", Ref: "v1.0"}
	summary := parseCreate(e)
	if summary == nil || summary.Icon != "tag" || !strings.Contains(string(summary.Body), "v1.0") {
		t.Errorf("Expected tag summary, got %+v", summary)
	}

	// branches are noise
	e.Payload = payload{RefType: "branch", Ref: "feature"}
	if summary := parseCreate(e); summary != nil {
		t.Errorf("Expected branch creation dropped, got %+v", summary)
	}
}

func TestParsePush_TooltipUsesFirstCommitLines(t *testing.T) {
	e := pushEvent("alice/repo", time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		"fix bug\n\nlong explanation", "add feature")

	summary := parsePush(e)
	body := string(summary.Body)
	if !strings.Contains(body, "fix bug") || strings.Contains(body, "long explanation") {
		t.Errorf("Tooltip should carry only first lines: %s", body)
	}
	if !strings.Contains(body, "2 commits") {
		t.Errorf("Expected distinct commit count in body: %s", body)
	}
}

func TestGhLink_EscapesContent(t *testing.T) {
	link := ghLink(`x"><script>`)
	if strings.Contains(link, "<script>") {
		t.Errorf("Expected HTML escaping, got %s", link)
	}
}
