package page

import (
	"fmt"
	"html"
	"html/template"
	"strings"
)

// Each event type has its own summarizer returning an icon name and an
// HTML body, or nil when the event is not worth showing. Unlisted types
// are skipped entirely.
var summarizers = map[string]func(event) *Summary{
	"WatchEvent":       parseWatch,       // stars a repo
	"PullRequestEvent": parsePullRequest, // anything to do with a PR
	"CreateEvent":      parseCreate,      // creates a repo, branch or tag
	"ForkEvent":        parseFork,
	"PublicEvent":      parsePublic, // open-sources a repo
	"ReleaseEvent":     parseRelease,
	"PushEvent":        parsePush,
	aggPushType:        parsePush,
}

// ghLink returns an anchor tag linking s to its page on github.
func ghLink(s string) string {
	escaped := html.EscapeString(s)
	return fmt.Sprintf(`<a href="https://github.com/%s">%s</a>`, escaped, escaped)
}

func simpleBody(e event, action string) template.HTML {
	return template.HTML(fmt.Sprintf("%s %s %s", ghLink(e.Actor.Login), action, ghLink(e.Repo.Name)))
}

func parseWatch(e event) *Summary {
	return &Summary{Icon: "star", Body: simpleBody(e, "starred")}
}

func parseFork(e event) *Summary {
	return &Summary{Icon: "repo-forked", Body: simpleBody(e, "forked")}
}

func parsePublic(e event) *Summary {
	return &Summary{Icon: "heart", Body: simpleBody(e, "open-sourced")}
}

// parsePullRequest only keeps newly opened and merged pull requests.
func parsePullRequest(e event) *Summary {
	pr := e.Payload.PullRequest
	if pr == nil {
		return nil
	}

	action := e.Payload.Action
	if action == "closed" && pr.Merged {
		action = "merged"
	}
	if action != "opened" && action != "merged" {
		return nil
	}

	body := fmt.Sprintf(`%s %s pull request <a href="%s" title="%s">#%d</a> on %s`,
		ghLink(e.Actor.Login), action, html.EscapeString(pr.HTMLURL),
		html.EscapeString(pr.Title), e.Payload.Number, ghLink(e.Repo.Name))

	return &Summary{Icon: "git-pull-request", Body: template.HTML(body)}
}

// parseCreate keeps new repositories and tags, but not branches.
func parseCreate(e event) *Summary {
	switch e.Payload.RefType {
	case "repository":
		body := fmt.Sprintf("%s created %s", ghLink(e.Actor.Login), ghLink(e.Repo.Name))
		return &Summary{Icon: "repo", Body: template.HTML(body)}
	case "tag":
		body := fmt.Sprintf("%s tagged %s on %s",
			ghLink(e.Actor.Login), html.EscapeString(e.Payload.Ref), ghLink(e.Repo.Name))
		return &Summary{Icon: "tag", Body: template.HTML(body)}
	default:
		return nil
	}
}

func parseRelease(e event) *Summary {
	if e.Payload.Release == nil {
		return nil
	}

	body := fmt.Sprintf("%s released %s of %s",
		ghLink(e.Actor.Login), html.EscapeString(e.Payload.Release.TagName), ghLink(e.Repo.Name))

	return &Summary{Icon: "package", Body: template.HTML(body)}
}

func parsePush(e event) *Summary {
	// first line of every commit message, shown as a tooltip
	lines := make([]string, 0, len(e.Payload.Commits))
	for _, c := range e.Payload.Commits {
		lines = append(lines, strings.SplitN(c.Message, "\n", 2)[0])
	}
	msg := strings.Join(lines, "\n")

	body := fmt.Sprintf(`%s pushed <a title="%s">%d commits</a> to %s`,
		ghLink(e.Actor.Login), html.EscapeString(msg), e.Payload.DistinctSize, ghLink(e.Repo.Name))

	return &Summary{Icon: "git-commit", Body: template.HTML(body)}
}
