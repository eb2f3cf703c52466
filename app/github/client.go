// Package github is a minimal client for the public user events feed,
// including the conditional-request and rate-limit plumbing the fetch
// engine depends on.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.github.com"

// CredentialSource supplies an optional API token. Absence means requests
// run unauthenticated against the lower rate limit.
type CredentialSource interface {
	Token() (string, bool)
}

// StaticCredentials is a CredentialSource backed by a fixed token string;
// the empty string means no credentials.
type StaticCredentials string

func (s StaticCredentials) Token() (string, bool) {
	return string(s), s != ""
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource
	userAgent  string
}

func NewClient(baseURL string, creds CredentialSource, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		userAgent:  userAgent,
	}
}

// UserEvents fetches one page of a user's public event stream. An etag is
// only sent for the first page; a matching etag yields a page with
// NotModified set and no events. Responses always refresh Rate from the
// rate-limit headers when present.
func (c *Client) UserEvents(ctx context.Context, login string, page int, etag string) (*EventsPage, error) {
	url := fmt.Sprintf("%s/users/%s/events/public", c.baseURL, login)
	if page > 1 {
		url = fmt.Sprintf("%s?page=%d", url, page)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if etag != "" && page <= 1 {
		req.Header.Set("If-None-Match", etag)
	}
	if token, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer resp.Body.Close()

	rate := parseRateLimit(resp.Header)

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return &EventsPage{
			NotModified:  true,
			PollInterval: parsePollInterval(resp.Header),
			Rate:         rate,
		}, nil

	case resp.StatusCode == http.StatusOK:
		// fall through to body parsing below

	case (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests) &&
		rate.Known && rate.Remaining == 0:
		return nil, &QuotaError{Rate: rate}

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{StatusCode: resp.StatusCode, Login: login}

	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	events, err := parseEvents(login, body)
	if err != nil {
		return nil, err
	}

	nextPage := page + 1
	if nextPage < 2 {
		nextPage = 2
	}

	return &EventsPage{
		Events:       events,
		ETag:         resp.Header.Get("ETag"),
		PollInterval: parsePollInterval(resp.Header),
		HasNext:      hasNextLink(resp.Header.Get("Link")),
		NextPage:     nextPage,
		Rate:         rate,
	}, nil
}

func parseEvents(login string, body []byte) ([]Event, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, &MalformedError{Login: login, Detail: "response is not a JSON array", Err: err}
	}

	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		var re rawEvent
		if err := json.Unmarshal(raw, &re); err != nil {
			return nil, &MalformedError{Login: login, Detail: "undecodable event object", Err: err}
		}
		if re.ID == "" || re.Type == "" {
			return nil, &MalformedError{Login: login, Detail: "event missing id or type"}
		}
		createdAt, err := time.Parse(time.RFC3339, re.CreatedAt)
		if err != nil {
			return nil, &MalformedError{Login: login, Detail: "unparsable created_at", Err: err}
		}

		events = append(events, Event{
			ID:        re.ID,
			Type:      re.Type,
			CreatedAt: createdAt,
			Raw:       raw,
		})
	}

	return events, nil
}

func parseRateLimit(h http.Header) RateLimit {
	remaining, err1 := strconv.Atoi(h.Get("X-RateLimit-Remaining"))
	limit, err2 := strconv.Atoi(h.Get("X-RateLimit-Limit"))
	if err1 != nil || err2 != nil {
		return RateLimit{}
	}

	rate := RateLimit{Known: true, Remaining: remaining, Limit: limit}
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		rate.ResetAt = time.Unix(reset, 0).UTC()
	}
	return rate
}

func parsePollInterval(h http.Header) time.Duration {
	seconds, err := strconv.Atoi(h.Get("X-Poll-Interval"))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// hasNextLink reports whether a Link header advertises another page.
func hasNextLink(link string) bool {
	for _, part := range strings.Split(link, ",") {
		if strings.Contains(part, `rel="next"`) {
			return true
		}
	}
	return false
}
