package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kbarbary/ghdash/app/cfg"
	"github.com/kbarbary/ghdash/app/database"
	"github.com/kbarbary/ghdash/app/github"
)

const maxRetryDelay = 30 * time.Second

// EventsClient fetches one page of a user's public event stream.
type EventsClient interface {
	UserEvents(ctx context.Context, login string, page int, etag string) (*github.EventsPage, error)
}

type Options struct {
	Policy     cfg.Policy
	MaxPages   int // safety bound against runaway pagination on a first poll
	MaxRetries int // per page, transient failures only
}

// Fetcher polls tracked users sequentially against the shared quota,
// dedups each page against the stored event ids and commits only what is
// new. Sequential on purpose: the budget is one process-wide resource and
// MayRequest/Record is check-then-act.
type Fetcher struct {
	client EventsClient
	users  database.UserRepository
	events database.EventRepository
	quota  *QuotaTracker
	opts   Options

	now   func() time.Time
	sleep func(time.Duration)
}

func NewFetcher(client EventsClient, users database.UserRepository,
	events database.EventRepository, quota *QuotaTracker, opts Options) *Fetcher {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 10
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	return &Fetcher{
		client: client,
		users:  users,
		events: events,
		quota:  quota,
		opts:   opts,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Run performs one polling pass over logins. Once the shared budget is
// exhausted every remaining user is deferred without a request.
func (f *Fetcher) Run(ctx context.Context, logins []string) *Summary {
	summary := &Summary{}

	for i, login := range logins {
		result := f.pollUser(ctx, login)
		result.Rate = f.quota.Snapshot()
		summary.Results = append(summary.Results, result)

		if result.Status == StatusDeferred {
			summary.Deferred = true
			summary.ResetIn = result.Wait
			for _, rest := range logins[i+1:] {
				summary.Results = append(summary.Results, Result{
					Login:  rest,
					Status: StatusDeferred,
					Wait:   result.Wait,
					Rate:   result.Rate,
				})
			}
			break
		}
	}

	return summary
}

func (f *Fetcher) pollUser(ctx context.Context, login string) Result {
	now := f.now()

	user, err := f.users.GetUser(login)
	if err != nil {
		return Result{Login: login, Status: StatusFailed, Err: err}
	}

	if user != nil && user.NextPollAt != nil && now.Before(*user.NextPollAt) {
		wait := user.NextPollAt.Sub(now)
		slog.Debug("User not due for polling", "user", login, "wait", wait.Round(time.Second))
		return Result{Login: login, Status: StatusThrottled, Wait: wait}
	}

	etag := ""
	if user != nil {
		etag = user.ETag
	}

	var staged []database.NewEvent
	stagedIDs := make(map[string]bool)
	var lastPage *github.EventsPage
	page := 1
	orderRetried := false

	for {
		if !f.quota.MayRequest() {
			return Result{Login: login, Status: StatusDeferred, Wait: f.quota.TimeUntilReset(f.now())}
		}

		pg, err := f.fetchPage(ctx, login, page, etag)
		if err != nil {
			return f.requestFailure(login, err)
		}
		f.quota.Record(pg.Rate)
		lastPage = pg

		if pg.NotModified {
			break
		}

		// The cutoff rule assumes each page is newest first. A violated
		// ordering gets one refetch, then fails the user rather than
		// risking silent gaps or duplicates.
		if err := pageOrderError(login, pg.Events); err != nil {
			if !orderRetried {
				orderRetried = true
				slog.Warn("Out-of-order page, refetching once", "user", login, "page", page)
				continue
			}
			return Result{Login: login, Status: StatusFailed, Err: err}
		}

		cutoff := false
		for _, event := range pg.Events {
			// a pagination shift mid-run can repeat an event on a later page
			if stagedIDs[event.ID] {
				continue
			}
			known, err := f.events.HasEvent(login, event.ID)
			if err != nil {
				return Result{Login: login, Status: StatusFailed, Err: err}
			}
			if known {
				cutoff = true
				break
			}
			stagedIDs[event.ID] = true
			staged = append(staged, database.NewEvent{
				EventID:   event.ID,
				Type:      event.Type,
				CreatedAt: event.CreatedAt,
				Payload:   string(event.Raw),
			})
		}

		if cutoff || !pg.HasNext || page >= f.opts.MaxPages {
			break
		}
		page = pg.NextPage
	}

	// Commit: events first, then poll state. An interruption in between
	// re-runs cleanly because the next poll dedups against the store.
	if err := f.events.InsertEvents(login, staged); err != nil {
		return Result{Login: login, Status: StatusFailed, Err: err}
	}

	interval := NextInterval(f.opts.Policy, lastPage.PollInterval, f.quota.Snapshot())

	newETag := lastPage.ETag
	if lastPage.NotModified {
		newETag = etag
	}

	now = f.now()
	if err := f.users.UpdatePollState(login, newETag, now, now.Add(interval)); err != nil {
		return Result{Login: login, Status: StatusFailed, Err: err}
	}

	status := StatusCommitted
	if lastPage.NotModified {
		status = StatusUpToDate
	}

	return Result{Login: login, Status: status, NewEvents: len(staged), Wait: interval}
}

// fetchPage retries transient failures with capped exponential backoff.
// Malformed responses get exactly one retry; quota and auth errors none.
func (f *Fetcher) fetchPage(ctx context.Context, login string, page int, etag string) (*github.EventsPage, error) {
	var lastErr error

	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<uint(attempt-1)) * time.Second
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
			slog.Warn("Retrying page fetch", "user", login, "page", page, "attempt", attempt, "delay", delay)
			f.sleep(delay)
		}

		pg, err := f.client.UserEvents(ctx, login, page, etag)
		if err == nil {
			return pg, nil
		}
		lastErr = err

		if !retryable(err, attempt) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (f *Fetcher) requestFailure(login string, err error) Result {
	var quotaErr *github.QuotaError
	if errors.As(err, &quotaErr) {
		f.quota.Record(quotaErr.Rate)
		return Result{Login: login, Status: StatusDeferred, Wait: f.quota.TimeUntilReset(f.now())}
	}

	return Result{Login: login, Status: StatusFailed, Err: err}
}

func retryable(err error, attempt int) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var quotaErr *github.QuotaError
	var authErr *github.AuthError
	if errors.As(err, &quotaErr) || errors.As(err, &authErr) {
		return false
	}

	var malformedErr *github.MalformedError
	if errors.As(err, &malformedErr) {
		return attempt == 0
	}

	var statusErr *github.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}

	// transport-level failures (timeouts, connection resets)
	return true
}

// pageOrderError checks that timestamps within a page never increase.
func pageOrderError(login string, events []github.Event) error {
	for i := 1; i < len(events); i++ {
		if events[i].CreatedAt.After(events[i-1].CreatedAt) {
			return &github.MalformedError{
				Login:  login,
				Detail: fmt.Sprintf("event %s is newer than its predecessor %s", events[i].ID, events[i-1].ID),
			}
		}
	}
	return nil
}
