package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbarbary/ghdash/app/cfg"
	"github.com/kbarbary/ghdash/app/database"
	"github.com/kbarbary/ghdash/app/fetch"
	"github.com/kbarbary/ghdash/app/github"
	"github.com/kbarbary/ghdash/app/page"
)

// stubUserRepo never persists poll state, so every request polls.
type stubUserRepo struct{}

func (s *stubUserRepo) GetUser(login string) (*database.User, error) { return nil, nil }
func (s *stubUserRepo) GetUserCount() (int, error)                   { return 0, nil }
func (s *stubUserRepo) UpdatePollState(login string, etag string, lastPolledAt, nextPollAt time.Time) error {
	return nil
}

type stubEventRepo struct{}

func (s *stubEventRepo) HasEvent(login, eventID string) (bool, error)                { return false, nil }
func (s *stubEventRepo) InsertEvents(login string, events []database.NewEvent) error { return nil }
func (s *stubEventRepo) GetEvents(login string) ([]database.Event, error)            { return nil, nil }
func (s *stubEventRepo) GetAllEvents() ([]database.Event, error)                     { return nil, nil }
func (s *stubEventRepo) GetEventCount(login string) (int, error)                     { return 0, nil }
func (s *stubEventRepo) GetTotalEventCount() (int, error)                            { return 0, nil }

// slowClient answers every request after a short pause and records whether
// it ever saw two requests in flight at once.
type slowClient struct {
	inFlight int32
	overlap  int32
}

func (c *slowClient) UserEvents(ctx context.Context, login string, page int, etag string) (*github.EventsPage, error) {
	if atomic.AddInt32(&c.inFlight, 1) > 1 {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(&c.inFlight, -1)

	return &github.EventsPage{
		ETag: `W/"fresh"`,
		Rate: github.RateLimit{Known: true, Remaining: 50, Limit: 60, ResetAt: time.Now().Add(time.Hour)},
	}, nil
}

func TestGetDashboard_ConcurrentRequestsPollSequentially(t *testing.T) {
	builder, err := page.NewBuilder()
	if err != nil {
		t.Fatalf("Failed to create builder: %v", err)
	}

	client := &slowClient{}
	quota := fetch.NewQuotaTracker()
	fetcher := fetch.NewFetcher(client, &stubUserRepo{}, &stubEventRepo{}, quota, fetch.Options{
		Policy: cfg.Policy{MinInterval: time.Minute, MaxInterval: 30 * time.Minute},
	})

	handler := NewHandler(fetcher, quota, &stubUserRepo{}, &stubEventRepo{}, builder, []string{"alice", "bob"})
	engine := NewServer(handler)

	var wg sync.WaitGroup
	codes := make([]int, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	if atomic.LoadInt32(&client.overlap) != 0 {
		t.Error("Simultaneous page loads must not run polling passes in parallel")
	}
	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("Request %d returned %d", i, code)
		}
	}
}
