package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbarbary/ghdash/app/database"
	"github.com/kbarbary/ghdash/app/fetch"
	"github.com/kbarbary/ghdash/app/page"
)

type Handler struct {
	fetcher *fetch.Fetcher
	quota   *fetch.QuotaTracker
	users   database.UserRepository
	events  database.EventRepository
	builder *page.Builder
	logins  []string

	// gin handles requests on concurrent goroutines, but the fetcher and
	// quota tracker assume one polling pass at a time
	fetchMu sync.Mutex
}

func NewHandler(fetcher *fetch.Fetcher, quota *fetch.QuotaTracker,
	users database.UserRepository, events database.EventRepository,
	builder *page.Builder, logins []string) *Handler {
	return &Handler{
		fetcher: fetcher,
		quota:   quota,
		users:   users,
		events:  events,
		builder: builder,
		logins:  logins,
	}
}

// GetDashboard runs a polling pass and renders the page, mirroring how
// the dashboard has always been served. Throttling keeps repeated page
// loads from hammering the API.
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	h.fetchMu.Lock()
	summary := h.fetcher.Run(ctx, h.logins)
	h.fetchMu.Unlock()

	for _, result := range summary.Results {
		slog.Info(result.Describe())
	}

	stored, err := h.events.GetAllEvents()
	if err != nil {
		slog.Error("Database error", "operation", "get_all_events", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	html, err := h.builder.Run(stored)
	if err != nil {
		slog.Error("Page rendering error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, html)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if userCount, err := h.users.GetUserCount(); err == nil {
		health["users"] = userCount
	}
	health["tracked_logins"] = len(h.logins)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := gin.H{}

	rate := h.quota.Snapshot()
	if rate.Known {
		stats["quota"] = gin.H{
			"remaining": rate.Remaining,
			"limit":     rate.Limit,
			"reset_at":  rate.ResetAt.Format(time.RFC3339),
		}
	}

	if total, err := h.events.GetTotalEventCount(); err == nil {
		stats["total_events"] = total
	}

	perUser := gin.H{}
	for _, login := range h.logins {
		if count, err := h.events.GetEventCount(login); err == nil {
			perUser[login] = count
		}
	}
	stats["events_by_user"] = perUser

	c.JSON(http.StatusOK, stats)
}
