package fetch

import (
	"testing"
	"time"

	"github.com/kbarbary/ghdash/app/github"
)

func TestQuotaTracker_OptimisticWhenUnknown(t *testing.T) {
	quota := NewQuotaTracker()

	if !quota.MayRequest() {
		t.Error("Expected requests allowed before any budget is observed")
	}
	if quota.TimeUntilReset(time.Now()) != 0 {
		t.Error("Expected zero reset wait before any budget is observed")
	}
}

func TestQuotaTracker_RecordOverwrites(t *testing.T) {
	quota := NewQuotaTracker()

	quota.Record(github.RateLimit{Known: true, Remaining: 10, Limit: 60})
	if !quota.MayRequest() {
		t.Error("Expected requests allowed with remaining budget")
	}

	quota.Record(github.RateLimit{Known: true, Remaining: 0, Limit: 60})
	if quota.MayRequest() {
		t.Error("Expected requests denied with exhausted budget")
	}

	// headerless responses must not reset the tracker to unknown
	quota.Record(github.RateLimit{})
	if quota.MayRequest() {
		t.Error("Expected unknown snapshot to be ignored")
	}
}

func TestQuotaTracker_TimeUntilReset(t *testing.T) {
	quota := NewQuotaTracker()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	quota.Record(github.RateLimit{Known: true, Remaining: 0, Limit: 60, ResetAt: now.Add(10 * time.Minute)})

	if wait := quota.TimeUntilReset(now); wait != 10*time.Minute {
		t.Errorf("Expected 10m until reset, got %v", wait)
	}

	// a reset in the past clamps to zero
	if wait := quota.TimeUntilReset(now.Add(time.Hour)); wait != 0 {
		t.Errorf("Expected zero wait after reset, got %v", wait)
	}
}
