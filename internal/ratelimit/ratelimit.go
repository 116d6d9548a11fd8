// Package ratelimit enforces spreadsheet API quotas: per-minute read and
// write budgets plus a total-request budget over a rolling 100 second
// window. Callers block until their request fits the quota.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Kind classifies a request against the per-minute budgets.
type Kind string

const (
	Read  Kind = "read"
	Write Kind = "write"
)

// Quota holds the request budgets. Zero fields take the documented
// spreadsheet API defaults.
type Quota struct {
	ReadsPerMinute     int
	WritesPerMinute    int
	TotalPer100Seconds int
}

func (q Quota) withDefaults() Quota {
	if q.ReadsPerMinute <= 0 {
		q.ReadsPerMinute = 300
	}
	if q.WritesPerMinute <= 0 {
		q.WritesPerMinute = 60
	}
	if q.TotalPer100Seconds <= 0 {
		q.TotalPer100Seconds = 500
	}
	return q
}

// QuotaLimiter tracks request counts against a Quota and sleeps callers
// that would exceed it. Safe for concurrent use; a sleeping caller holds
// back the others, since the quota they share is already exhausted.
type QuotaLimiter struct {
	mu    sync.Mutex
	quota Quota

	minuteStart time.Time
	reads       int
	writes      int

	lastRequest time.Time
	total       int

	// Injected for tests.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewQuotaLimiter creates a limiter for the given quota.
func NewQuotaLimiter(quota Quota) *QuotaLimiter {
	return &QuotaLimiter{
		quota: quota.withDefaults(),
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Acquire blocks until one request of the given kind fits the quota, then
// records it. Returns an error only when the context is cancelled while
// waiting.
func (l *QuotaLimiter) Acquire(ctx context.Context, kind Kind) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.minuteStart.IsZero() {
		l.minuteStart = now
	}

	// Roll the per-minute window.
	if now.Sub(l.minuteStart) >= time.Minute {
		l.reads = 0
		l.writes = 0
		l.minuteStart = now
	}

	// Total-request window: quiet for over 100s means a fresh window,
	// otherwise wait out the remainder when the budget is spent.
	if sinceLast := now.Sub(l.lastRequest); sinceLast > 100*time.Second {
		l.total = 0
	} else if l.total >= l.quota.TotalPer100Seconds {
		wait := 100*time.Second - sinceLast
		if wait < time.Second {
			wait = time.Second
		}
		slog.Warn("total request budget spent, backing off", "wait", wait)
		if err := l.sleep(ctx, wait); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		l.total = 0
	}

	switch {
	case kind == Read && l.reads >= l.quota.ReadsPerMinute:
		slog.Warn("read budget spent, backing off", "wait", time.Minute)
		if err := l.sleep(ctx, time.Minute); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		l.reads = 0
		l.minuteStart = l.now()
	case kind == Write && l.writes >= l.quota.WritesPerMinute:
		slog.Warn("write budget spent, backing off", "wait", time.Minute)
		if err := l.sleep(ctx, time.Minute); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		l.writes = 0
		l.minuteStart = l.now()
	}

	l.total++
	if kind == Write {
		l.writes++
	} else {
		l.reads++
	}
	l.lastRequest = now
	return nil
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
