package ratelimit

import (
	"context"
	"testing"
	"time"
)

type fakeStorage struct {
	connects int
	appends  [][]string
}

func (f *fakeStorage) Connect(ctx context.Context) error { f.connects++; return nil }
func (f *fakeStorage) Headers() []string                 { return []string{"source_id"} }
func (f *fakeStorage) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}
func (f *fakeStorage) AppendRow(ctx context.Context, values []string) error {
	f.appends = append(f.appends, values)
	return nil
}
func (f *fakeStorage) Disconnect() error { return nil }

func TestRateLimitedStorage_ChargesQuota(t *testing.T) {
	limiter, clock := newTestLimiter(Quota{ReadsPerMinute: 1000, WritesPerMinute: 2, TotalPer100Seconds: 1000})
	inner := &fakeStorage{}
	s := NewRateLimitedStorage(inner, limiter)

	ctx := context.Background()
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := s.ExistingIDs(ctx); err != nil {
		t.Fatalf("ExistingIDs: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.AppendRow(ctx, []string{"x"}); err != nil {
			t.Fatalf("AppendRow %d: %v", i, err)
		}
	}

	// The third append exceeds the two-writes-per-minute budget.
	if len(clock.sleeps) != 1 || clock.sleeps[0] != time.Minute {
		t.Errorf("sleeps = %v, want one 1m sleep from the write budget", clock.sleeps)
	}
	if inner.connects != 1 || len(inner.appends) != 3 {
		t.Errorf("inner saw %d connects and %d appends", inner.connects, len(inner.appends))
	}

	// Headers is served from cache and must not touch the quota.
	before := limiter.total
	if got := s.Headers(); len(got) != 1 {
		t.Errorf("Headers() = %v", got)
	}
	if limiter.total != before {
		t.Error("Headers() charged the quota")
	}
}
