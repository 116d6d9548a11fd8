package ratelimit

import (
	"context"

	"github.com/lokersync/lokersync/internal/model"
)

// RateLimitedStorage is a decorator that charges every storage call
// against the quota before delegating to the wrapped client.
type RateLimitedStorage struct {
	inner   model.StorageClient
	limiter *QuotaLimiter
}

// NewRateLimitedStorage wraps a storage client with quota enforcement.
// Clients talking to the same backend should share the limiter instance.
func NewRateLimitedStorage(inner model.StorageClient, limiter *QuotaLimiter) *RateLimitedStorage {
	return &RateLimitedStorage{inner: inner, limiter: limiter}
}

func (s *RateLimitedStorage) Connect(ctx context.Context) error {
	if err := s.limiter.Acquire(ctx, Read); err != nil {
		return err
	}
	return s.inner.Connect(ctx)
}

// Headers is served from the client's cached header row; no quota charge.
func (s *RateLimitedStorage) Headers() []string {
	return s.inner.Headers()
}

func (s *RateLimitedStorage) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	if err := s.limiter.Acquire(ctx, Read); err != nil {
		return nil, err
	}
	return s.inner.ExistingIDs(ctx)
}

func (s *RateLimitedStorage) AppendRow(ctx context.Context, values []string) error {
	if err := s.limiter.Acquire(ctx, Write); err != nil {
		return err
	}
	return s.inner.AppendRow(ctx, values)
}

func (s *RateLimitedStorage) Disconnect() error {
	return s.inner.Disconnect()
}
