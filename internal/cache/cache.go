package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// Get decodes the cached value into dest. The bool is false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key prefixes, invalidated whenever stock or sales change.
const (
	PrefixDashboard = "pos:dashboard:"
	PrefixForecast  = "pos:forecast:"
)

type Noop struct{}

func (Noop) Get(_ context.Context, _ string, _ interface{}) (bool, error) {
	return false, nil
}

func (Noop) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (Noop) DeletePrefix(_ context.Context, _ string) error {
	return nil
}
