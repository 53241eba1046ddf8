// Package cache provides the key/value store used to keep recently
// generated exercises.
package cache

import (
	"context"
	"time"
)

// Store is a string key/value store with per-entry expiry.
type Store interface {
	// Get returns the value for key. A missing or expired key is reported
	// as ok=false with a nil error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put stores value under key for ttl. A non-positive ttl keeps the
	// entry until it is evicted.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}
