// Package store provides the result cache backends: an opaque key to bytes
// store with per-entry TTL.
package store

import (
	"context"
	"time"
)

// Cache is implemented by every backend. A miss is reported as found=false
// with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
