// Package kvstore provides the keyed TTL store backing sessions and
// OTP records. Both a mutex-guarded in-memory implementation and a
// Redis-backed one are available; callers only see the Store interface
// so tests can substitute either with a controllable clock.
package kvstore

import (
	"context"
	"time"
)

// Store is a string-keyed value store with per-entry expiry.
type Store interface {
	// Get returns the value for key and whether it exists. Expired
	// entries are treated as absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes a value with the given TTL, overwriting any prior
	// entry. A zero TTL means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
