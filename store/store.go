// Package store defines the backing-store abstraction used by scopedcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no prepended
// or appended metadata, no re-encoding, no mutation). If a store performs
// internal transforms (e.g., compression), they MUST be fully reversed so the
// bytes returned by Get are identical to the bytes provided to Set.
//
// Key enumeration is a separate capability (Enumerator), not an optional
// method: request-scoped bags implement it, process-wide stores do not.
package store

import (
	"context"
	"time"
)

// ExpirationKind selects how an inserted entry ages out.
type ExpirationKind uint8

const (
	// None keeps the entry until it is removed or the store is torn down.
	None ExpirationKind = iota
	// Absolute expires the entry at insert time + TTL regardless of access.
	Absolute
	// Sliding pushes the expiration forward by TTL on every read.
	Sliding
)

// Expiration describes when an inserted entry stops being served.
// Absolute and Sliding are mutually exclusive per entry; the zero value
// means no expiration.
type Expiration struct {
	Kind ExpirationKind
	TTL  time.Duration
}

func NoExpiration() Expiration { return Expiration{} }

func AbsoluteExpiration(ttl time.Duration) Expiration {
	return Expiration{Kind: Absolute, TTL: ttl}
}

func SlidingExpiration(ttl time.Duration) Expiration {
	return Expiration{Kind: Sliding, TTL: ttl}
}

// Resolve maps the descriptor onto the concrete parameters a store works
// with: a fixed deadline for Absolute, a per-access window for Sliding.
// Exactly one result is non-zero for Absolute/Sliding; both are zero for
// None ("never").
func (e Expiration) Resolve(now time.Time) (absoluteAt time.Time, sliding time.Duration) {
	switch e.Kind {
	case Absolute:
		return now.Add(e.TTL), 0
	case Sliding:
		return time.Time{}, e.TTL
	default:
		return time.Time{}, 0
	}
}

// Dependencies is an opaque host-environment eviction handle: when any of the
// named dependencies change, the store evicts the entry early. scopedcache
// passes it through Set unmodified and never inspects it; stores with no
// dependency mechanism ignore it.
type Dependencies any

// Store is a minimal byte store with per-entry expiration.
// Process-wide implementations must be safe for concurrent use;
// request-scoped bags may assume a single caller (see reqstore).
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given expiration. deps is the
	// opaque host dependency handle; implementations may ignore it.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, exp Expiration, deps Dependencies) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Enumerator lists every key currently present, as a snapshot at call time.
// Implemented by request-scoped stores only.
type Enumerator interface {
	Keys(ctx context.Context) ([]string, error)
}
