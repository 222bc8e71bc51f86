package scopedcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/scopedcache/codec"
	st "github.com/unkn0wn-root/scopedcache/store"
)

// Default expiration descriptors. GetOrLoad and the guarded/dual-key variants
// use Options.DefaultExpiration, which falls back to DefaultExpiration.
// ShortExpiration is a reusable descriptor for values that go stale quickly.
var (
	DefaultExpiration = st.AbsoluteExpiration(15 * time.Minute)
	ShortExpiration   = st.AbsoluteExpiration(2 * time.Minute)
)

// LoadFunc produces the value for a key on a cache miss. ok=false means the
// load has no value for this key; that outcome is cached as a null-result
// marker so later lookups report absence without running the load again.
type LoadFunc[V any] func(ctx context.Context) (V, bool, error)

// Cache is the store-agnostic cache-aside API. V is the caller's value type;
// serialization is handled by a pluggable Codec[V].
//
// All lookups return (value, ok, err): ok=false with a nil error means the
// key resolved to an absent result (never a sentinel leaking out).
type Cache[V any] interface {
	Enabled() bool
	// SetEnabled flips the administrative switch at runtime. Intended for
	// process-wide deployments; request-scoped deployments fix the switch
	// once at construction via Options.Disabled.
	SetEnabled(bool)
	Close(context.Context) error

	// GetOrLoad looks key up and falls back to load on a miss, writing the
	// result (or a null-result marker) back with the default expiration.
	GetOrLoad(ctx context.Context, key Key, load LoadFunc[V]) (V, bool, error)

	// GetOrLoadExpiring is GetOrLoad with an explicit expiration descriptor
	// and an opaque host dependency handle passed through to the store.
	GetOrLoadExpiring(ctx context.Context, key Key, exp st.Expiration, deps st.Dependencies, load LoadFunc[V]) (V, bool, error)

	// GetOrLoadGuarded stakes an in-progress marker under key before running
	// load; a re-entrant lookup of the same key fails with *CycleError
	// instead of recomputing. Meant for self-referential evaluation where a
	// key may depend on itself through a chain of other keys.
	GetOrLoadGuarded(ctx context.Context, key Key, load LoadFunc[V]) (V, bool, error)

	// GetOrLoadEither looks a value up under two keys the caller knows to
	// denote the same logical value (e.g., an alias and a canonical form),
	// backfilling whichever key is empty. load runs at most once.
	GetOrLoadEither(ctx context.Context, key, alias Key, load LoadFunc[V]) (V, bool, error)

	// Remove deletes a single entry.
	Remove(ctx context.Context, key Key) error

	// RemoveByPrefix deletes every entry whose canonical key starts with
	// prefix. Requires a store implementing store.Enumerator; otherwise
	// ErrEnumerationUnsupported is returned.
	RemoveByPrefix(ctx context.Context, prefix string) error
}

// Options tune the cache-aside engine.
// Only Store and Codec are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Store st.Store
	Codec c.Codec[V]

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	// DefaultExpiration applies to GetOrLoad and the guarded/dual-key
	// variants. nil => DefaultExpiration (absolute 15m); a pointer is used
	// so that store.NoExpiration() remains expressible.
	DefaultExpiration *st.Expiration

	// Disabled starts the engine bypassed: every lookup runs load directly
	// with no store traffic. Request-scoped hosts set this when no live
	// request context is available (e.g., under a unit-test harness).
	Disabled bool
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
