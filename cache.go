package scopedcache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	cd "github.com/unkn0wn-root/scopedcache/codec"
	"github.com/unkn0wn-root/scopedcache/internal/wire"
	st "github.com/unkn0wn-root/scopedcache/store"
)

type cache[V any] struct {
	store      st.Store
	codec      cd.Codec[V]
	log        Logger
	hooks      Hooks
	defaultExp st.Expiration
	enabled    atomic.Bool
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("scopedcache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("scopedcache: codec is required")
	}

	c := &cache[V]{
		store: opts.Store,
		codec: opts.Codec,
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.defaultExp = DefaultExpiration
	if opts.DefaultExpiration != nil {
		c.defaultExp = *opts.DefaultExpiration
	}
	c.enabled.Store(!opts.Disabled)

	return c, nil
}

func (c *cache[V]) Enabled() bool      { return c.enabled.Load() }
func (c *cache[V]) SetEnabled(on bool) { c.enabled.Store(on) }

func (c *cache[V]) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}

func (c *cache[V]) GetOrLoad(ctx context.Context, key Key, load LoadFunc[V]) (V, bool, error) {
	return c.GetOrLoadExpiring(ctx, key, c.defaultExp, nil, load)
}

func (c *cache[V]) GetOrLoadExpiring(ctx context.Context, key Key, exp st.Expiration, deps st.Dependencies, load LoadFunc[V]) (V, bool, error) {
	var zero V
	if !c.enabled.Load() {
		return c.invoke(ctx, key, load)
	}

	k := key.Canonical()
	kind, payload, found, err := c.read(ctx, k)
	if err != nil {
		return zero, false, err
	}
	if found {
		switch kind {
		case wire.KindNull:
			c.hooks.Hit(k)
			return zero, false, nil
		case wire.KindInProgress:
			return zero, false, c.cycle(k)
		default: // wire.KindValue
			if v, ok := c.decode(ctx, k, payload); ok {
				c.hooks.Hit(k)
				return v, true, nil
			}
			// undecodable value was self-healed away; treat as a miss
		}
	}

	c.hooks.Miss(k)
	v, ok, err := c.invoke(ctx, key, load)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		if err := c.write(ctx, k, wire.EncodeNull(), exp, deps); err != nil {
			return zero, false, err
		}
		return zero, false, nil
	}
	frame, err := c.encode(k, v)
	if err != nil {
		return zero, false, err
	}
	if err := c.write(ctx, k, frame, exp, deps); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (c *cache[V]) GetOrLoadGuarded(ctx context.Context, key Key, load LoadFunc[V]) (V, bool, error) {
	var zero V
	if !c.enabled.Load() {
		return c.invoke(ctx, key, load)
	}

	k := key.Canonical()
	kind, payload, found, err := c.read(ctx, k)
	if err != nil {
		return zero, false, err
	}
	if found {
		switch kind {
		case wire.KindNull:
			c.hooks.Hit(k)
			return zero, false, nil
		case wire.KindInProgress:
			return zero, false, c.cycle(k)
		default:
			if v, ok := c.decode(ctx, k, payload); ok {
				c.hooks.Hit(k)
				return v, true, nil
			}
		}
	}

	c.hooks.Miss(k)

	// Stake the key before invoking load so a re-entrant lookup for the same
	// key observes the marker instead of recomputing.
	if err := c.write(ctx, k, wire.EncodeInProgress(), c.defaultExp, nil); err != nil {
		return zero, false, err
	}
	v, ok, err := c.invoke(ctx, key, load)
	if err != nil {
		// The marker stays behind: later lookups for k in this store scope
		// report a cycle rather than retrying the failed computation.
		return zero, false, err
	}
	var frame []byte
	if ok {
		if frame, err = c.encode(k, v); err != nil {
			return zero, false, err
		}
	} else {
		frame = wire.EncodeNull()
	}
	// The final write always replaces the marker on the success path.
	if err := c.write(ctx, k, frame, c.defaultExp, nil); err != nil {
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}
	return v, true, nil
}

func (c *cache[V]) GetOrLoadEither(ctx context.Context, key, alias Key, load LoadFunc[V]) (V, bool, error) {
	var zero V
	if !c.enabled.Load() {
		return c.invoke(ctx, key, load)
	}

	k1, k2 := key.Canonical(), alias.Canonical()
	v1, ok1, err := c.peek(ctx, k1)
	if err != nil {
		return zero, false, err
	}
	v2, ok2, err := c.peek(ctx, k2)
	if err != nil {
		return zero, false, err
	}

	switch {
	case ok1 && ok2:
		// Both populated. Each key is only ever backfilled from the same
		// load, so equal contents is a caller precondition, not verified.
		c.hooks.Hit(k1)
		return v1, true, nil
	case ok1:
		c.hooks.Hit(k1)
		if err := c.writeValue(ctx, k2, v1); err != nil {
			return zero, false, err
		}
		return v1, true, nil
	case ok2:
		c.hooks.Hit(k2)
		if err := c.writeValue(ctx, k1, v2); err != nil {
			return zero, false, err
		}
		return v2, true, nil
	}

	c.hooks.Miss(k1)
	v, ok, err := c.invoke(ctx, key, load)
	if err != nil {
		return zero, false, err
	}
	var frame []byte
	if ok {
		if frame, err = c.encode(k1, v); err != nil {
			return zero, false, err
		}
	} else {
		frame = wire.EncodeNull()
	}
	if err := c.write(ctx, k1, frame, c.defaultExp, nil); err != nil {
		return zero, false, err
	}
	if err := c.write(ctx, k2, frame, c.defaultExp, nil); err != nil {
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}
	return v, true, nil
}

// Remove and RemoveByPrefix are not gated by the administrative switch:
// an invalidation issued while the cache is disabled must still reach the
// store, or stale pre-disable entries would be served after re-enabling.
func (c *cache[V]) Remove(ctx context.Context, key Key) error {
	k := key.Canonical()
	if err := c.store.Del(ctx, k); err != nil {
		c.report(k, "del", err)
		return err
	}
	return nil
}

func (c *cache[V]) RemoveByPrefix(ctx context.Context, prefix string) error {
	en, ok := c.store.(st.Enumerator)
	if !ok {
		return ErrEnumerationUnsupported
	}
	keys, err := en.Keys(ctx)
	if err != nil {
		c.report(prefix, "keys", err)
		return err
	}

	// collect first, delete after: never mutate the store mid-iteration
	var matched []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			matched = append(matched, k)
		}
	}
	for _, k := range matched {
		if err := c.store.Del(ctx, k); err != nil {
			c.report(k, "del", err)
			return err
		}
	}
	if len(matched) > 0 {
		c.log.Debug("removed entries by prefix", Fields{"prefix": prefix, "removed": len(matched)})
	}
	return nil
}

// read fetches and unframes k. Corrupt frames are deleted and reported as a
// miss (self-heal); store errors propagate.
func (c *cache[V]) read(ctx context.Context, k string) (wire.Kind, []byte, bool, error) {
	raw, ok, err := c.store.Get(ctx, k)
	if err != nil {
		c.report(k, "get", err)
		return 0, nil, false, err
	}
	if !ok {
		return 0, nil, false, nil
	}
	kind, payload, err := wire.Decode(raw)
	if err != nil {
		_ = c.store.Del(ctx, k)
		c.hooks.SelfHeal(k, "corrupt")
		c.log.Debug("self-healed corrupt entry", Fields{"key": k})
		return 0, nil, false, nil
	}
	return kind, payload, true, nil
}

// peek reports whether k currently holds a decodable value entry. Markers,
// and bytes that do not decode to V, count as absent for this key.
func (c *cache[V]) peek(ctx context.Context, k string) (V, bool, error) {
	var zero V
	kind, payload, found, err := c.read(ctx, k)
	if err != nil {
		return zero, false, err
	}
	if !found || kind != wire.KindValue {
		return zero, false, nil
	}
	v, ok := c.decode(ctx, k, payload)
	return v, ok, nil
}

func (c *cache[V]) decode(ctx context.Context, k string, payload []byte) (V, bool) {
	v, err := c.codec.Decode(payload)
	if err != nil {
		_ = c.store.Del(ctx, k) // self-heal
		c.hooks.SelfHeal(k, "value_decode")
		c.log.Debug("self-healed undecodable value", Fields{"key": k, "err": err})
		var zero V
		return zero, false
	}
	return v, true
}

// writeValue encodes v and stores it under k with the default expiration.
// Used by the dual-key backfill paths.
func (c *cache[V]) writeValue(ctx context.Context, k string, v V) error {
	frame, err := c.encode(k, v)
	if err != nil {
		return err
	}
	return c.write(ctx, k, frame, c.defaultExp, nil)
}

func (c *cache[V]) encode(k string, v V) ([]byte, error) {
	payload, err := c.codec.Encode(v)
	if err != nil {
		c.report(k, "encode", err)
		return nil, err
	}
	return wire.EncodeValue(payload), nil
}

func (c *cache[V]) write(ctx context.Context, k string, frame []byte, exp st.Expiration, deps st.Dependencies) error {
	ok, err := c.store.Set(ctx, k, frame, exp, deps)
	if err != nil {
		c.report(k, "set", err)
		return err
	}
	if !ok {
		c.hooks.SetRejected(k)
		c.log.Debug("set rejected by store (pressure)", Fields{"key": k})
	}
	return nil
}

func (c *cache[V]) invoke(ctx context.Context, key Key, load LoadFunc[V]) (V, bool, error) {
	v, ok, err := load(ctx)
	if err != nil {
		var zero V
		k := key.Canonical()
		c.hooks.LoadError(k, err)
		c.log.Error("load failed", Fields{"key": k, "type": fmt.Sprintf("%T", zero), "err": err})
		return zero, false, err
	}
	return v, ok, nil
}

func (c *cache[V]) cycle(k string) error {
	c.hooks.CycleDetected(k)
	c.log.Warn("in-progress entry observed", Fields{"key": k})
	return &CycleError{Key: k}
}

func (c *cache[V]) report(k, op string, err error) {
	var zero V
	c.hooks.StoreError(k, op, err)
	c.log.Error("store "+op+" failed", Fields{"key": k, "type": fmt.Sprintf("%T", zero), "err": err})
}
