// Package scopedcache implements a cache-aside facade over pluggable backing
// stores: look the key up first, invoke the caller's load function on a miss,
// write the result back, and serve later lookups from the store.
//
// The same contract is exposed over two store scopes:
//   - request-scoped: a per-request bag (store/reqstore), torn down with its
//     request, key-enumerable so whole prefixes can be invalidated at once.
//   - process-wide: an expiring store shared by the whole process
//     (store/memstore, or adapters over Ristretto, BigCache, Redis).
//
// Absent results are cached too: a load that reports "no value" writes a
// null-result marker, so later lookups return absent without re-invoking the
// load. The cycle-guarded variant stakes an in-progress marker before the
// load runs, turning re-entrant evaluation of the same key into a CycleError.
// Both markers are internal; callers only ever see values, absence, or errors.
//
// Keys:
//
//	<namespace>.<method>         - one entry per operation
//	<namespace>.<method>:<item>  - per-item entries
//
// Cache-aside pattern:
//
//	key := scopedcache.ItemKey("user", "byID", id)
//	u, ok, err := cache.GetOrLoad(ctx, key, func(ctx context.Context) (User, bool, error) {
//	    return readUserFromDB(ctx, id)
//	})
package scopedcache
