package scopedcache

// Hooks are lightweight callbacks for cache events.
// Implementations MUST be cheap and non-blocking.
// The engine calls them on hot paths.
type Hooks interface {
	// Lookup resolved from the store (real value or cached null result).
	Hit(canonicalKey string)

	// Lookup fell through to the load function.
	Miss(canonicalKey string)

	// Load function returned an error; it is propagated to the caller.
	LoadError(canonicalKey string, err error)

	// A store operation failed, or the value being inserted failed to encode.
	// op ∈ {"get", "set", "del", "keys", "encode"}
	StoreError(canonicalKey, op string, err error)

	// An entry was deleted by the engine on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHeal(canonicalKey, reason string)

	// Store rejected a write under pressure (not an error).
	SetRejected(canonicalKey string)

	// An in-progress marker was observed; the caller gets a CycleError.
	CycleDetected(canonicalKey string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)                       {}
func (NopHooks) Miss(string)                      {}
func (NopHooks) LoadError(string, error)          {}
func (NopHooks) StoreError(string, string, error) {}
func (NopHooks) SelfHeal(string, string)          {}
func (NopHooks) SetRejected(string)               {}
func (NopHooks) CycleDetected(string)             {}
