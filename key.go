package scopedcache

import "fmt"

// Key identifies a cached entry by an owner namespace, an operation within
// that owner, and an optional per-item discriminator. Keys are immutable
// values; two keys with equal canonical strings address the same entry no
// matter how they were built.
type Key struct {
	ns     string
	method string
	item   string
}

// NewKey composes a key with no item discriminator.
func NewKey(namespace, method string) Key {
	return Key{ns: namespace, method: method}
}

// ItemKey composes a key for one item of a many-item operation. item is
// rendered with fmt.Sprint; callers own making that rendering stable and
// unique per logical item - no validation is performed here.
func ItemKey(namespace, method string, item any) Key {
	return Key{ns: namespace, method: method, item: fmt.Sprint(item)}
}

// Canonical returns the storage key: "ns.method", or "ns.method:item" when a
// discriminator is present. Deterministic for a given triple.
func (k Key) Canonical() string {
	if k.item == "" {
		return k.ns + "." + k.method
	}
	return k.ns + "." + k.method + ":" + k.item
}

func (k Key) Namespace() string { return k.ns }
func (k Key) Method() string    { return k.method }
func (k Key) Item() string      { return k.item }
