// Package reqstore provides the request-scoped backing store: a plain
// key/value bag owned by a single request's execution scope.
package reqstore

import (
	"context"
	"time"

	st "github.com/unkn0wn-root/scopedcache/store"
)

type entry struct {
	val      []byte
	expireAt time.Time     // zero => no expiration
	sliding  time.Duration // >0 => expireAt pushed forward on read
}

// Bag is a request-scoped store. One instance per request; NOT safe for
// concurrent use - a bag must never be shared across goroutines. The owning
// request handler creates it when the request starts and Closes it when the
// request ends.
type Bag struct {
	m map[string]entry
}

var (
	_ st.Store      = (*Bag)(nil)
	_ st.Enumerator = (*Bag)(nil)
)

func New() *Bag {
	return &Bag{m: make(map[string]entry)}
}

func (b *Bag) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := b.m[key]
	if !ok {
		return nil, false, nil
	}
	now := time.Now()
	if !e.expireAt.IsZero() && now.After(e.expireAt) {
		delete(b.m, key)
		return nil, false, nil
	}
	if e.sliding > 0 {
		e.expireAt = now.Add(e.sliding)
		b.m[key] = e
	}
	return e.val, true, nil
}

func (b *Bag) Set(_ context.Context, key string, value []byte, exp st.Expiration, _ st.Dependencies) (bool, error) {
	now := time.Now()
	absoluteAt, sliding := exp.Resolve(now)
	e := entry{val: value, expireAt: absoluteAt, sliding: sliding}
	if sliding > 0 {
		e.expireAt = now.Add(sliding)
	}
	b.m[key] = e
	return true, nil
}

func (b *Bag) Del(_ context.Context, key string) error {
	delete(b.m, key)
	return nil
}

// Keys returns a snapshot of every key currently in the bag.
func (b *Bag) Keys(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(b.m))
	for k := range b.m {
		out = append(out, k)
	}
	return out, nil
}

// Len reports the number of entries currently held.
func (b *Bag) Len() int { return len(b.m) }

// Close tears the bag down at the end of its owning request.
func (b *Bag) Close(context.Context) error {
	b.m = make(map[string]entry)
	return nil
}
