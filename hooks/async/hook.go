// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/scopedcache"
//	"github.com/unkn0wn-root/scopedcache/codec"
//	"github.com/unkn0wn-root/scopedcache/hooks/async"
//	"github.com/unkn0wn-root/scopedcache/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    HitEvery:  100, // sample logs: ~every 100th hit
//	    MissEvery: 10,  // ~every 10th miss
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cache, _ := scopedcache.New[User](scopedcache.Options[User]{
//	    Store: store,
//	    Codec: codec.JSON[User]{},
//	    Hooks: hooks, // or `raw` if you don’t want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/scopedcache"
)

type Hooks struct {
	inner scopedcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ scopedcache.Hooks = (*Hooks)(nil)

func New(inner scopedcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Hit(k string)           { h.try(func() { h.inner.Hit(k) }) }
func (h *Hooks) Miss(k string)          { h.try(func() { h.inner.Miss(k) }) }
func (h *Hooks) SetRejected(k string)   { h.try(func() { h.inner.SetRejected(k) }) }
func (h *Hooks) CycleDetected(k string) { h.try(func() { h.inner.CycleDetected(k) }) }
func (h *Hooks) LoadError(k string, err error) {
	h.try(func() { h.inner.LoadError(k, err) })
}
func (h *Hooks) StoreError(k, op string, err error) {
	h.try(func() { h.inner.StoreError(k, op, err) })
}
func (h *Hooks) SelfHeal(k, reason string) {
	h.try(func() { h.inner.SelfHeal(k, reason) })
}
