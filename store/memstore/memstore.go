// Package memstore provides the process-wide in-memory backing store: an
// expiring key/value map shared by the whole process, swept by a background
// janitor. Safe for concurrent use.
package memstore

import (
	"context"
	"sync"
	"time"

	st "github.com/unkn0wn-root/scopedcache/store"
)

const defaultSweep = time.Minute

// ChangeToken is the dependency handle memstore understands: once Changed
// reports true, the entry is evicted on the next read or sweep. Dependency
// values of any other type are ignored.
type ChangeToken interface {
	Changed() bool
}

type entry struct {
	val      []byte
	expireAt time.Time     // zero => no expiration
	sliding  time.Duration // >0 => expireAt pushed forward on read
	dep      ChangeToken
}

type Store struct {
	mu sync.Mutex
	m  map[string]entry

	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ st.Store = (*Store)(nil)

type Config struct {
	// SweepInterval is how often the janitor removes expired entries.
	// 0 => 1 minute. Expired entries are also dropped lazily on read,
	// so the sweep only bounds memory, not visibility.
	SweepInterval time.Duration
}

func New(cfg Config) *Store {
	iv := cfg.SweepInterval
	if iv <= 0 {
		iv = defaultSweep
	}
	s := &Store{
		m:      make(map[string]entry),
		ticker: time.NewTicker(iv),
		stopCh: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	if e.dead(now) {
		delete(s.m, key)
		return nil, false, nil
	}
	if e.sliding > 0 {
		e.expireAt = now.Add(e.sliding)
		s.m[key] = e
	}
	return e.val, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, exp st.Expiration, deps st.Dependencies) (bool, error) {
	now := time.Now()
	absoluteAt, sliding := exp.Resolve(now)
	e := entry{val: value, expireAt: absoluteAt, sliding: sliding}
	if sliding > 0 {
		e.expireAt = now.Add(sliding)
	}
	if ct, ok := deps.(ChangeToken); ok {
		e.dep = ct
	}
	s.mu.Lock()
	s.m[key] = e
	s.mu.Unlock()
	return true, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

// Len reports the number of entries currently held (expired entries count
// until the janitor or a read drops them).
func (s *Store) Len() int {
	s.mu.Lock()
	n := len(s.m)
	s.mu.Unlock()
	return n
}

func (s *Store) Close(context.Context) error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		s.ticker.Stop() // stop ticker before waiting
		s.wg.Wait()
	})
	return nil
}

func (e entry) dead(now time.Time) bool {
	if !e.expireAt.IsZero() && now.After(e.expireAt) {
		return true
	}
	return e.dep != nil && e.dep.Changed()
}

func (s *Store) sweepLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Store) sweep() {
	now := time.Now()
	s.mu.Lock()
	for k, e := range s.m {
		if e.dead(now) {
			delete(s.m, k)
		}
	}
	s.mu.Unlock()
}
