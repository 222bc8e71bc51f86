// Package redis adapts redis/go-redis to the scopedcache store contract.
//
// Absolute expiration maps to a plain TTL. Sliding expiration is honored by
// refreshing the TTL on every read via GETEX; the per-key sliding window is
// tracked in-process, so with multiple replicas each replica refreshes based
// on its own inserts only.
package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	st "github.com/unkn0wn-root/scopedcache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

// pruneEvery bounds the sliding bookkeeping: every N sliding inserts the map
// is swept for windows that lapsed server-side and were never read again.
const pruneEvery = 1024

type slidingEntry struct {
	win      time.Duration
	deadline time.Time // last refresh + win; past it the server key is gone
}

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool

	mu      sync.Mutex
	sliding map[string]slidingEntry // keys inserted with sliding expiration
	ops     int
}

var _ st.Store = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{
		rdb:         cfg.Client,
		closeClient: cfg.CloseClient,
		sliding:     make(map[string]slidingEntry),
	}, nil
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	win := p.slidingWindow(key, time.Now())

	var b []byte
	var err error
	if win > 0 {
		// refresh the sliding window as part of the read
		b, err = p.rdb.GetEx(ctx, key, win).Bytes()
	} else {
		b, err = p.rdb.Get(ctx, key).Bytes()
	}
	if err == goredis.Nil {
		if win > 0 {
			p.forget(key)
		}
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	if win > 0 {
		p.refresh(key, win, time.Now())
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte, exp st.Expiration, _ st.Dependencies) (bool, error) {
	var ttl time.Duration
	if exp.Kind != st.None && exp.TTL > 0 {
		ttl = exp.TTL
	}
	if err := p.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}

	now := time.Now()
	p.mu.Lock()
	if exp.Kind == st.Sliding && exp.TTL > 0 {
		p.sliding[key] = slidingEntry{win: exp.TTL, deadline: now.Add(exp.TTL)}
		p.ops++
		if p.ops%pruneEvery == 0 {
			p.pruneLocked(now)
		}
	} else {
		delete(p.sliding, key)
	}
	p.mu.Unlock()
	return true, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	p.forget(key)
	return p.rdb.Del(ctx, key).Err()
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

// slidingWindow returns the window for key, dropping the record when its
// deadline has lapsed (the server key expired on its own).
func (p *Redis) slidingWindow(key string, now time.Time) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.sliding[key]
	if !ok {
		return 0
	}
	if now.After(e.deadline) {
		delete(p.sliding, key)
		return 0
	}
	return e.win
}

func (p *Redis) refresh(key string, win time.Duration, now time.Time) {
	p.mu.Lock()
	if _, ok := p.sliding[key]; ok {
		p.sliding[key] = slidingEntry{win: win, deadline: now.Add(win)}
	}
	p.mu.Unlock()
}

func (p *Redis) forget(key string) {
	p.mu.Lock()
	delete(p.sliding, key)
	p.mu.Unlock()
}

func (p *Redis) pruneLocked(now time.Time) {
	for k, e := range p.sliding {
		if now.After(e.deadline) {
			delete(p.sliding, k)
		}
	}
}
