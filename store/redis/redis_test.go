package redis

import (
	"testing"
	"time"
)

// The sliding bookkeeping never talks to the server; it can be exercised
// without a live client.

func newBareStore() *Redis {
	return &Redis{sliding: make(map[string]slidingEntry)}
}

// TestSlidingWindowForgetsLapsedKeys: a key whose window lapsed server-side
// is dropped from the in-process map on the next lookup.
func TestSlidingWindowForgetsLapsedKeys(t *testing.T) {
	p := newBareStore()
	now := time.Now()
	p.sliding["k"] = slidingEntry{win: time.Minute, deadline: now.Add(-time.Second)}

	if win := p.slidingWindow("k", now); win != 0 {
		t.Fatalf("lapsed key returned window %v, want 0", win)
	}
	if _, ok := p.sliding["k"]; ok {
		t.Fatalf("lapsed key still tracked")
	}
}

func TestSlidingWindowLive(t *testing.T) {
	p := newBareStore()
	now := time.Now()
	p.sliding["k"] = slidingEntry{win: time.Minute, deadline: now.Add(time.Minute)}

	if win := p.slidingWindow("k", now); win != time.Minute {
		t.Fatalf("live key returned window %v, want 1m", win)
	}
}

// TestPruneDropsOnlyLapsed: the amortized sweep removes lapsed records and
// keeps live ones, so churn cannot grow the map without bound.
func TestPruneDropsOnlyLapsed(t *testing.T) {
	p := newBareStore()
	now := time.Now()
	p.sliding["dead1"] = slidingEntry{win: time.Minute, deadline: now.Add(-time.Hour)}
	p.sliding["dead2"] = slidingEntry{win: time.Minute, deadline: now.Add(-time.Second)}
	p.sliding["live"] = slidingEntry{win: time.Minute, deadline: now.Add(time.Minute)}

	p.mu.Lock()
	p.pruneLocked(now)
	p.mu.Unlock()

	if len(p.sliding) != 1 {
		t.Fatalf("sliding map has %d entries after prune, want 1", len(p.sliding))
	}
	if _, ok := p.sliding["live"]; !ok {
		t.Fatalf("live entry was pruned")
	}
}

func TestRefreshPushesDeadline(t *testing.T) {
	p := newBareStore()
	now := time.Now()
	p.sliding["k"] = slidingEntry{win: time.Minute, deadline: now.Add(time.Second)}

	p.refresh("k", time.Minute, now)
	if got := p.sliding["k"].deadline; !got.Equal(now.Add(time.Minute)) {
		t.Fatalf("deadline = %v, want %v", got, now.Add(time.Minute))
	}

	// refresh of an untracked key must not resurrect it
	p.refresh("gone", time.Minute, now)
	if _, ok := p.sliding["gone"]; ok {
		t.Fatalf("refresh resurrected an untracked key")
	}
}
