package reqstore

import (
	"context"
	"sort"
	"testing"
	"time"

	st "github.com/unkn0wn-root/scopedcache/store"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	b := New()

	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Fatalf("unexpected hit on empty bag")
	}
	if ok, err := b.Set(ctx, "k", []byte("v"), st.NoExpiration(), nil); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	v, ok, err := b.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get: ok=%v err=%v v=%q", ok, err, v)
	}
	if err := b.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Fatalf("hit after Del")
	}
}

func TestKeysSnapshot(t *testing.T) {
	ctx := context.Background()
	b := New()
	for _, k := range []string{"NS.M:1", "NS.M:2", "OTHER.M:1"} {
		if _, err := b.Set(ctx, k, []byte("x"), st.NoExpiration(), nil); err != nil {
			t.Fatalf("Set %q: %v", k, err)
		}
	}
	keys, err := b.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	want := []string{"NS.M:1", "NS.M:2", "OTHER.M:1"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", keys, want)
		}
	}
}

func TestAbsoluteExpiryIsLazy(t *testing.T) {
	ctx := context.Background()
	b := New()
	if _, err := b.Set(ctx, "k", []byte("v"), st.AbsoluteExpiration(20*time.Millisecond), nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after expiry")
	}
	if b.Len() != 0 {
		t.Fatalf("expired entry not dropped on read")
	}
}

// TestCloseTearsDown models the end of the owning request.
func TestCloseTearsDown(t *testing.T) {
	ctx := context.Background()
	b := New()
	if _, err := b.Set(ctx, "k", []byte("v"), st.NoExpiration(), nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Fatalf("hit after teardown")
	}
	if b.Len() != 0 {
		t.Fatalf("bag not empty after Close")
	}
}
