package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/scopedcache"
)

type Options struct {
	// Sampling to avoid floods on hot paths; 0/1 = log all.
	HitEvery  uint64
	MissEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

// Hooks is a scopedcache.Hooks sink that logs via slog, with sampling for
// the hit/miss callbacks that fire on every lookup.
type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ scopedcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(key string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("scopedcache.hit", "key", h.redact(key))
}

func (h *Hooks) Miss(key string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("scopedcache.miss", "key", h.redact(key))
}

func (h *Hooks) LoadError(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("scopedcache.load_error",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) StoreError(key, op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("scopedcache.store_error",
		"key", h.redact(key),
		"op", op,
		"err", err)
}

func (h *Hooks) SelfHeal(key, reason string) {
	if h.l == nil {
		return
	}
	h.l.Debug("scopedcache.self_heal",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) SetRejected(key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("scopedcache.set_rejected",
		"key", h.redact(key))
}

func (h *Hooks) CycleDetected(key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("scopedcache.cycle_detected",
		"key", h.redact(key))
}
