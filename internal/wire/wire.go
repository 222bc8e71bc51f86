// Package wire frames cache entries so the engine can tell a real payload
// apart from the null-result and in-progress markers. The markers are plain
// entry kinds, never shared singleton values, so a legitimate payload can
// never collide with one and frames survive serialization boundaries.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

// Kind is the tag of a framed entry.
type Kind byte

const (
	// KindValue frames a real payload produced by a load.
	KindValue Kind = 1
	// KindNull records that a load completed with no value for the key.
	KindNull Kind = 2
	// KindInProgress marks a key whose computation was staked but has not
	// finished (cycle-guarded lookups only). Carries no payload.
	KindInProgress Kind = 3
)

var (
	ErrCorrupt = errors.New("scopedcache: corrupt entry")
	magic4     = [...]byte{'S', 'C', 'P', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1) | vlen(u32 be) | payload(vlen)
// Null and in-progress entries carry no payload (vlen=0).
func Encode(kind Kind, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(kind))

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func EncodeValue(payload []byte) []byte { return Encode(KindValue, payload) }
func EncodeNull() []byte                { return Encode(KindNull, nil) }
func EncodeInProgress() []byte          { return Encode(KindInProgress, nil) }

func Decode(b []byte) (Kind, []byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}

	kind := Kind(b[5])
	if kind != KindValue && kind != KindNull && kind != KindInProgress {
		return 0, nil, ErrCorrupt
	}

	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off { // exact length; trailing bytes are corruption too
		return 0, nil, ErrCorrupt
	}
	if kind != KindValue && vlen != 0 {
		return 0, nil, ErrCorrupt
	}

	return kind, b[off : off+vlen], nil
}
