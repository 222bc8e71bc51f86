package codec

import (
	"errors"
	"fmt"
)

// ErrPayloadTooLarge reports a stored payload longer than a Limit allows.
var ErrPayloadTooLarge = errors.New("codec: payload too large")

// Limit rejects oversized payloads before they reach the inner codec's
// Decode. Shared stores can hand back entries written by anyone; the cap
// keeps a hostile or runaway entry from being deserialized at all.
// Encode passes through untouched.
type Limit[V any] struct {
	Inner Codec[V]
	// MaxDecode caps the incoming payload length in bytes.
	// Zero or negative disables the check.
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
