// Package codec holds the pluggable serializers the cache engine uses to turn
// caller values into payload bytes and back. The engine owns entry framing
// and the null/in-progress markers; a Codec only ever sees real payloads.
package codec

// Codec converts values of type V to and from their stored byte form.
// Implementations must be safe for concurrent use.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
