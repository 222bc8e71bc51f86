package codec

import (
	"bytes"
	"errors"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

type record struct {
	ID   string `json:"id" msgpack:"id"`
	Tags []int  `json:"tags" msgpack:"tags"`
}

func TestMsgpackRoundTrip(t *testing.T) {
	c := Msgpack[record]{}
	in := record{ID: "r1", Tags: []int{3, 1, 4}}

	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ID != in.ID || len(out.Tags) != 3 || out.Tags[2] != 4 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	c := MustCBOR[record](false)
	in := record{ID: "r2", Tags: []int{7}}

	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ID != in.ID || len(out.Tags) != 1 || out.Tags[0] != 7 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

// TestCBORDeterministic: the deterministic mode yields identical bytes for
// identical values across independent codec instances.
func TestCBORDeterministic(t *testing.T) {
	in := map[string]int{"b": 2, "a": 1, "c": 3}

	b1, err := MustCBOR[map[string]int](true).Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b2, err := MustCBOR[map[string]int](true).Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("deterministic encodings differ:\n%x\n%x", b1, b2)
	}
}

func TestProtobufRoundTrip(t *testing.T) {
	c := NewProtobuf(func() *structpb.Value { return &structpb.Value{} })

	b, err := c.Encode(structpb.NewStringValue("hello"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.GetStringValue() != "hello" {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestLimitRejectsOversizedPayload(t *testing.T) {
	c := Limit[record]{Inner: Msgpack[record]{}, MaxDecode: 8}

	b, err := c.Encode(record{ID: "way-beyond-eight-bytes"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(b) <= c.MaxDecode {
		t.Fatalf("test payload too small to exercise the cap: %d bytes", len(b))
	}
	if _, err := c.Decode(b); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestLimitPassesSmallPayload(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxDecode: 16}

	out, err := c.Decode([]byte("ok"))
	if err != nil || out != "ok" {
		t.Fatalf("Decode: out=%q err=%v", out, err)
	}

	// zero cap disables the check entirely
	unbounded := Limit[string]{Inner: String{}}
	if _, err := unbounded.Decode(bytes.Repeat([]byte{'x'}, 1<<20)); err != nil {
		t.Fatalf("unbounded Decode: %v", err)
	}
}
