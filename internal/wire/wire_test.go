package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"1"}`)
	b := EncodeValue(payload)
	kind, got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if kind != KindValue || !bytes.Equal(got, payload) {
		t.Fatalf("kind=%v payload=%q", kind, got)
	}
}

func TestMarkersCarryNoPayload(t *testing.T) {
	for _, tc := range []struct {
		name string
		b    []byte
		kind Kind
	}{
		{"null", EncodeNull(), KindNull},
		{"in-progress", EncodeInProgress(), KindInProgress},
	} {
		t.Run(tc.name, func(t *testing.T) {
			kind, payload, err := Decode(tc.b)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if kind != tc.kind || len(payload) != 0 {
				t.Fatalf("kind=%v payload=%q", kind, payload)
			}
		})
	}
}

func TestEmptyValuePayload(t *testing.T) {
	kind, payload, err := Decode(EncodeValue(nil))
	if err != nil || kind != KindValue || len(payload) != 0 {
		t.Fatalf("kind=%v payload=%q err=%v", kind, payload, err)
	}
}

func TestDecodeRejectsCorrupt(t *testing.T) {
	cases := map[string][]byte{
		"empty":             nil,
		"short":             {'S', 'C'},
		"bad magic":         append([]byte("XXXX\x01\x01"), 0, 0, 0, 0),
		"bad version":       append([]byte("SCPC\x07\x01"), 0, 0, 0, 0),
		"unknown kind":      append([]byte("SCPC\x01\x09"), 0, 0, 0, 0),
		"truncated payload": append([]byte("SCPC\x01\x01"), 0, 0, 0, 9, 'x'),
		"payload on marker": append([]byte("SCPC\x01\x02"), 0, 0, 0, 1, 'x'),
		"trailing garbage":  append(EncodeValue([]byte("v")), 'z'),
		"marker trailing":   append(EncodeNull(), 0),
		"foreign bytes":     []byte("not-wire-format"),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Decode(b); !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}
