package scopedcache

import "testing"

func TestKeyCanonical(t *testing.T) {
	cases := []struct {
		name string
		key  Key
		want string
	}{
		{"no discriminator", NewKey("A", "B"), "A.B"},
		{"string discriminator", ItemKey("A", "B", "7"), "A.B:7"},
		{"int discriminator", ItemKey("A", "B", 7), "A.B:7"},
		{"empty discriminator folds away", ItemKey("A", "B", ""), "A.B"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.key.Canonical(); got != tc.want {
				t.Fatalf("Canonical() = %q, want %q", got, tc.want)
			}
		})
	}
}

// TestKeyInterchangeable: independently constructed keys with equal canonical
// strings address the same entry.
func TestKeyInterchangeable(t *testing.T) {
	a := ItemKey("user", "byID", 42)
	b := ItemKey("user", "byID", "42")
	if a.Canonical() != b.Canonical() {
		t.Fatalf("canonical strings differ: %q vs %q", a.Canonical(), b.Canonical())
	}
	if a != b {
		t.Fatalf("keys with equal canonical form should compare equal")
	}
}

func TestKeyAccessors(t *testing.T) {
	k := ItemKey("ns", "m", 1)
	if k.Namespace() != "ns" || k.Method() != "m" || k.Item() != "1" {
		t.Fatalf("accessors: %q %q %q", k.Namespace(), k.Method(), k.Item())
	}
}
