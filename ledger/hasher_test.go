package ledger

import (
	"bytes"
	"errors"
	"testing"
)

// TestHashers verifies every registered hasher is deterministic, produces a
// 256-bit digest and differs from the others.
func TestHashers(t *testing.T) {
	data := []byte("ledger")
	seen := map[string]string{}
	for name := range hashers {
		h, err := HasherByName(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.Name() != name {
			t.Fatalf("hasher registered as %s reports %s", name, h.Name())
		}
		sum := h.Sum(data)
		if len(sum) != DigestSize {
			t.Fatalf("%s: expected %d bytes, got %d", name, DigestSize, len(sum))
		}
		if !bytes.Equal(sum, h.Sum(data)) {
			t.Fatalf("%s is not deterministic", name)
		}
		if other, dup := seen[string(sum)]; dup {
			t.Fatalf("%s and %s produce the same digest", name, other)
		}
		seen[string(sum)] = name
	}
}

func TestHasherByNameUnknown(t *testing.T) {
	if _, err := HasherByName("md5"); !errors.Is(err, ErrUnknownHasher) {
		t.Fatalf("expected ErrUnknownHasher, got %v", err)
	}
}

// TestCodecsCanonical verifies that map payloads encode identically regardless
// of insertion order.
func TestCodecsCanonical(t *testing.T) {
	a := map[string]interface{}{"to": "Bob", "from": "Alice", "amount": 75}
	b := map[string]interface{}{"amount": 75, "from": "Alice", "to": "Bob"}

	for name := range codecs {
		c, err := CodecByName(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := 0; i < 10; i++ {
			x, err := c.Marshal(a)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			y, err := c.Marshal(b)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			if !bytes.Equal(x, y) {
				t.Fatalf("%s: encoding depends on map order", name)
			}
		}
	}

	out, err := JSON.Marshal(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"amount":75,"from":"Alice","to":"Bob"}` {
		t.Fatalf("unexpected JSON encoding %s", out)
	}
}

func TestCodecByNameUnknown(t *testing.T) {
	if _, err := CodecByName("xml"); !errors.Is(err, ErrUnknownCodec) {
		t.Fatalf("expected ErrUnknownCodec, got %v", err)
	}
}
