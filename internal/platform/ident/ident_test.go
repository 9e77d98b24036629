package ident

import (
	"encoding/base64"
	"testing"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 32 {
			t.Fatalf("id length %d: %q", len(id), id)
		}
		for _, c := range id {
			if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
				t.Fatalf("non-hex char %q in %q", c, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNewAPIKey(t *testing.T) {
	k := NewAPIKey()
	raw, err := base64.RawURLEncoding.DecodeString(k)
	if err != nil {
		t.Fatalf("not raw url base64: %v", err)
	}
	if len(raw) != 16 {
		t.Fatalf("decoded length %d", len(raw))
	}
	if k == NewAPIKey() {
		t.Fatal("keys should not repeat")
	}
}
