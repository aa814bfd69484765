package util

import (
	"strings"
	"testing"
)

func TestStorageKeyShortVerbatim(t *testing.T) {
	if got := StorageKey("rec:user", "u:1"); got != "rec:user:u:1" {
		t.Fatalf("got %q", got)
	}
	edge := strings.Repeat("k", MaxKeyLen)
	if got := StorageKey("p", edge); got != "p:"+edge {
		t.Fatalf("boundary key must stay verbatim")
	}
}

func TestStorageKeyLongHashed(t *testing.T) {
	long := strings.Repeat("k", MaxKeyLen+1)
	got := StorageKey("p", long)
	if !strings.HasPrefix(got, "p:#") || len(got) != len("p:#")+64 {
		t.Fatalf("unexpected hashed key %q", got)
	}
	if StorageKey("p", long) != got {
		t.Fatalf("hashing not deterministic")
	}
	if StorageKey("p", long+"x") == got {
		t.Fatalf("distinct keys collided")
	}
}
