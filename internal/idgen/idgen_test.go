package idgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDv7(t *testing.T) {
	gen := UUIDv7()
	a, b := gen(), gen()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("parse uuid: %v", err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected version 7, got %d", parsed.Version())
	}
}

func TestPrefixedAndSequence(t *testing.T) {
	gen := Prefixed("snap_", Sequence("s"))
	if got := gen(); got != "snap_s-1" {
		t.Fatalf("unexpected first id: %s", got)
	}
	if got := gen(); got != "snap_s-2" {
		t.Fatalf("unexpected second id: %s", got)
	}
	if !strings.HasPrefix(Prefixed("lst_", UUIDv7())(), "lst_") {
		t.Fatal("expected prefix")
	}
}
