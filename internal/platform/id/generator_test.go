package id

import (
	"strings"
	"testing"
)

func TestRandomGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewRandomGenerator()

	first, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	if len(first) != 32 {
		t.Fatalf("NewID() length = %d, want 32", len(first))
	}

	second, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	if first == second {
		t.Fatalf("NewID() returned duplicate value %q", first)
	}
}

func TestNewPrefixedID(t *testing.T) {
	t.Parallel()

	got, err := NewPrefixedID(NewRandomGenerator(), "cyc")
	if err != nil {
		t.Fatalf("NewPrefixedID() error = %v", err)
	}
	if !strings.HasPrefix(got, "cyc_") {
		t.Fatalf("NewPrefixedID() = %q, want cyc_ prefix", got)
	}
	if len(got) != len("cyc_")+32 {
		t.Fatalf("NewPrefixedID() length = %d, want %d", len(got), len("cyc_")+32)
	}
}

func TestNewPrefixedID_NilGeneratorFallsBack(t *testing.T) {
	t.Parallel()

	got, err := NewPrefixedID(nil, "")
	if err != nil {
		t.Fatalf("NewPrefixedID() error = %v", err)
	}
	if len(got) != 32 {
		t.Fatalf("NewPrefixedID() length = %d, want 32", len(got))
	}
}
