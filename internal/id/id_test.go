package id

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	got, err := New("res")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !strings.HasPrefix(got, "res-") {
		t.Errorf("expected res- prefix, got %q", got)
	}
	// NanoID default length is 21 plus prefix and dash.
	if len(got) != len("res-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		got, err := New("ses")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if seen[got] {
			t.Fatalf("duplicate ID generated: %q", got)
		}
		seen[got] = true
	}
}

func TestMustNew(t *testing.T) {
	got := MustNew("tag")
	if !strings.HasPrefix(got, "tag-") {
		t.Errorf("expected tag- prefix, got %q", got)
	}
}
