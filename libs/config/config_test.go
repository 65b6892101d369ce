package config

import (
	"testing"
	"time"
)

func TestPort(t *testing.T) {
	t.Setenv("TEST_PORT", "70000")
	if _, err := Port("TEST_PORT", "8080"); err == nil {
		t.Fatal("expected error for out of range port")
	}
	t.Setenv("TEST_PORT", "")
	p, err := Port("TEST_PORT", "8080")
	if err != nil || p != "8080" {
		t.Fatalf("expected fallback 8080, got %q (%v)", p, err)
	}
}

func TestIntAndFloat(t *testing.T) {
	t.Setenv("TEST_INT", "30")
	n, err := Int("TEST_INT", 15)
	if err != nil || n != 30 {
		t.Fatalf("expected 30, got %d (%v)", n, err)
	}
	t.Setenv("TEST_INT", "thirty")
	if _, err := Int("TEST_INT", 15); err == nil {
		t.Fatal("expected error for non-integer")
	}

	t.Setenv("TEST_FLOAT", "")
	f, err := Float("TEST_FLOAT", 100)
	if err != nil || f != 100 {
		t.Fatalf("expected fallback 100, got %v (%v)", f, err)
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("TEST_TTL", "90m")
	d, err := Duration("TEST_TTL", time.Hour)
	if err != nil || d != 90*time.Minute {
		t.Fatalf("expected 90m, got %v (%v)", d, err)
	}
	t.Setenv("TEST_TTL", "-1s")
	if _, err := Duration("TEST_TTL", time.Hour); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestList(t *testing.T) {
	t.Setenv("TEST_LIST", " https://a.example , ,https://b.example")
	got := List("TEST_LIST", "*")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected list: %#v", got)
	}
}
