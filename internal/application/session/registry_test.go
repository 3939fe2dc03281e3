package session

import (
	"fmt"
	"testing"
	"time"
)

func newTestRegistry(ttl time.Duration) *Registry {
	r := NewRegistry(2, time.Hour, ttl)
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("sess-%d", n)
	}
	return r
}

func TestRegistryGetCreatesAndReuses(t *testing.T) {
	r := newTestRegistry(time.Hour)
	now := time.Unix(0, 0)

	first := r.Get("", now)
	if first.ID() != "sess-1" {
		t.Fatalf("ID() = %q", first.ID())
	}
	if again := r.Get("sess-1", now); again != first {
		t.Fatal("expected the same session for a known id")
	}
	if other := r.Get("unknown", now); other == first || other.ID() != "sess-2" {
		t.Fatalf("unknown id should start a new session, got %q", other.ID())
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistrySessionsHaveIndependentLimits(t *testing.T) {
	r := newTestRegistry(time.Hour)
	now := time.Unix(0, 0)

	a := r.Get("", now)
	b := r.Get("", now)
	for i := 0; i < 2; i++ {
		res, err := a.Reserve(now)
		if err != nil {
			t.Fatal(err)
		}
		res.Commit()
	}
	if _, err := a.Reserve(now); err == nil {
		t.Fatal("session a should be exhausted")
	}
	if got := b.Remaining(now); got != 2 {
		t.Fatalf("session b Remaining() = %d, want 2", got)
	}
}

func TestRegistrySweep(t *testing.T) {
	r := newTestRegistry(time.Minute)
	start := time.Unix(0, 0)

	r.Get("", start)
	kept := r.Get("", start)
	r.Get(kept.ID(), start.Add(50*time.Second))

	if removed := r.Sweep(start.Add(90 * time.Second)); removed != 1 {
		t.Fatalf("Sweep() removed %d, want 1", removed)
	}
	if _, ok := r.Lookup("sess-1"); ok {
		t.Fatal("idle session should be gone")
	}
	if _, ok := r.Lookup(kept.ID()); !ok {
		t.Fatal("recently seen session should survive")
	}
}

func TestRegistrySweepWithoutTTL(t *testing.T) {
	r := newTestRegistry(0)
	r.Get("", time.Unix(0, 0))
	if removed := r.Sweep(time.Unix(1<<30, 0)); removed != 0 {
		t.Fatalf("Sweep() removed %d with no TTL", removed)
	}
}
