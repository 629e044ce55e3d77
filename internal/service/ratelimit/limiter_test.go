package ratelimit

import (
	"testing"
	"time"
)

func TestAllowExhaustsBurst(t *testing.T) {
	l := New(3, 0.001) // effectively no refill during the test
	defer l.Close()
	for i := 0; i < 3; i++ {
		if !l.Allow("client") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if l.Allow("client") {
		t.Error("request allowed past burst capacity")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New(1, 0.001)
	defer l.Close()
	if !l.Allow("a") {
		t.Fatal("first request for a denied")
	}
	if l.Allow("a") {
		t.Error("a should be exhausted")
	}
	if !l.Allow("b") {
		t.Error("b should have its own bucket")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New(1, 100) // 100 tokens/sec
	defer l.Close()
	if !l.Allow("k") {
		t.Fatal("first request denied")
	}
	if l.Allow("k") {
		t.Fatal("bucket should be empty")
	}
	time.Sleep(50 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("bucket did not refill")
	}
}

func TestPruneDropsIdleBuckets(t *testing.T) {
	l := New(1, 1000)
	defer l.Close()
	l.Allow("stale")

	time.Sleep(20 * time.Millisecond)
	l.Prune(time.Nanosecond)
	l.Allow("fresh")
	l.Prune(time.Minute)

	l.mu.Lock()
	_, stale := l.buckets["stale"]
	_, fresh := l.buckets["fresh"]
	l.mu.Unlock()
	if stale {
		t.Error("idle bucket survived prune")
	}
	if !fresh {
		t.Error("active bucket was pruned")
	}
}

func TestCloseStopsJanitor(t *testing.T) {
	l := New(1, 1)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	select {
	case <-l.done:
	default:
		t.Error("done channel still open after Close")
	}
	if !l.Allow("k") {
		t.Error("Allow stopped working after Close")
	}
}
