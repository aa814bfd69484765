package asynchook

import (
	"sync"
	"testing"

	"github.com/unkn0wn-root/recframe"
)

type countingHooks struct {
	recframe.NopHooks
	mu    sync.Mutex
	skips []int64
	heals int
	gate  chan struct{}
}

func (c *countingHooks) RecordSkipped(off int64, _ int, _ string) {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	c.skips = append(c.skips, off)
	c.mu.Unlock()
}

func (c *countingHooks) SelfHeal(string, string) {
	c.mu.Lock()
	c.heals++
	c.mu.Unlock()
}

func TestAsyncDeliversBeforeClose(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 64)
	for i := 0; i < 10; i++ {
		h.RecordSkipped(int64(i), 1, "checksum")
	}
	h.SelfHeal("rec:user:1", "checksum")
	h.Close()

	if len(inner.skips) != 10 || inner.heals != 1 {
		t.Fatalf("skips=%d heals=%d", len(inner.skips), inner.heals)
	}
	if h.Dropped() != 0 {
		t.Fatalf("unexpected drops %d", h.Dropped())
	}
}

func TestAsyncDropsWhenFull(t *testing.T) {
	inner := &countingHooks{gate: make(chan struct{})}
	h := New(inner, 1, 1)

	// worker blocks on the first event; the second fills the queue
	h.RecordSkipped(0, 1, "x")
	for i := 1; i < 50; i++ {
		h.RecordSkipped(int64(i), 1, "x")
	}
	close(inner.gate)
	h.Close()

	if h.Dropped() == 0 {
		t.Fatalf("expected drops with a saturated queue")
	}
	if got := uint64(len(inner.skips)) + h.Dropped(); got != 50 {
		t.Fatalf("delivered+dropped = %d, want 50", got)
	}
}

func TestAsyncAfterCloseIsSafe(t *testing.T) {
	h := New(nil, 1, 1)
	h.Close()
	h.Close()
	h.TailTruncated("seg.log", 10, 3)
	if h.Dropped() != 1 {
		t.Fatalf("expected post-close event to be dropped, got %d", h.Dropped())
	}
}
