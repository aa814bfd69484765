package ristretto

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error without MaxCost")
	}
}

func TestCostByBytes(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{MaxCost: 1 << 20, CostByBytes: true, Metrics: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close(ctx)

	if ok, _ := p.Set(ctx, "k", make([]byte, 100), 1, 0); !ok {
		t.Fatalf("Set rejected")
	}
	p.Wait()
	if got := p.Metrics().CostAdded(); got != 100 {
		t.Fatalf("cost added %d, want 100", got)
	}
}

func TestGetSetDel(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64, Metrics: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close(ctx)

	in := []byte("frame-bytes")
	ok, err := p.Set(ctx, "k", in, int64(len(in)), time.Minute)
	if err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	p.Wait()

	got, ok, err := p.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, in) {
		t.Fatalf("Get: %q ok=%v err=%v", got, ok, err)
	}
	if p.Metrics() == nil {
		t.Fatalf("metrics requested but nil")
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestUnexpectedShapeIsDropped(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{MaxCost: 1 << 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close(ctx)

	p.c.Set("odd", 42, 1)
	p.Wait()
	if _, ok, err := p.Get(ctx, "odd"); ok || err != nil {
		t.Fatalf("non-byte entry should read as a miss, ok=%v err=%v", ok, err)
	}
}
