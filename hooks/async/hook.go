// Package asynchook moves Hooks callbacks off the hot path.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{SkipEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	sc := recframe.NewScanner(r, framer, recframe.ScanOptions{
//	    OnCorrupt: recframe.Skip,
//	    Hooks:     hooks,
//	})
//
// Events that arrive while the queue is full are dropped and counted.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/recframe"
)

type Hooks struct {
	inner   recframe.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against sends racing Close
	closed  bool
	dropped atomic.Uint64
}

var _ recframe.Hooks = (*Hooks)(nil)

func New(inner recframe.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = recframe.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Later events are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) SelfHeal(k, r string)         { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) ProviderSetRejected(k string) { h.try(func() { h.inner.ProviderSetRejected(k) }) }
func (h *Hooks) RecordSkipped(off int64, n int, r string) {
	h.try(func() { h.inner.RecordSkipped(off, n, r) })
}
func (h *Hooks) TailTruncated(path string, off, dropped int64) {
	h.try(func() { h.inner.TailTruncated(path, off, dropped) })
}
