package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/recframe/provider"
)

// Provider keeps framed records in a dgraph-io/ristretto cache.
// Writes go through ristretto's admission buffers; call Wait to make them
// visible to Get.
type Provider struct {
	c           *rc.Cache
	costByBytes bool
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	MaxCost     int64 // required
	NumCounters int64 // 0 => 10 * MaxCost, capped at 1e7
	BufferItems int64 // 0 => 64
	Metrics     bool

	// CostByBytes charges each entry its frame length instead of the
	// caller-supplied cost, so MaxCost becomes a byte budget.
	CostByBytes bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.MaxCost <= 0 {
		return nil, errors.New("ristretto: MaxCost must be positive")
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = min(cfg.MaxCost*10, 1e7)
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        cfg.BufferItems,
		Metrics:            cfg.Metrics,
		IgnoreInternalCost: cfg.CostByBytes,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c, costByBytes: cfg.CostByBytes}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		// only this adapter writes here; anything else is foreign
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set returns ok=false when the admission policy drops the write.
// ttl <= 0 stores without expiry.
func (p *Provider) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	if p.costByBytes {
		cost = int64(len(value))
	}
	return p.c.SetWithTTL(key, value, cost, max(ttl, 0)), nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

// Wait blocks until buffered writes have been applied.
func (p *Provider) Wait() { p.c.Wait() }

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto counters; nil unless Config.Metrics is set.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
