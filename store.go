package recframe

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/recframe/internal/util"
	pr "github.com/unkn0wn-root/recframe/provider"
)

type store[V any] struct {
	ns             string
	provider       pr.Provider
	framer         *Framer[V]
	log            Logger
	hooks          Hooks
	enabled        bool
	defaultTTL     time.Duration
	computeSetCost SetCostFunc
}

func newStore[V any](opts StoreOptions[V]) (*store[V], error) {
	if opts.Provider == nil {
		return nil, errors.New("recframe: provider is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("recframe: codec is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("recframe: namespace is required")
	}

	f, err := NewFramer(FramerOptions[V]{
		Codec:      opts.Codec,
		Checksum:   opts.Checksum,
		MaxPayload: opts.MaxPayload,
	})
	if err != nil {
		return nil, err
	}

	s := &store[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		framer:   f,
		enabled:  !opts.Disabled,
	}

	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)

	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = func(string, []byte) int64 { return 1 }
	}
	return s, nil
}

func (s *store[V]) Enabled() bool { return s.enabled }

func (s *store[V]) Close(ctx context.Context) error {
	return s.provider.Close(ctx)
}

func (s *store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if !s.enabled {
		return zero, false, nil
	}
	k := s.storageKey(key)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	rec, n, err := s.framer.Read(raw)
	if err != nil {
		s.selfHeal(ctx, k, reason(err), err)
		return zero, false, nil
	}
	if n != len(raw) {
		// one entry holds exactly one frame; anything after it is foreign
		s.selfHeal(ctx, k, "trailing", nil)
		return zero, false, nil
	}
	return rec.Payload, true, nil
}

// Set frames value and hands it to the provider. Framing errors
// (*EncodingError, *RecordTooLargeError) are returned before the provider
// is touched.
func (s *store[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	frame, err := s.framer.Write(value)
	if err != nil {
		return err
	}
	k := s.storageKey(key)
	ok, err := s.provider.Set(ctx, k, frame, s.computeSetCost(k, frame), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.hooks.ProviderSetRejected(k)
		s.log.Debug("Set rejected by provider (pressure)", Fields{"key": key})
	}
	return nil
}

func (s *store[V]) Delete(ctx context.Context, key string) error {
	if !s.enabled {
		return nil
	}
	return s.provider.Del(ctx, s.storageKey(key))
}

func (s *store[V]) selfHeal(ctx context.Context, storageKey, why string, cause error) {
	f := Fields{"key": storageKey, "reason": why}
	if cause != nil {
		f["err"] = cause
	}
	if err := s.provider.Del(ctx, storageKey); err != nil {
		f["del_err"] = err
	}
	s.hooks.SelfHeal(storageKey, why)
	s.log.Warn("dropped unverifiable entry", f)
}

func (s *store[V]) storageKey(userKey string) string {
	return util.StorageKey("rec:"+s.ns, userKey)
}
