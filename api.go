package recframe

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/recframe/codec"
	pr "github.com/unkn0wn-root/recframe/provider"
)

type SetCostFunc func(storageKey string, frame []byte) int64

// Store persists values as verified frames in a byte Provider.
// Every read re-checks the frame; entries that fail verification are deleted
// and reported as misses, so a damaged entry is never decoded.
type Store[V any] interface {
	Enabled() bool
	Close(context.Context) error

	Get(ctx context.Context, key string) (v V, ok bool, err error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StoreOptions tune a Store. Namespace, Provider and Codec are required;
// others have sensible defaults.
type StoreOptions[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "user", "session"
	Provider  pr.Provider
	Codec     c.Codec[V]

	Checksum       Checksum      // nil => CRC32IEEE
	MaxPayload     uint64        // 0 => MaxPayloadSize
	Logger         Logger        // nil => NopLogger
	Hooks          Hooks         // nil => NopHooks
	DefaultTTL     time.Duration // 0 => 10m
	ComputeSetCost SetCostFunc   // default 1
	Disabled       bool          // default false (enabled)
}

func NewStore[V any](opts StoreOptions[V]) (Store[V], error) {
	return newStore[V](opts)
}
