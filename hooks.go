package recframe

// Hooks are lightweight callbacks for high-signal integrity events raised by
// the layers that own a byte stream (Store, Scanner, segment files).
// Implementations MUST be cheap and non-blocking; wrap slow sinks with
// hooks/async.
type Hooks interface {
	// A stored entry failed verification on read and was deleted.
	// reason ∈ {"truncated", "checksum", "too_large", "trailing", "value_decode"}
	SelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// A scanner running with OnCorrupt=Skip stepped over bad bytes.
	// offset is where the skipped region starts; n is its length in bytes.
	RecordSkipped(offset int64, n int, reason string)

	// A torn trailing record was cut off a segment file during recovery.
	TailTruncated(path string, offset int64, dropped int64)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)            {}
func (NopHooks) ProviderSetRejected(string)         {}
func (NopHooks) RecordSkipped(int64, int, string)   {}
func (NopHooks) TailTruncated(string, int64, int64) {}
