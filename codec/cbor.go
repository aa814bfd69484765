package codec

import "github.com/fxamacker/cbor/v2"

// CBOR encodes values with fxamacker/cbor. Build it with NewCBOR or MustCBOR;
// the zero value has no modes and panics on use.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

// NewCBOR returns a CBOR codec. deterministic selects RFC 8949 Core
// Deterministic encoding (sorted map keys, shortest numeric forms), which
// keeps checksums of equal values equal even for Go maps. Without it the
// preferred unsorted options are used and map-bearing values may encode
// differently from call to call.
//
// Times are written as RFC 3339 strings with nanoseconds. Input carrying
// duplicate map keys is rejected.
func NewCBOR[V any](deterministic bool) (CBOR[V], error) {
	eo := cbor.PreferredUnsortedEncOptions()
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	var (
		out CBOR[V]
		err error
	)
	if out.enc, err = eo.EncMode(); err != nil {
		return CBOR[V]{}, err
	}
	do := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}
	if out.dec, err = do.DecMode(); err != nil {
		return CBOR[V]{}, err
	}
	return out, nil
}

// MustCBOR is NewCBOR for package-level vars; it panics on error.
func MustCBOR[V any](deterministic bool) CBOR[V] {
	c, err := NewCBOR[V](deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) { return c.enc.Marshal(v) }

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	if err := c.dec.Unmarshal(b, &v); err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}
