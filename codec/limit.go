package codec

import "fmt"

// Limit wraps another codec to enforce size bounds on payloads.
// MaxEncode caps the encoded size produced by Inner; MaxDecode caps the input
// accepted by Decode before Inner sees it. A bound <= 0 disables that check.
//
// Typical use: keep records well below the frame length limit, or protect
// readers against oversized inputs coming from an untrusted source.
type Limit[V any] struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec[V]

	MaxEncode int
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if c.MaxEncode > 0 && len(b) > c.MaxEncode {
		return nil, fmt.Errorf("%w: encoded payload %d > max_encode %d", ErrLimitExceeded, len(b), c.MaxEncode)
	}
	return b, nil
}

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: payload %d > max_decode %d", ErrLimitExceeded, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
