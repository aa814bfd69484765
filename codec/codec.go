// Package codec defines the payload codec contract used by recframe and a set
// of ready-made codecs.
//
// A codec turns a value V into bytes and back. Every codec in this package is
// deterministic: encoding the same logical value twice yields identical bytes,
// which keeps checksums stable across writes. Decode accepts exactly what
// Encode produces.
package codec

import "errors"

// Codec encodes/decodes values V to []byte for framing.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

var (
	// ErrLimitExceeded is returned by Limit when a payload is larger than the
	// configured bound.
	ErrLimitExceeded = errors.New("codec: size limit exceeded")

	// ErrInvalidUTF8 is returned by String for text that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("codec: invalid utf-8")
)
