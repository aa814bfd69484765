package codec

import "unicode/utf8"

// Bytes is an identity codec for []byte values. Encode/Decode return the
// input unchanged. Useful when the payload is already a raw byte slice
// and you only need recframe's framing and checksum validation.
//
// Decode returns a slice aliasing its input.
type Bytes struct{}

var _ Codec[[]byte] = Bytes{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String is a codec for UTF-8 string values. Both directions reject text
// that is not valid UTF-8 with ErrInvalidUTF8, so anything Encode accepts
// decodes back unchanged.
type String struct{}

var _ Codec[string] = String{}

func (String) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	return []byte(s), nil
}

func (String) Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
