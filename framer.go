package recframe

import (
	"errors"

	c "github.com/unkn0wn-root/recframe/codec"
	"github.com/unkn0wn-root/recframe/internal/wire"
)

// FramerOptions configure a Framer. Only Codec is required.
type FramerOptions[T any] struct {
	Codec c.Codec[T]

	Checksum   Checksum // nil => CRC32IEEE
	MaxPayload uint64   // 0 or > MaxPayloadSize => MaxPayloadSize
}

// Framer turns values into framed records and back.
//
// A Framer is immutable after construction and holds no per-call state, so
// one instance may be shared by any number of goroutines.
type Framer[T any] struct {
	codec c.Codec[T]
	sum   Checksum
	max   uint64
}

func NewFramer[T any](opts FramerOptions[T]) (*Framer[T], error) {
	if opts.Codec == nil {
		return nil, errors.New("recframe: codec is required")
	}
	f := &Framer[T]{
		codec: opts.Codec,
		sum:   coalesce[Checksum](opts.Checksum, CRC32IEEE),
		max:   opts.MaxPayload,
	}
	if f.max == 0 || f.max > MaxPayloadSize {
		f.max = MaxPayloadSize
	}
	return f, nil
}

// MustFramer is like NewFramer but panics on error.
func MustFramer[T any](opts FramerOptions[T]) *Framer[T] {
	f, err := NewFramer(opts)
	if err != nil {
		panic(err)
	}
	return f
}

// MaxPayload returns the effective payload size limit.
func (f *Framer[T]) MaxPayload() uint64 { return f.max }

// Write encodes v and returns header ++ payload.
func (f *Framer[T]) Write(v T) ([]byte, error) {
	return f.Append(nil, v)
}

// Append encodes v and appends the framed record to dst. On error dst is
// returned unchanged.
func (f *Framer[T]) Append(dst []byte, v T) ([]byte, error) {
	payload, err := f.codec.Encode(v)
	if err != nil {
		return dst, &EncodingError{Err: err}
	}
	return f.appendFrame(dst, payload)
}

// Frame wraps already-encoded payload bytes in a header.
func (f *Framer[T]) Frame(payload []byte) ([]byte, error) {
	return f.appendFrame(nil, payload)
}

func (f *Framer[T]) appendFrame(dst, payload []byte) ([]byte, error) {
	// uint64 conversion is exact on every platform; no wraparound into the u32 field
	if n := uint64(len(payload)); n > f.max {
		return dst, &RecordTooLargeError{Size: n, Max: f.max}
	}
	h := wire.Header{Checksum: f.sum.Sum32(payload), Length: uint32(len(payload))}
	if dst == nil {
		out := make([]byte, HeaderSize+len(payload))
		wire.PutHeader(out, h)
		copy(out[HeaderSize:], payload)
		return out, nil
	}
	dst = wire.AppendHeader(dst, h)
	return append(dst, payload...), nil
}

// Read parses and verifies the record at the start of b and decodes its
// payload. It returns the record and the number of bytes consumed, which is
// always HeaderSize+Length; trailing bytes are left for the caller.
//
// The payload is handed to the codec only after the checksum matches.
func (f *Framer[T]) Read(b []byte) (Record[T], int, error) {
	var rec Record[T]
	h, payload, n, err := f.Unframe(b)
	if err != nil {
		return rec, 0, err
	}
	v, err := f.codec.Decode(payload)
	if err != nil {
		return rec, 0, &DecodingError{Err: err}
	}
	rec.Header = h
	rec.Payload = v
	return rec, n, nil
}

// Unframe verifies the record at the start of b and returns its header, the
// payload bytes (aliasing b) and the bytes consumed. No decoding happens.
func (f *Framer[T]) Unframe(b []byte) (RecordHeader, []byte, int, error) {
	h, ok := wire.ParseHeader(b)
	if !ok {
		return RecordHeader{}, nil, 0, &TruncatedHeaderError{Have: len(b)}
	}
	if uint64(h.Length) > f.max {
		return RecordHeader{}, nil, 0, &RecordTooLargeError{Size: uint64(h.Length), Max: f.max}
	}
	payload, ok := wire.Payload(b, h)
	if !ok {
		return RecordHeader{}, nil, 0, &TruncatedPayloadError{Length: h.Length, Have: len(b) - HeaderSize}
	}
	if sum := f.sum.Sum32(payload); sum != h.Checksum {
		return RecordHeader{}, nil, 0, &ChecksumMismatchError{Stored: h.Checksum, Computed: sum}
	}
	return RecordHeader(h), payload, HeaderSize + len(payload), nil
}
