// Package wire owns the byte-exact record header layout.
//
//	checksum(u32 be) | length(u32 be) | payload(length)
//
// The checksum covers the payload bytes only. Nothing here validates the
// checksum or interprets the payload; that is the framer's job.
package wire

import (
	"encoding/binary"
	"math"
)

const (
	// HeaderSize is the fixed encoded size of a record header.
	HeaderSize = 4 + 4

	// MaxLength is the largest payload length the header can express.
	MaxLength = math.MaxUint32

	offChecksum = 0
	offLength   = 4
)

// Header is the decoded form of the fixed record prefix.
type Header struct {
	Checksum uint32
	Length   uint32
}

// Size returns the full framed size (header + payload) described by h.
func (h Header) Size() uint64 { return HeaderSize + uint64(h.Length) }

// PutHeader writes h into b[:HeaderSize]. It panics if b is too short, as
// encoding/binary does; callers size their buffers from HeaderSize.
func PutHeader(b []byte, h Header) {
	_ = b[HeaderSize-1]
	binary.BigEndian.PutUint32(b[offChecksum:], h.Checksum)
	binary.BigEndian.PutUint32(b[offLength:], h.Length)
}

// AppendHeader appends the encoded header to dst.
func AppendHeader(dst []byte, h Header) []byte {
	dst = binary.BigEndian.AppendUint32(dst, h.Checksum)
	return binary.BigEndian.AppendUint32(dst, h.Length)
}

// ParseHeader decodes the header at the start of b. ok is false when b holds
// fewer than HeaderSize bytes.
func ParseHeader(b []byte) (h Header, ok bool) {
	if len(b) < HeaderSize {
		return Header{}, false
	}
	h.Checksum = binary.BigEndian.Uint32(b[offChecksum:])
	h.Length = binary.BigEndian.Uint32(b[offLength:])
	return h, true
}

// Payload returns the payload region described by h, zero-copy into b.
// ok is false when b does not hold the complete frame.
func Payload(b []byte, h Header) (p []byte, ok bool) {
	if uint64(len(b)) < h.Size() {
		return nil, false
	}
	end := HeaderSize + int(h.Length)
	return b[HeaderSize:end:end], true
}
