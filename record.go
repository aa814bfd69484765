package recframe

import "github.com/unkn0wn-root/recframe/internal/wire"

const (
	// HeaderSize is the fixed size of the header prefixed to every record:
	// checksum(u32 be) | payload length(u32 be).
	HeaderSize = wire.HeaderSize

	// MaxPayloadSize is the largest payload the length field can describe.
	MaxPayloadSize uint64 = wire.MaxLength
)

// RecordHeader is the metadata stored in front of every payload.
type RecordHeader struct {
	Checksum uint32 // checksum of the payload bytes only
	Length   uint32 // exact payload byte count
}

// Size returns header plus payload length in bytes.
func (h RecordHeader) Size() int64 { return HeaderSize + int64(h.Length) }

// Record pairs a header with its decoded payload. It is a transient value
// produced by a single read; it holds no reference to neighbouring records.
type Record[T any] struct {
	Header  RecordHeader
	Payload T
}

// ParseHeader decodes the header at the start of b without validating the
// payload. It fails with *TruncatedHeaderError when b is shorter than
// HeaderSize.
func ParseHeader(b []byte) (RecordHeader, error) {
	h, ok := wire.ParseHeader(b)
	if !ok {
		return RecordHeader{}, &TruncatedHeaderError{Have: len(b)}
	}
	return RecordHeader(h), nil
}
