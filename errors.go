package recframe

import (
	"errors"
	"fmt"
)

// Category sentinels. Every typed read error matches exactly one of these
// through errors.Is, so callers can branch without type switches.
var (
	// ErrTruncated: not enough bytes for a whole record. Usually a partially
	// written tail; await more data rather than treat as corruption.
	ErrTruncated = errors.New("recframe: truncated record")

	// ErrCorrupt: the payload is complete but fails checksum verification.
	ErrCorrupt = errors.New("recframe: corrupt record")

	// ErrTooLarge: a payload length beyond the configured maximum.
	ErrTooLarge = errors.New("recframe: record too large")
)

// EncodingError wraps a codec failure while encoding a payload.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string { return fmt.Sprintf("recframe: encode payload: %v", e.Err) }
func (e *EncodingError) Unwrap() error { return e.Err }

// RecordTooLargeError is returned by writes whose encoded payload does not
// fit the length field (or the configured maximum), and by reads of headers
// declaring such a length. Writes return it before producing any bytes.
type RecordTooLargeError struct {
	Offset int64 // record start; meaningful on reads only
	Size   uint64
	Max    uint64
}

func (e *RecordTooLargeError) Error() string {
	return fmt.Sprintf("recframe: record at offset %d too large: payload %d > max %d", e.Offset, e.Size, e.Max)
}

func (e *RecordTooLargeError) Is(target error) bool { return target == ErrTooLarge }

// TruncatedHeaderError: fewer than HeaderSize bytes were available.
type TruncatedHeaderError struct {
	Offset int64
	Have   int
}

func (e *TruncatedHeaderError) Error() string {
	return fmt.Sprintf("recframe: truncated header at offset %d: have %d of %d bytes", e.Offset, e.Have, HeaderSize)
}

func (e *TruncatedHeaderError) Is(target error) bool { return target == ErrTruncated }

// TruncatedPayloadError: the header parsed but fewer than Length payload
// bytes follow it.
type TruncatedPayloadError struct {
	Offset int64
	Length uint32
	Have   int
}

func (e *TruncatedPayloadError) Error() string {
	return fmt.Sprintf("recframe: truncated payload at offset %d: have %d of %d bytes", e.Offset, e.Have, e.Length)
}

func (e *TruncatedPayloadError) Is(target error) bool { return target == ErrTruncated }

// ChecksumMismatchError reports a complete record whose payload does not
// match the stored checksum.
type ChecksumMismatchError struct {
	Offset   int64
	Stored   uint32
	Computed uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("recframe: checksum mismatch at offset %d: stored %08x, computed %08x", e.Offset, e.Stored, e.Computed)
}

func (e *ChecksumMismatchError) Is(target error) bool { return target == ErrCorrupt }

// DecodingError wraps a codec failure on bytes that already passed the
// checksum. It points at a codec or version mismatch, not at corruption.
type DecodingError struct {
	Offset int64
	Err    error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("recframe: decode payload at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// WithOffset returns a copy of err with its record offset shifted by base.
// Framer.Read reports offsets relative to the slice it was given; stream and
// file readers use this to turn them into absolute positions. Errors that
// carry no offset are returned unchanged.
func WithOffset(err error, base int64) error {
	if err == nil || base == 0 {
		return err
	}
	var (
		th *TruncatedHeaderError
		tp *TruncatedPayloadError
		cm *ChecksumMismatchError
		tl *RecordTooLargeError
		de *DecodingError
	)
	switch {
	case errors.As(err, &th):
		c := *th
		c.Offset += base
		return &c
	case errors.As(err, &tp):
		c := *tp
		c.Offset += base
		return &c
	case errors.As(err, &cm):
		c := *cm
		c.Offset += base
		return &c
	case errors.As(err, &tl):
		c := *tl
		c.Offset += base
		return &c
	case errors.As(err, &de):
		c := *de
		c.Offset += base
		return &c
	}
	return err
}

// reason maps a read error to a short stable label used in logs and hooks.
func reason(err error) string {
	var de *DecodingError
	switch {
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrCorrupt):
		return "checksum"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.As(err, &de):
		return "value_decode"
	default:
		return "unknown"
	}
}
