package recframe

import "hash/crc32"

// Checksum computes the integrity value stored in a record header.
// Implementations must be pure: the same bytes always give the same value,
// and concurrent calls must not interfere.
type Checksum interface {
	Sum32(p []byte) uint32
}

// ChecksumFunc adapts a plain function to Checksum.
type ChecksumFunc func(p []byte) uint32

func (f ChecksumFunc) Sum32(p []byte) uint32 { return f(p) }

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var (
	// CRC32IEEE is the default checksum (the polynomial used by zlib, gzip and PNG).
	CRC32IEEE Checksum = ChecksumFunc(crc32.ChecksumIEEE)

	// CRC32C uses the Castagnoli polynomial, hardware accelerated on amd64 and arm64.
	CRC32C Checksum = ChecksumFunc(func(p []byte) uint32 { return crc32.Checksum(p, castagnoli) })
)
