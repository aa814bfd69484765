// Package recframe frames arbitrary values as checksummed, length-prefixed
// records so they can be stored in byte-oriented media (files, caches,
// sockets) and read back with corruption detected.
//
// Layout of one record, all integers big-endian:
//
//	checksum(u32) | length(u32) | payload(length bytes)
//
// The checksum (CRC32 IEEE by default) covers the payload only. Records are
// self-delimiting and may be concatenated with no separator.
//
// Components:
//   - Framer[T]: stateless Write/Read of single records through a codec.Codec[T].
//   - Writer[T] / Scanner[T]: sequential framing over io.Writer / io.Reader, with
//     a Halt or Skip policy for damaged records.
//   - Store[V]: values kept as verified frames in a provider.Provider; entries
//     that fail verification are deleted on read.
//   - segment: append-only record files with torn-tail repair.
//
// Example:
//
//	f := recframe.MustFramer(recframe.FramerOptions[string]{Codec: codec.String{}})
//	b, _ := f.Write("hello")       // 13 bytes
//	rec, n, err := f.Read(b)       // rec.Payload == "hello", n == 13
//
// Reads never trust the length field further than MaxPayload; set it when the
// input comes from outside the process.
package recframe
