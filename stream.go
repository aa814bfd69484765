package recframe

import (
	"errors"
	"fmt"
	"io"

	"github.com/unkn0wn-root/recframe/internal/wire"
)

// CorruptPolicy decides what a Scanner does with a record that fails
// verification.
type CorruptPolicy int

const (
	// Halt stops the scan and reports the error through Err.
	Halt CorruptPolicy = iota
	// Skip steps over the bad bytes and resynchronises on the next record
	// that verifies. Skipped regions are reported to Hooks and Logger.
	Skip
)

func (p CorruptPolicy) String() string {
	switch p {
	case Halt:
		return "halt"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("CorruptPolicy(%d)", int(p))
	}
}

// Writer frames values onto a byte sink. Flushing and durability belong to
// the sink. A Writer is not safe for concurrent use.
type Writer[T any] struct {
	w   io.Writer
	f   *Framer[T]
	off int64
	buf []byte
}

// NewWriter returns a Writer whose first record lands at offset.
func NewWriter[T any](w io.Writer, f *Framer[T], offset int64) *Writer[T] {
	return &Writer[T]{w: w, f: f, off: offset}
}

// Write frames v and writes it in a single call to the sink. It returns the
// offset at which the record starts. Framing errors are returned before
// anything reaches the sink.
func (w *Writer[T]) Write(v T) (int64, error) {
	b, err := w.f.Append(w.buf[:0], v)
	if err != nil {
		return 0, err
	}
	start := w.off
	n, err := w.w.Write(b)
	w.off += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if cap(b) <= defaultScanBuffer {
		w.buf = b[:0]
	}
	return start, err
}

// Offset is the position the next record will be written at.
func (w *Writer[T]) Offset() int64 { return w.off }

// ScanOptions tune a Scanner. The zero value halts on the first bad record.
type ScanOptions struct {
	OnCorrupt   CorruptPolicy
	StartOffset int64 // absolute offset of the reader's first byte
	BufferSize  int   // read chunk; 0 => 64KiB

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// Scanner reads framed records sequentially from a byte source.
//
//	sc := recframe.NewScanner(r, framer, recframe.ScanOptions{})
//	for sc.Next() {
//	    use(sc.Offset(), sc.Record().Payload)
//	}
//	if err := sc.Err(); errors.Is(err, recframe.ErrTruncated) {
//	    // partial tail record: wait for more data or repair
//	}
//
// A clean end of input at a record boundary leaves Err nil. Memory use is
// bounded by the largest record plus the read chunk; set FramerOptions.MaxPayload
// when reading untrusted input, since a damaged length field otherwise makes
// the scanner buffer up to the end of the stream looking for the payload.
//
// Payloads from codecs that alias their input (codec.Bytes) point into the
// scanner's buffer and are only valid until the next call to Next.
type Scanner[T any] struct {
	r     io.Reader
	f     *Framer[T]
	opts  ScanOptions
	log   Logger
	hooks Hooks
	chunk int

	buf        []byte
	start, end int   // unconsumed bytes are buf[start:end]
	base       int64 // absolute offset of buf[start]
	eof        bool

	rec    Record[T]
	recOff int64
	err    error
	done   bool

	// pending run of skipped bytes
	skipOff    int64
	skipN      int
	skipReason string
}

const maxConsecutiveEmptyReads = 100

func NewScanner[T any](r io.Reader, f *Framer[T], opts ScanOptions) *Scanner[T] {
	s := &Scanner[T]{
		r:     r,
		f:     f,
		opts:  opts,
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
		chunk: coalesce(opts.BufferSize, defaultScanBuffer),
		base:  opts.StartOffset,
	}
	if s.chunk < HeaderSize {
		s.chunk = HeaderSize
	}
	return s
}

// Next advances to the next valid record. It returns false at the end of
// input or on an error; check Err to tell them apart.
func (s *Scanner[T]) Next() bool {
	if s.done {
		return false
	}
	for {
		avail := s.buf[s.start:s.end]
		rec, n, err := s.f.Read(avail)
		if err == nil {
			s.flushSkip()
			s.rec, s.recOff = rec, s.base
			s.advance(n)
			return true
		}

		truncated := errors.Is(err, ErrTruncated)
		if truncated && !s.eof {
			if ferr := s.fill(); ferr != nil {
				s.flushSkip()
				s.fail(ferr)
				return false
			}
			continue
		}
		if truncated && len(avail) == 0 {
			s.flushSkip()
			s.done = true
			return false
		}
		// Partial tail at EOF: only swallowed while already resynchronising.
		if truncated && s.skipN == 0 {
			s.fail(WithOffset(err, s.base))
			return false
		}

		if s.opts.OnCorrupt != Skip {
			s.flushSkip()
			s.fail(WithOffset(err, s.base))
			return false
		}

		var de *DecodingError
		if errors.As(err, &de) {
			// intact frame the codec cannot read: drop it whole
			h, _ := wire.ParseHeader(avail)
			s.flushSkip()
			s.skip(int(h.Size()), reason(err))
			s.flushSkip()
			continue
		}
		s.skip(1, reason(err))
	}
}

// Record returns the record produced by the last successful Next.
func (s *Scanner[T]) Record() Record[T] { return s.rec }

// Offset returns the absolute offset of the current record.
func (s *Scanner[T]) Offset() int64 { return s.recOff }

// End returns the absolute offset just past the last consumed byte.
func (s *Scanner[T]) End() int64 { return s.base }

// Err returns the first error that stopped the scan, or nil at a clean end.
func (s *Scanner[T]) Err() error { return s.err }

func (s *Scanner[T]) fail(err error) {
	s.err = err
	s.done = true
}

func (s *Scanner[T]) advance(n int) {
	s.start += n
	s.base += int64(n)
}

func (s *Scanner[T]) skip(n int, why string) {
	if s.skipN == 0 {
		s.skipOff = s.base
		s.skipReason = why
	}
	s.skipN += n
	s.advance(n)
}

func (s *Scanner[T]) flushSkip() {
	if s.skipN == 0 {
		return
	}
	s.hooks.RecordSkipped(s.skipOff, s.skipN, s.skipReason)
	s.log.Warn("skipped unreadable bytes", Fields{
		"offset": s.skipOff,
		"bytes":  s.skipN,
		"reason": s.skipReason,
	})
	s.skipN = 0
	s.skipReason = ""
}

// fill reads more input, growing the buffer geometrically so memory tracks
// the bytes actually received rather than a declared length.
func (s *Scanner[T]) fill() error {
	if s.start > 0 {
		s.end = copy(s.buf, s.buf[s.start:s.end])
		s.start = 0
	}
	if len(s.buf)-s.end < s.chunk {
		nb := make([]byte, s.end+max(s.end, s.chunk))
		copy(nb, s.buf[:s.end])
		s.buf = nb
	}

	for i := 0; i < maxConsecutiveEmptyReads; i++ {
		n, err := s.r.Read(s.buf[s.end:])
		s.end += n
		if err == io.EOF {
			s.eof = true
			return nil
		}
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
	}
	return io.ErrNoProgress
}
