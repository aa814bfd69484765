// Package segment stores framed records in an append-only file.
//
// A segment is a plain concatenation of frames; there is no file header or
// index. Opening a writable segment scans it to find the write offset and,
// if asked, cuts off a torn record left by a crash mid-append.
package segment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/unkn0wn-root/recframe"
)

var (
	// ErrLocked: another writer holds the segment's lock file.
	ErrLocked = errors.New("segment: locked by another process")
	// ErrReadOnly: Append on a segment opened with ReadOnly.
	ErrReadOnly = errors.New("segment: read-only")
	// ErrClosed: the segment was closed.
	ErrClosed = errors.New("segment: closed")
	// ErrOffset: ReadAt offset is negative or past the end of the segment.
	ErrOffset = errors.New("segment: offset out of range")
)

// Options configure Open. Path and Framer are required.
type Options[T any] struct {
	// Required
	Path   string
	Framer *recframe.Framer[T]

	// ReadOnly skips locking and recovery; damage is reported by Scan/ReadAt.
	ReadOnly bool
	// SyncEveryWrite fsyncs after each Append.
	SyncEveryWrite bool
	// RepairTail truncates a torn trailing record on open instead of failing.
	RepairTail bool
	OnCorrupt  recframe.CorruptPolicy

	Logger recframe.Logger // nil => NopLogger
	Hooks  recframe.Hooks  // nil => NopHooks
}

// Recovery describes what Open found in an existing file.
type Recovery struct {
	Records        int
	TruncatedBytes int64
}

// Segment is an open record file. It is safe for concurrent use.
type Segment[T any] struct {
	mu     sync.RWMutex
	path   string
	file   *os.File
	lock   *flock.Flock
	framer *recframe.Framer[T]
	w      *recframe.Writer[T]
	size   int64
	closed bool
	broken error // set when a failed append could not be rolled back

	readOnly   bool
	syncWrites bool
	onCorrupt  recframe.CorruptPolicy
	log        recframe.Logger
	hooks      recframe.Hooks
	recovery   Recovery
}

// Open opens or creates the segment at opts.Path. Writable segments take an
// exclusive lock on "<path>.lock" and are scanned to find the write offset.
func Open[T any](opts Options[T]) (*Segment[T], error) {
	if opts.Path == "" {
		return nil, errors.New("segment: path is required")
	}
	if opts.Framer == nil {
		return nil, errors.New("segment: framer is required")
	}

	s := &Segment[T]{
		path:       opts.Path,
		framer:     opts.Framer,
		readOnly:   opts.ReadOnly,
		syncWrites: opts.SyncEveryWrite,
		onCorrupt:  opts.OnCorrupt,
		log:        opts.Logger,
		hooks:      opts.Hooks,
	}
	if s.log == nil {
		s.log = recframe.NopLogger{}
	}
	if s.hooks == nil {
		s.hooks = recframe.NopHooks{}
	}

	if opts.ReadOnly {
		f, err := os.Open(opts.Path)
		if err != nil {
			return nil, err
		}
		st, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		s.file, s.size = f, st.Size()
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o750); err != nil {
		return nil, err
	}
	s.lock = flock.New(opts.Path + ".lock")
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("segment: lock %s: %w", opts.Path, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		s.lock.Unlock()
		return nil, err
	}
	s.file = f
	if err := s.recover(opts.RepairTail); err != nil {
		f.Close()
		s.lock.Unlock()
		return nil, err
	}
	s.w = recframe.NewWriter(f, s.framer, s.size)

	s.log.Info("segment opened", recframe.Fields{
		"path":    s.path,
		"size":    s.size,
		"records": s.recovery.Records,
	})
	return s, nil
}

// recover scans the whole file to establish the write offset.
func (s *Segment[T]) recover(repair bool) error {
	st, err := s.file.Stat()
	if err != nil {
		return err
	}
	fileSize := st.Size()

	sc := recframe.NewScanner(io.NewSectionReader(s.file, 0, fileSize), s.framer, recframe.ScanOptions{
		OnCorrupt: s.onCorrupt,
		Logger:    s.log,
		Hooks:     s.hooks,
	})
	n := 0
	for sc.Next() {
		n++
	}
	s.recovery.Records = n

	err = sc.Err()
	switch {
	case err == nil:
		s.size = fileSize
		return nil
	case errors.Is(err, recframe.ErrTruncated) && repair:
		end := sc.End()
		if terr := s.file.Truncate(end); terr != nil {
			return fmt.Errorf("segment: repair %s: %w", s.path, terr)
		}
		if serr := s.file.Sync(); serr != nil {
			return fmt.Errorf("segment: repair %s: %w", s.path, serr)
		}
		dropped := fileSize - end
		s.recovery.TruncatedBytes = dropped
		s.size = end
		s.hooks.TailTruncated(s.path, end, dropped)
		s.log.Warn("truncated torn tail", recframe.Fields{
			"path":    s.path,
			"offset":  end,
			"dropped": dropped,
		})
		return nil
	default:
		return fmt.Errorf("segment: recover %s: %w", s.path, err)
	}
}

// Append frames v at the end of the segment and returns its offset. A write
// that fails part way is truncated away so the file still ends on a record
// boundary; if that truncation fails, every later Append returns the error.
func (s *Segment[T]) Append(v T) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.readOnly {
		return 0, ErrReadOnly
	}
	if s.broken != nil {
		return 0, s.broken
	}
	start := s.size
	off, err := s.w.Write(v)
	if err != nil {
		if s.w.Offset() != start {
			// a partial frame would swallow the next record; cut it off
			if terr := s.file.Truncate(start); terr != nil {
				s.broken = fmt.Errorf("segment: %s: rollback of torn append at %d failed: %w", s.path, start, terr)
				return start, errors.Join(err, s.broken)
			}
			s.log.Warn("rolled back partial append", recframe.Fields{
				"path":   s.path,
				"offset": start,
				"err":    err,
			})
		}
		s.w = recframe.NewWriter(s.file, s.framer, start)
		return start, err
	}
	s.size = s.w.Offset()
	if s.syncWrites {
		if err := s.file.Sync(); err != nil {
			return off, err
		}
	}
	return off, nil
}

// ReadAt reads the record starting at off. It returns io.EOF when off is the
// end of the segment. Error offsets are file offsets.
func (s *Segment[T]) ReadAt(off int64) (recframe.Record[T], int, error) {
	var zero recframe.Record[T]
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return zero, 0, ErrClosed
	}
	if off == s.size {
		return zero, 0, io.EOF
	}
	if off < 0 || off > s.size {
		return zero, 0, ErrOffset
	}
	avail := s.size - off

	buf := make([]byte, min(int64(recframe.HeaderSize), avail))
	if _, err := s.file.ReadAt(buf, off); err != nil {
		return zero, 0, err
	}
	if len(buf) == recframe.HeaderSize {
		h, _ := recframe.ParseHeader(buf)
		// oversized lengths fail in Read without reading the payload
		if uint64(h.Length) <= s.framer.MaxPayload() {
			full := make([]byte, min(h.Size(), avail))
			copy(full, buf)
			if _, err := s.file.ReadAt(full[recframe.HeaderSize:], off+recframe.HeaderSize); err != nil {
				return zero, 0, err
			}
			buf = full
		}
	}
	rec, n, err := s.framer.Read(buf)
	if err != nil {
		return zero, 0, recframe.WithOffset(err, off)
	}
	return rec, n, nil
}

// Scan calls fn for every record present when Scan starts. Records appended
// during the scan are not visited. A non-nil error from fn stops the scan and
// is returned as is.
func (s *Segment[T]) Scan(fn func(off int64, rec recframe.Record[T]) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	size := s.size
	s.mu.RUnlock()

	sc := recframe.NewScanner(io.NewSectionReader(s.file, 0, size), s.framer, recframe.ScanOptions{
		OnCorrupt: s.onCorrupt,
		Logger:    s.log,
		Hooks:     s.hooks,
	})
	for sc.Next() {
		if err := fn(sc.Offset(), sc.Record()); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (s *Segment[T]) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

func (s *Segment[T]) Path() string { return s.path }

// Recovery reports what Open found. It is zero for read-only segments.
func (s *Segment[T]) Recovery() Recovery { return s.recovery }

func (s *Segment[T]) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.readOnly {
		return nil
	}
	return s.file.Sync()
}

// Close syncs and closes the file and releases the lock. Repeated calls are no-ops.
func (s *Segment[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if !s.readOnly {
		errs = append(errs, s.file.Sync())
	}
	errs = append(errs, s.file.Close())
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}
