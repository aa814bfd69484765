package recframe

import "sync"

type skipEvent struct {
	Offset int64
	N      int
	Reason string
}

type healEvent struct {
	Key    string
	Reason string
}

// recordingHooks captures events for assertions.
type recordingHooks struct {
	mu       sync.Mutex
	skips    []skipEvent
	heals    []healEvent
	rejected []string
	tails    []int64
}

var _ Hooks = (*recordingHooks)(nil)

func (h *recordingHooks) SelfHeal(k, r string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.heals = append(h.heals, healEvent{k, r})
}

func (h *recordingHooks) ProviderSetRejected(k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected = append(h.rejected, k)
}

func (h *recordingHooks) RecordSkipped(off int64, n int, r string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.skips = append(h.skips, skipEvent{off, n, r})
}

func (h *recordingHooks) TailTruncated(_ string, off int64, _ int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tails = append(h.tails, off)
}

type logLine struct {
	Level string
	Msg   string
	F     Fields
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) add(level, msg string, f Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level, msg, f})
}

func (l *recordingLogger) Debug(msg string, f Fields) { l.add("debug", msg, f) }
func (l *recordingLogger) Info(msg string, f Fields)  { l.add("info", msg, f) }
func (l *recordingLogger) Warn(msg string, f Fields)  { l.add("warn", msg, f) }
func (l *recordingLogger) Error(msg string, f Fields) { l.add("error", msg, f) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ln := range l.lines {
		if ln.Level == level {
			n++
		}
	}
	return n
}
