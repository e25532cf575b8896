package ffmpeg

import (
	"strings"
	"sync"
)

// DefaultStderrLimit bounds how much ffmpeg diagnostic output is retained.
const DefaultStderrLimit = 64 << 10

// tailBuffer keeps the last limit bytes written to it. os/exec writes to it
// from its own goroutine, so access is synchronized.
type tailBuffer struct {
	mu        sync.Mutex
	limit     int
	buf       []byte
	truncated bool
}

func newTailBuffer(limit int) *tailBuffer {
	if limit <= 0 {
		limit = DefaultStderrLimit
	}
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(p)
	if n >= t.limit {
		t.buf = append(t.buf[:0], p[n-t.limit:]...)
		t.truncated = true
		return n, nil
	}
	if overflow := len(t.buf) + n - t.limit; overflow > 0 {
		t.buf = t.buf[:copy(t.buf, t.buf[overflow:])]
		t.truncated = true
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

// String returns the retained output with surrounding whitespace removed.
func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}

func (t *tailBuffer) Truncated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.truncated
}
