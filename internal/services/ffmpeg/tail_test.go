package ffmpeg

import (
	"strings"
	"testing"
)

func TestTailBufferKeepsMostRecentBytes(t *testing.T) {
	buf := newTailBuffer(8)
	for _, chunk := range []string{"abc", "defg", "hij"} {
		if n, err := buf.Write([]byte(chunk)); err != nil || n != len(chunk) {
			t.Fatalf("Write(%q) = %d, %v", chunk, n, err)
		}
	}
	if got := buf.String(); got != "cdefghij" {
		t.Fatalf("tail = %q, want cdefghij", got)
	}
	if !buf.Truncated() {
		t.Fatal("expected truncated flag")
	}
}

func TestTailBufferLargeWrite(t *testing.T) {
	buf := newTailBuffer(4)
	if _, err := buf.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "6789" {
		t.Fatalf("tail = %q, want 6789", got)
	}
}

func TestTailBufferDefaultLimit(t *testing.T) {
	buf := newTailBuffer(0)
	if buf.limit != DefaultStderrLimit {
		t.Fatalf("limit = %d", buf.limit)
	}
	if _, err := buf.Write([]byte("  Unknown encoder 'libfoo'\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "Unknown encoder") || buf.Truncated() {
		t.Fatalf("unexpected tail %q truncated=%v", got, buf.Truncated())
	}
}
