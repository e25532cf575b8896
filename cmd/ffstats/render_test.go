package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ffstats/internal/media/ffprobe"
	"ffstats/internal/services"
	"ffstats/internal/services/ffmpeg"
	"ffstats/internal/stats"
)

func TestRenderSessionEmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	renderSession(&buf, stats.Session{Import: ffprobe.Format{Filename: "in.mkv", Size: 1 << 30}})
	out := buf.String()
	requireContains(t, out, "1.0 GiB")
	requireContains(t, out, "Metrics")
	if strings.Contains(out, "Scale") {
		t.Fatal("axis table should be omitted without history")
	}
}

func TestRenderSessionCounts(t *testing.T) {
	s := stats.Session{Import: ffprobe.Format{Filename: "in.mkv", BitRate: 2_000_000}}
	s.Append(90*time.Minute, ffmpeg.Progress{Frame: 129600, TotalSize: 3 << 30, OutTime: 90 * time.Minute, Bitrate: 2_100_000})
	var buf bytes.Buffer
	renderSession(&buf, s)
	out := buf.String()
	requireContains(t, out, "129,600")
	requireContains(t, out, "01:30:00")
	requireContains(t, out, "3.0 GiB")
	requireContains(t, out, "2100.0 kbits/s")
}

func TestSparkBlocks(t *testing.T) {
	tests := []struct {
		samples []uint64
		peak    uint64
		want    string
	}{
		{nil, 10, ""},
		{[]uint64{0, 0}, 0, "▁▁"},
		{[]uint64{0, 50, 100}, 100, "▁▄█"},
		{[]uint64{200}, 100, "█"},
	}
	for _, tt := range tests {
		if got := sparkBlocks(tt.samples, tt.peak); got != tt.want {
			t.Fatalf("sparkBlocks(%v, %d) = %q, want %q", tt.samples, tt.peak, got, tt.want)
		}
	}
}

func TestFormatOutcome(t *testing.T) {
	if got := formatOutcome(services.OutcomeCancelled); got != "Cancelled" {
		t.Fatalf("formatOutcome = %q", got)
	}
	if got := formatOutcome(""); got != "Running" {
		t.Fatalf("formatOutcome = %q", got)
	}
}
