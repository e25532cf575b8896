package rolling

import (
	"fmt"
	"math"
	"time"
)

// Labeler renders a raw sample for display.
type Labeler func(float64) string

// FPSLabel formats a frames-per-second sample.
func FPSLabel(v float64) string { return fmt.Sprintf("FPS: %.1f", v) }

// SpeedLabel formats an encode speed multiplier.
func SpeedLabel(v float64) string { return fmt.Sprintf("Speed: %.2fx", v) }

// BitrateLabel formats a bits-per-second sample as kbit/s.
func BitrateLabel(v float64) string { return fmt.Sprintf("Bitrate: %.1f kbits/s", v/1000) }

// KbitsAxis formats a bits-per-second axis tick.
func KbitsAxis(v float64) string { return fmt.Sprintf("%.1f kbits/s", v/1000) }

// ClockLabel formats seconds as HH:MM:SS. Negative and non-finite values
// render as 00:00:00.
func ClockLabel(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if seconds > math.MaxInt64/float64(time.Second) {
		seconds = math.MaxInt64 / float64(time.Second)
	}
	total := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// Quartiles returns five evenly spaced positions across [lo, hi].
func Quartiles(lo, hi float64) [5]float64 {
	span := hi - lo
	return [5]float64{lo, lo + span*0.25, lo + span*0.5, lo + span*0.75, hi}
}

// FormatAll applies label to each value.
func FormatAll(values [5]float64, label Labeler) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = label(v)
	}
	return out
}

// BaselineBounds widens [lo, hi] so a baseline at y stays inside it with 10%
// headroom. The lower bound never drops below zero.
func BaselineBounds(lo, hi, baseline float64) (float64, float64) {
	lower := math.Max(math.Min(lo, baseline*0.9), 0)
	upper := math.Max(hi, baseline*1.1)
	return lower, upper
}
