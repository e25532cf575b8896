package monitor

import (
	"time"

	"ffstats/internal/rolling"
	"ffstats/internal/services"
	"ffstats/internal/services/ffmpeg"
	"ffstats/internal/stats"
)

// Request describes one monitored encode.
type Request struct {
	// Input is the media file probed for metadata and used to name the
	// snapshot. It should be the same file passed to ffmpeg via -i.
	Input     string
	Args      []string
	Overwrite bool
	// Save writes <Input>.stats once the encode completes.
	Save bool
}

// SparkView is the display state of a sparkline.
type SparkView struct {
	Current float64
	Max     uint64
	Window  []uint64
	Label   string
}

// ChartView is the display state of the bitrate chart.
type ChartView struct {
	Points   []rolling.Point
	Baseline [2]rolling.Point
	YMin     float64
	YMax     float64
	XLabels  []string
	YLabels  []string
	Label    string
}

// Tick is delivered to the Observer after every progress record.
type Tick struct {
	Epoch    int
	Elapsed  time.Duration
	Progress ffmpeg.Progress
	// Duration is the input's probed duration, zero when unknown.
	Duration time.Duration
	// Ratio is out_time / Duration clamped to [0, 1]; zero when Duration is.
	Ratio   float64
	FPS     SparkView
	Speed   SparkView
	Bitrate ChartView
}

// Percent returns Ratio scaled to 0..100.
func (t Tick) Percent() float64 { return t.Ratio * 100 }

// Observer consumes live updates. Observe runs on the monitoring goroutine
// and should return quickly.
type Observer interface {
	Observe(Tick)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Tick)

// Observe calls f(t).
func (f ObserverFunc) Observe(t Tick) { f(t) }

// Result is the outcome of Run. Session holds whatever history was collected,
// even when Run returns an error.
type Result struct {
	SessionID    string
	Session      stats.Session
	Outcome      services.Outcome
	SnapshotPath string
}
