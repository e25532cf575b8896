package stats

import (
	"fmt"
	"time"

	"ffstats/internal/rolling"
	"ffstats/internal/services/ffmpeg"
)

// Graph is one replay series with its axis bounds and labels. X is elapsed
// wall time in seconds.
type Graph struct {
	Points   []rolling.Point
	Baseline []rolling.Point
	XMax     float64
	YMin     float64
	YMax     float64
	XLabels  []string
	YLabels  []string
	Average  float64
	Min      float64
	Max      float64
}

// Summary holds the headline numbers of a finished session.
type Summary struct {
	Epochs     int
	Elapsed    time.Duration
	OutTime    time.Duration
	Frames     uint64
	TotalSize  uint64
	DupFrames  uint64
	DropFrames uint64
}

// Series is the replay view of a session.
type Series struct {
	Bitrate Graph
	FPS     Graph
	Speed   Graph
	Summary Summary
}

// BuildSeries computes replay graphs over the full history. The bitrate graph
// carries a baseline at the input's bit rate and widens its y range to fit it.
func BuildSeries(s Session) Series {
	baseline := float64(s.Import.BitRate)
	bitrate := buildGraph(s.History, func(p ffmpeg.Progress) float64 { return float64(p.Bitrate) }, rolling.KbitsAxis)
	bitrate.Baseline = []rolling.Point{{X: 0, Y: baseline}, {X: bitrate.XMax, Y: baseline}}
	bitrate.YMin, bitrate.YMax = rolling.BaselineBounds(bitrate.Min, bitrate.Max, baseline)
	bitrate.YLabels = rolling.FormatAll(rolling.Quartiles(bitrate.YMin, bitrate.YMax), rolling.KbitsAxis)

	last := s.Last()
	return Series{
		Bitrate: bitrate,
		FPS:     buildGraph(s.History, func(p ffmpeg.Progress) float64 { return p.FPS }, formatFPS),
		Speed:   buildGraph(s.History, func(p ffmpeg.Progress) float64 { return p.Speed }, formatSpeed),
		Summary: Summary{
			Epochs:     len(s.History),
			Elapsed:    last.Elapsed,
			OutTime:    last.Progress.OutTime,
			Frames:     last.Progress.Frame,
			TotalSize:  last.Progress.TotalSize,
			DupFrames:  last.Progress.DupFrames,
			DropFrames: last.Progress.DropFrames,
		},
	}
}

func buildGraph(history []Entry, value func(ffmpeg.Progress) float64, axis rolling.Labeler) Graph {
	g := Graph{Points: make([]rolling.Point, 0, len(history))}
	var sum float64
	for i, e := range history {
		p := rolling.Point{X: e.Elapsed.Seconds(), Y: value(e.Progress)}
		g.Points = append(g.Points, p)
		sum += p.Y
		if p.X > g.XMax {
			g.XMax = p.X
		}
		if i == 0 || p.Y < g.Min {
			g.Min = p.Y
		}
		if i == 0 || p.Y > g.Max {
			g.Max = p.Y
		}
	}
	if len(history) > 0 {
		g.Average = sum / float64(len(history))
	}
	g.YMin, g.YMax = g.Min, g.Max
	g.XLabels = rolling.FormatAll(rolling.Quartiles(0, g.XMax), rolling.ClockLabel)
	g.YLabels = rolling.FormatAll(rolling.Quartiles(g.YMin, g.YMax), axis)
	return g
}

func formatFPS(v float64) string   { return fmt.Sprintf("%.1f", v) }
func formatSpeed(v float64) string { return fmt.Sprintf("%.2fx", v) }
