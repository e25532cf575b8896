package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ffstats/internal/rolling"
	"ffstats/internal/services"
	"ffstats/internal/stats"
)

var (
	counts    = message.NewPrinter(language.English)
	titleCase = cases.Title(language.English)
)

func formatCount(n uint64) string { return counts.Sprintf("%d", n) }

func formatClock(d time.Duration) string { return rolling.ClockLabel(d.Seconds()) }

func formatOutcome(o services.Outcome) string {
	if o == "" {
		return "Running"
	}
	return titleCase.String(string(o))
}

// renderSession writes the replay tables for a session.
func renderSession(w io.Writer, session stats.Session) {
	series := stats.BuildSeries(session)

	fmt.Fprintln(w, renderImport(session))
	fmt.Fprintln(w, renderSummary(series.Summary))
	fmt.Fprintln(w, renderMetrics(series))
	if series.Summary.Epochs > 0 {
		fmt.Fprintln(w, renderAxes(series))
	}
}

func renderImport(session stats.Session) string {
	f := session.Import
	name := f.FormatName
	if f.FormatLongName != "" {
		name = fmt.Sprintf("%s (%s)", f.FormatLongName, f.FormatName)
	}
	rows := [][]string{
		{"File", f.Filename},
		{"Format", name},
		{"Duration", formatClock(f.Duration)},
		{"Start time", f.StartTime.String()},
		{"Size", humanize.IBytes(f.Size)},
		{"Bit rate", rolling.KbitsAxis(float64(f.BitRate))},
		{"Streams", fmt.Sprintf("%d (%d programs)", f.NBStreams, f.NBPrograms)},
		{"Probe score", fmt.Sprintf("%d", f.ProbeScore)},
	}
	for _, key := range slices.Sorted(maps.Keys(f.Tags)) {
		rows = append(rows, []string{"Tag " + key, f.Tags[key]})
	}
	return renderTable("Input", []string{"Field", "Value"}, rows, nil)
}

func renderSummary(s stats.Summary) string {
	rows := [][]string{
		{"Epochs", formatCount(uint64(s.Epochs))},
		{"Wall time", formatClock(s.Elapsed)},
		{"Encoded", formatClock(s.OutTime)},
		{"Frames", formatCount(s.Frames)},
		{"Output size", humanize.IBytes(s.TotalSize)},
		{"Duplicated frames", formatCount(s.DupFrames)},
		{"Dropped frames", formatCount(s.DropFrames)},
	}
	return renderTable("Summary", []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderMetrics(series stats.Series) string {
	type metric struct {
		name  string
		graph stats.Graph
		label rolling.Labeler
	}
	metrics := []metric{
		{"Bitrate", series.Bitrate, rolling.KbitsAxis},
		{"FPS", series.FPS, func(v float64) string { return fmt.Sprintf("%.1f", v) }},
		{"Speed", series.Speed, func(v float64) string { return fmt.Sprintf("%.2fx", v) }},
	}
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{m.name, m.label(m.graph.Average), m.label(m.graph.Min), m.label(m.graph.Max)})
	}
	return renderTable("Metrics", []string{"Metric", "Average", "Min", "Max"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight})
}

func renderAxes(series stats.Series) string {
	headers := []string{"Axis", "0%", "25%", "50%", "75%", "100%"}
	row := func(name string, labels []string) []string {
		return append([]string{name}, labels...)
	}
	rows := [][]string{
		row("Time", series.Bitrate.XLabels),
		row("Bitrate", series.Bitrate.YLabels),
		row("FPS", series.FPS.YLabels),
		row("Speed", series.Speed.YLabels),
	}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	return renderTable("Scale", headers, rows, aligns)
}

// sparkBlocks renders samples as unicode block characters scaled against peak.
func sparkBlocks(samples []uint64, peak uint64) string {
	runes := []rune("▁▂▃▄▅▆▇█")
	if peak == 0 {
		return strings.Repeat(string(runes[0]), len(samples))
	}
	var b strings.Builder
	for _, s := range samples {
		idx := int(float64(s) / float64(peak) * float64(len(runes)-1))
		b.WriteRune(runes[max(0, min(idx, len(runes)-1))])
	}
	return b.String()
}
