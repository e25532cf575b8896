package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"ffstats/internal/monitor"
)

// barScale is the resolution of the completion bar (per mille).
const barScale = 1000

// liveWindow is how many sparkline samples the bar description shows.
const liveWindow = 20

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// barView draws ticks as a progress bar. The bar is created on the first tick
// because the probed duration decides between a bounded bar and a spinner.
type barView struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newBarView(out io.Writer) *barView {
	return &barView{out: out}
}

func (v *barView) Observe(t monitor.Tick) {
	if v.bar == nil {
		total := int64(-1)
		if t.Duration > 0 {
			total = barScale
		}
		v.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(v.out),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetPredictTime(t.Duration > 0),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	v.bar.Describe(describeTick(t))
	if t.Duration > 0 {
		_ = v.bar.Set64(int64(t.Ratio * barScale))
	} else {
		_ = v.bar.Set64(int64(t.Epoch))
	}
}

func (v *barView) finish() {
	if v.bar == nil {
		return
	}
	_ = v.bar.Finish()
	fmt.Fprintln(v.out)
}

func describeTick(t monitor.Tick) string {
	return fmt.Sprintf("%s %s | %s %s | %s",
		t.FPS.Label, sparkBlocks(t.FPS.Window, t.FPS.Max),
		t.Speed.Label, sparkBlocks(t.Speed.Window, t.Speed.Max),
		t.Bitrate.Label,
	)
}
