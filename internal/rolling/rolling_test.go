package rolling

import (
	"math"
	"slices"
	"testing"
)

func TestSparklineScalesAndKeepsGlobalMax(t *testing.T) {
	s := NewSparkline(3, FPSLabel)
	for _, v := range []float64{1.234, 9.5, 2, 3, 4} {
		s.Update(v)
	}
	if got := s.Values(); !slices.Equal(got, []uint64{200, 300, 400}) {
		t.Fatalf("Values = %v", got)
	}
	if s.Max() != 950 {
		t.Fatalf("Max = %d, want 950 from the evicted sample", s.Max())
	}
	if s.Label() != "FPS: 4.0" {
		t.Fatalf("Label = %q", s.Label())
	}
}

func TestSparklineWindow(t *testing.T) {
	s := NewSparkline(10, SpeedLabel)
	for i := 1; i <= 5; i++ {
		s.Update(float64(i))
	}
	tests := []struct {
		width int
		want  []uint64
	}{
		{0, []uint64{}},
		{2, []uint64{400, 500}},
		{5, []uint64{100, 200, 300, 400, 500}},
		{50, []uint64{100, 200, 300, 400, 500}},
		{-1, []uint64{}},
	}
	for _, tt := range tests {
		if got := s.Window(tt.width); !slices.Equal(got, tt.want) {
			t.Fatalf("Window(%d) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestSparklineAcceptsOddValues(t *testing.T) {
	s := NewSparkline(0, nil)
	s.Update(math.NaN())
	s.Update(-3)
	s.Update(math.Inf(1))
	if got := s.Values(); !slices.Equal(got, []uint64{0, 0, math.MaxUint64}) {
		t.Fatalf("Values = %v", got)
	}
	if !math.IsInf(s.Current(), 1) {
		t.Fatalf("Current = %v", s.Current())
	}
}

func TestChartMinMaxFollowsEviction(t *testing.T) {
	c := NewChart(3, 1000, BitrateLabel, KbitsAxis)
	for _, v := range []float64{100, 5000, 2000, 3000, 4000} {
		c.Update(v)
	}
	if c.Min() != 2000 || c.Max() != 4000 {
		t.Fatalf("min/max = %v/%v, want 2000/4000", c.Min(), c.Max())
	}
	want := []Point{{2, 2000}, {3, 3000}, {4, 4000}}
	if got := c.Points(); !slices.Equal(got, want) {
		t.Fatalf("Points = %v", got)
	}
	base := c.Baseline()
	if base[0] != (Point{X: 2, Y: 1000}) || base[1] != (Point{X: 4, Y: 1000}) {
		t.Fatalf("Baseline = %v", base)
	}
	if c.Label() != "Bitrate: 4.0 kbits/s" {
		t.Fatalf("Label = %q", c.Label())
	}
}

func TestChartYBoundsIncludeBaseline(t *testing.T) {
	c := NewChart(10, 2000, BitrateLabel, KbitsAxis)
	c.Update(1900)
	c.Update(2100)
	lo, hi := c.YBounds()
	if math.Abs(lo-1800) > 1e-9 || math.Abs(hi-2200) > 1e-9 {
		t.Fatalf("YBounds = %v..%v", lo, hi)
	}

	c = NewChart(10, 1000, BitrateLabel, KbitsAxis)
	c.Update(500)
	c.Update(4000)
	lo, hi = c.YBounds()
	if lo != 500 || hi != 4000 {
		t.Fatalf("YBounds = %v..%v", lo, hi)
	}
	want := []string{"0.5 kbits/s", "1.4 kbits/s", "2.2 kbits/s", "3.1 kbits/s", "4.0 kbits/s"}
	if got := c.YLabels(); !slices.Equal(got, want) {
		t.Fatalf("YLabels = %v", got)
	}
	if got := c.XLabels(); !slices.Equal(got, []string{"0", "0.25", "0.5", "0.75", "1"}) {
		t.Fatalf("XLabels = %v", got)
	}
}

func TestChartXLabelsAfterEviction(t *testing.T) {
	c := NewChart(4, 0, nil, nil)
	for i := range 10 {
		c.Update(float64(i))
	}
	if lo, hi := c.XBounds(); lo != 6 || hi != 9 {
		t.Fatalf("XBounds = %v..%v, want 6..9", lo, hi)
	}
	got := c.XLabels()
	if want := []string{"0", "0.75", "1.5", "2.25", "3"}; !slices.Equal(got, want) {
		t.Fatalf("XLabels = %v, want %v", got, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i] == got[i-1] {
			t.Fatalf("duplicate x label %q in %v", got[i], got)
		}
	}
}

func TestChartLowerBoundClampedAtZero(t *testing.T) {
	c := NewChart(4, 0, nil, nil)
	c.Update(-50)
	if lo, _ := c.YBounds(); lo != 0 {
		t.Fatalf("lower bound = %v, want 0", lo)
	}
}

func TestChartEmpty(t *testing.T) {
	c := NewChart(4, 800, BitrateLabel, KbitsAxis)
	if c.Len() != 0 || len(c.Points()) != 0 {
		t.Fatal("expected empty chart")
	}
	lo, hi := c.YBounds()
	if lo != 0 || math.Abs(hi-880) > 1e-9 {
		t.Fatalf("YBounds = %v..%v", lo, hi)
	}
}

func TestClockLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00"},
		{59.9, "00:00:59"},
		{3725, "01:02:05"},
		{-4, "00:00:00"},
		{math.NaN(), "00:00:00"},
		{360000, "100:00:00"},
	}
	for _, tt := range tests {
		if got := ClockLabel(tt.in); got != tt.want {
			t.Fatalf("ClockLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
