package rolling

import (
	"strconv"

	"ffstats/internal/ring"
)

// DefaultChartCapacity is used when a non-positive capacity is given.
const DefaultChartCapacity = 1000

// Point is one chart sample.
type Point struct {
	X float64
	Y float64
}

// Chart is a bounded line series with a horizontal baseline. Each update
// advances X by one, so X counts updates rather than wall time.
type Chart struct {
	history  *ring.Buffer[Point]
	baseline [2]Point
	current  float64
	min      float64
	max      float64
	label    Labeler
	axis     Labeler
}

// NewChart creates a chart retaining the last capacity points. label renders
// the latest value and axis renders y-axis ticks.
func NewChart(capacity int, baseline float64, label, axis Labeler) *Chart {
	if capacity <= 0 {
		capacity = DefaultChartCapacity
	}
	if label == nil {
		label = func(float64) string { return "" }
	}
	if axis == nil {
		axis = label
	}
	return &Chart{
		history:  ring.New[Point](capacity),
		baseline: [2]Point{{Y: baseline}, {Y: baseline}},
		label:    label,
		axis:     axis,
	}
}

// Update appends v and recomputes the window extent and min/max.
func (c *Chart) Update(v float64) {
	c.current = v
	next := 0.0
	if c.history.Len() > 0 {
		next = c.history.Last(Point{}).X + 1
	}
	c.history.Push(Point{X: next, Y: v})
	c.baseline[0].X = c.history.First(Point{}).X
	c.baseline[1].X = c.history.Last(Point{}).X

	points := c.history.Slice()
	c.min, c.max = points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.Y < c.min {
			c.min = p.Y
		}
		if p.Y > c.max {
			c.max = p.Y
		}
	}
}

// Points returns a copy of the retained points, oldest first.
func (c *Chart) Points() []Point { return c.history.Values() }

// Baseline returns the two baseline points spanning the retained X range.
func (c *Chart) Baseline() [2]Point { return c.baseline }

// Min is the smallest retained value, 0 before the first update.
func (c *Chart) Min() float64 { return c.min }

// Max is the largest retained value, 0 before the first update.
func (c *Chart) Max() float64 { return c.max }

// Current is the latest value.
func (c *Chart) Current() float64 { return c.current }

// XBounds returns the retained X range.
func (c *Chart) XBounds() (float64, float64) {
	return c.baseline[0].X, c.baseline[1].X
}

// YBounds returns the y-axis range, widened to include the baseline.
func (c *Chart) YBounds() (float64, float64) {
	return BaselineBounds(c.min, c.max, c.baseline[0].Y)
}

// YLabels returns five axis labels spread over YBounds.
func (c *Chart) YLabels() []string {
	lo, hi := c.YBounds()
	return FormatAll(Quartiles(lo, hi), c.axis)
}

// XLabels returns five labels spread over [0, x-extent], where the extent is
// the distance between the oldest and newest retained points.
func (c *Chart) XLabels() []string {
	lo, hi := c.XBounds()
	return FormatAll(Quartiles(0, hi-lo), func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	})
}

// Label renders the latest value.
func (c *Chart) Label() string { return c.label(c.current) }

// Len reports the number of retained points.
func (c *Chart) Len() int { return c.history.Len() }
