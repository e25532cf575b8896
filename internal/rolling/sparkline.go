package rolling

import (
	"math"

	"ffstats/internal/ring"
)

// DefaultSparklineCapacity is used when a non-positive capacity is given.
const DefaultSparklineCapacity = 500

// Sparkline stores samples scaled by 100 and rounded, so two decimal places
// survive the conversion to unsigned integers.
type Sparkline struct {
	history *ring.Buffer[uint64]
	max     uint64
	current float64
	label   Labeler
}

// NewSparkline creates a sparkline retaining the last capacity samples.
func NewSparkline(capacity int, label Labeler) *Sparkline {
	if capacity <= 0 {
		capacity = DefaultSparklineCapacity
	}
	if label == nil {
		label = func(float64) string { return "" }
	}
	return &Sparkline{history: ring.New[uint64](capacity), label: label}
}

// Update records v as the latest sample.
func (s *Sparkline) Update(v float64) {
	s.current = v
	scaled := scale(v)
	s.history.Push(scaled)
	if scaled > s.max {
		s.max = scaled
	}
}

// Window returns at most the last width samples, oldest first. The result is
// a copy.
func (s *Sparkline) Window(width int) []uint64 {
	data := s.history.Slice()
	if width < 0 {
		width = 0
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	out := make([]uint64, len(data))
	copy(out, data)
	return out
}

// Values returns every retained sample.
func (s *Sparkline) Values() []uint64 { return s.history.Values() }

// Max is the largest scaled sample ever recorded, including evicted ones.
func (s *Sparkline) Max() uint64 { return s.max }

// Current is the latest raw sample.
func (s *Sparkline) Current() float64 { return s.current }

// Label renders the latest raw sample.
func (s *Sparkline) Label() string { return s.label(s.current) }

// Len reports the number of retained samples.
func (s *Sparkline) Len() int { return s.history.Len() }

// scale saturates like a float-to-unsigned cast: NaN and negatives are 0.
func scale(v float64) uint64 {
	r := math.Round(v * 100)
	switch {
	case math.IsNaN(r) || r <= 0:
		return 0
	case r >= math.MaxUint64:
		return math.MaxUint64
	default:
		return uint64(r)
	}
}
