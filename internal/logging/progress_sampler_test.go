package logging

import "testing"

func TestNewProgressSamplerDefaults(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		every      int
		wantSize   float64
		wantEvery  int
	}{
		{"zero uses default", 0, 0, 10, 50},
		{"negative uses default", -1, -3, 10, 50},
		{"custom", 25, 5, 25, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize, tt.every)
			if s.bucketSize != tt.wantSize || s.every != tt.wantEvery {
				t.Errorf("sampler = %+v, want bucket %v every %d", s, tt.wantSize, tt.wantEvery)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, 1) {
		t.Error("nil sampler should always log")
	}
	s.Reset()
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(10, 0)
	steps := []struct {
		percent float64
		want    bool
	}{
		{0, true},
		{4.9, false},
		{9.99, false},
		{10, true},
		{15, false},
		{35, true},
		{30, false},
		{99.9, true},
		{100, true},
		{140, false},
	}
	for i, step := range steps {
		if got := s.ShouldLog(step.percent, i+1); got != step.want {
			t.Fatalf("epoch %d: ShouldLog(%v) = %v, want %v", i+1, step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerFirstEpochMidway(t *testing.T) {
	s := NewProgressSampler(10, 0)
	if !s.ShouldLog(42, 1) {
		t.Fatal("first epoch should log")
	}
	if s.ShouldLog(45, 2) {
		t.Fatal("same bucket as the first epoch should be suppressed")
	}
	if !s.ShouldLog(50, 3) {
		t.Fatal("next bucket should log")
	}
}

func TestProgressSamplerUnknownPercentUsesEpochs(t *testing.T) {
	s := NewProgressSampler(10, 3)
	want := []bool{true, false, false, true, false, false, true}
	for i, w := range want {
		if got := s.ShouldLog(-1, i+1); got != w {
			t.Fatalf("epoch %d: ShouldLog = %v, want %v", i+1, got, w)
		}
	}
	s.Reset()
	if !s.ShouldLog(-1, 8) {
		t.Fatal("reset should log the next epoch")
	}
}
