package logging

// ProgressSampler thins encode progress logs. When the input duration is
// known, a record is emitted each time completion enters a new percent
// bucket. When it is not (ffprobe reported no duration) completion is
// unknowable, so a record is emitted every few epochs instead.
type ProgressSampler struct {
	bucketSize float64
	every      int
	lastBucket int
	lastEpoch  int
}

// NewProgressSampler returns a sampler with bucketSize percent buckets
// (default 10) that falls back to one record per every epochs (default 50).
func NewProgressSampler(bucketSize float64, every int) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	if every <= 0 {
		every = 50
	}
	return &ProgressSampler{bucketSize: bucketSize, every: every, lastBucket: -1}
}

// ShouldLog reports whether the progress update for epoch (1-based) should be
// logged. A negative percent means completion is unknown. The first epoch is
// always logged.
func (s *ProgressSampler) ShouldLog(percent float64, epoch int) bool {
	if s == nil {
		return true
	}
	if s.lastEpoch == 0 {
		s.lastEpoch = epoch
		if percent >= 0 {
			s.lastBucket = s.bucket(percent)
		}
		return true
	}
	if percent < 0 {
		if epoch-s.lastEpoch >= s.every {
			s.lastEpoch = epoch
			return true
		}
		return false
	}
	if bucket := s.bucket(percent); bucket > s.lastBucket {
		s.lastBucket = bucket
		s.lastEpoch = epoch
		return true
	}
	return false
}

func (s *ProgressSampler) bucket(percent float64) int {
	if percent >= 100 {
		return int(100 / s.bucketSize)
	}
	return int(percent / s.bucketSize)
}

// Reset forgets previous updates so the next one is logged.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
	s.lastEpoch = 0
}
