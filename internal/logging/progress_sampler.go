package logging

// ProgressSampler suppresses repetitive progress output while preserving
// signal when counts cross bucket boundaries.
type ProgressSampler struct {
	bucketSize int
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits once per bucketSize
// items (default 1, i.e. every item).
func NewProgressSampler(bucketSize int) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 1
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether the progress event for item current (1-based)
// should be emitted. The final item is always emitted.
func (s *ProgressSampler) ShouldLog(current, total int) bool {
	if s == nil {
		return true
	}
	if current >= total {
		return true
	}
	bucket := current / s.bucketSize
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears sampler state for a new batch.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
