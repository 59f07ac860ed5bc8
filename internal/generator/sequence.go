package generator

import "sync/atomic"

// MaxSequence is the largest value a two digit sequence can hold.
const MaxSequence = 99

// Sequence is a wrapping counter shared by every caller of a generator.
// Next never hands the same pre-increment value to two concurrent callers.
type Sequence struct {
	value atomic.Int32
	max   int32
}

func NewSequence() *Sequence {
	return &Sequence{max: MaxSequence}
}

// Next advances the counter and returns the new value, wrapping to 0 once
// the maximum has been returned.
func (s *Sequence) Next() int {
	for {
		cur := s.value.Load()
		next := cur + 1
		if cur >= s.max {
			next = 0
		}
		if s.value.CompareAndSwap(cur, next) {
			return int(next)
		}
	}
}

// Reset sets the counter so the following Next returns v+1 (or 0 past max).
// v is clamped to [0, max].
func (s *Sequence) Reset(v int) {
	switch {
	case v < 0:
		v = 0
	case v > int(s.max):
		v = int(s.max)
	}
	s.value.Store(int32(v))
}
