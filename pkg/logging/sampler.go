package logging

import (
	"sync"
)

// ErrorSampler reduces log noise when the upstream keeps failing.
// It lets the first occurrence of a key through, then every Nth.
type ErrorSampler struct {
	mu       sync.Mutex
	counts   map[string]int
	interval int
}

// NewErrorSampler creates a sampler that logs the 1st, Nth, 2Nth... occurrence.
func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		counts:   make(map[string]int),
		interval: interval,
	}
}

// ShouldLog records one occurrence of key and reports whether to log it.
func (s *ErrorSampler) ShouldLog(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[key]++
	count := s.counts[key]
	return count == 1 || count%s.interval == 0
}

// GetCount returns how many times key was seen since the last reset.
func (s *ErrorSampler) GetCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// Reset forgets key, typically after the upstream recovers.
func (s *ErrorSampler) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
}
