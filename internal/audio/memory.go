package audio

import (
	"context"
	"io"
	"sync"
)

// MemorySource replays pre-recorded chunks. It backs the translate-file path
// and the controller tests.
type MemorySource struct {
	mu      sync.Mutex
	chunks  [][]float32
	next    int
	started bool
	stopped bool
}

// NewMemorySource builds a source that yields the given chunks in order.
func NewMemorySource(chunks [][]float32) *MemorySource {
	return &MemorySource{chunks: chunks}
}

// SliceIntoChunks cuts a sample buffer into chunk-sized pieces, zero-padding
// the tail so every chunk has the same length.
func SliceIntoChunks(samples []float32, format Format) [][]float32 {
	size := format.ChunkSamples()
	if size <= 0 {
		return nil
	}
	var chunks [][]float32
	for start := 0; start < len(samples); start += size {
		end := start + size
		chunk := make([]float32, size)
		if end > len(samples) {
			end = len(samples)
		}
		copy(chunk, samples[start:end])
		chunks = append(chunks, chunk)
	}
	return chunks
}

func (s *MemorySource) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *MemorySource) Poll() ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped {
		return nil, io.EOF
	}
	if s.next >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.next]
	s.next++
	return chunk, nil
}

func (s *MemorySource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

// Stopped reports whether Stop has been called.
func (s *MemorySource) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
