package avi

import "sync"

// Allocator provides the writer's working buffers. Implementations may enforce
// a memory budget; a failure surfaces as ErrAllocation from the writer.
type Allocator interface {
	// Alloc returns an empty slice with capacity of at least n bytes.
	Alloc(n int) ([]byte, error)
	// Grow returns a slice holding the contents of buf with capacity of at
	// least n bytes. buf must not be used afterwards.
	Grow(buf []byte, n int) ([]byte, error)
	// Free releases buf.
	Free(buf []byte)
}

// HeapAllocator allocates from the Go heap.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(n int) ([]byte, error) {
	return make([]byte, 0, n), nil
}

func (HeapAllocator) Grow(buf []byte, n int) ([]byte, error) {
	if n <= cap(buf) {
		return buf, nil
	}
	grown := make([]byte, len(buf), n)
	copy(grown, buf)
	return grown, nil
}

func (HeapAllocator) Free([]byte) {}

// LimitAllocator is a heap allocator that refuses to hold more than Limit
// bytes of capacity at once.
type LimitAllocator struct {
	Limit int

	mu   sync.Mutex
	used int
}

// NewLimitAllocator returns an allocator capped at limit bytes.
func NewLimitAllocator(limit int) *LimitAllocator {
	return &LimitAllocator{Limit: limit}
}

func (a *LimitAllocator) Alloc(n int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.used+n > a.Limit {
		return nil, ErrAllocation
	}
	a.used += n
	return make([]byte, 0, n), nil
}

func (a *LimitAllocator) Grow(buf []byte, n int) ([]byte, error) {
	if n <= cap(buf) {
		return buf, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.used-cap(buf)+n > a.Limit {
		return nil, ErrAllocation
	}
	a.used += n - cap(buf)
	grown := make([]byte, len(buf), n)
	copy(grown, buf)
	return grown, nil
}

func (a *LimitAllocator) Free(buf []byte) {
	a.mu.Lock()
	a.used -= cap(buf)
	a.mu.Unlock()
}

// InUse reports the bytes currently held.
func (a *LimitAllocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.used
}
