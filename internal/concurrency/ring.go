// File: internal/concurrency/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RingBuffer is a lock-free, bounded MPMC ring buffer (Vyukov-style
// sequence numbers per cell). The pool's hot path never touches it;
// control.MetricsRegistry uses one instance (via RecordSample /
// RecentSamples) to retain a bounded window of recent Run wait
// durations without a mutex on the reporting path.

package concurrency

import (
	"sync/atomic"

	"github.com/momentics/hioload-tpool/api"
)

var _ api.Ring[any] = (*RingBuffer[any])(nil)

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// RingBuffer is a lock-free ring buffer of power-of-two capacity.
type RingBuffer[T any] struct {
	head uint64
	_    [56]byte // cache-line pad, separates head from tail
	tail uint64
	_    [56]byte
	mask  uint64
	cells []cell[T]
}

// NewRingBuffer allocates a ring rounded up to the next power of two.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	r := &RingBuffer[T]{
		mask:  uint64(size - 1),
		cells: make([]cell[T], size),
	}
	for i := range r.cells {
		r.cells[i].sequence.Store(uint64(i))
	}
	return r
}

// Enqueue adds item; returns false if full.
func (r *RingBuffer[T]) Enqueue(item T) bool {
	for {
		tail := atomic.LoadUint64(&r.tail)
		c := &r.cells[tail&r.mask]
		seq := c.sequence.Load()
		switch diff := int64(seq) - int64(tail); {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&r.tail, tail, tail+1) {
				c.data = item
				c.sequence.Store(tail + 1)
				return true
			}
		case diff < 0:
			return false
		}
	}
}

// Dequeue removes and returns the oldest item; ok is false if empty.
func (r *RingBuffer[T]) Dequeue() (T, bool) {
	for {
		head := atomic.LoadUint64(&r.head)
		c := &r.cells[head&r.mask]
		seq := c.sequence.Load()
		switch diff := int64(seq) - int64(head+1); {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&r.head, head, head+1) {
				item := c.data
				c.sequence.Store(head + r.mask + 1)
				return item, true
			}
		case diff < 0:
			var zero T
			return zero, false
		}
	}
}

// Len returns the number of items currently buffered.
func (r *RingBuffer[T]) Len() int {
	return int(atomic.LoadUint64(&r.tail) - atomic.LoadUint64(&r.head))
}

// Cap returns the fixed buffer capacity.
func (r *RingBuffer[T]) Cap() int { return len(r.cells) }
