// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for system-level monitoring.
// Exposes counters in a thread-safe map with dynamic registration, plus
// a bounded recent-samples window for metrics that need more than a
// single latest value.

package control

import (
	"sync"
	"time"

	"github.com/momentics/hioload-tpool/internal/concurrency"
)

// recentSamplesCapacity bounds the recent-samples window kept per
// registry; old samples are evicted to make room for new ones.
const recentSamplesCapacity = 64

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
	recent  *concurrency.RingBuffer[int64]
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
		recent:  concurrency.NewRingBuffer[int64](recentSamplesCapacity),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// RecordSample pushes v onto the bounded recent-samples window,
// evicting the oldest entry once the window is full. Used for
// per-call measurements like wait duration, where a single latest
// value or a running total loses the distribution.
func (mr *MetricsRegistry) RecordSample(v int64) {
	for !mr.recent.Enqueue(v) {
		if _, ok := mr.recent.Dequeue(); !ok {
			break
		}
	}
}

// RecentSamples returns a snapshot of the recent-samples window,
// oldest first. The snapshot is best-effort against concurrent
// RecordSample callers: it is a reporting path, not the hot path.
func (mr *MetricsRegistry) RecentSamples() []int64 {
	n := mr.recent.Len()
	out := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		v, ok := mr.recent.Dequeue()
		if !ok {
			break
		}
		out = append(out, v)
	}
	for _, v := range out {
		mr.recent.Enqueue(v)
	}
	return out
}
