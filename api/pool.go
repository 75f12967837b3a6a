// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the public contract of the CPU-affinity-aware, work-stealing
// thread pool that dispatches bounded index-space computations.

package api

// AffinityPolicy selects which CPU cores a Pool pins its workers to,
// based on per-core maximum frequency.
type AffinityPolicy int

const (
	// AffinityNone requests no pinning at all.
	AffinityNone AffinityPolicy = iota
	// AffinityBigOnly pins to the whole highest-frequency cluster.
	AffinityBigOnly
	// AffinityLittleOnly pins to the whole lowest-frequency cluster.
	AffinityLittleOnly
	// AffinityHighPerformance pins to the thread_count fastest cores.
	AffinityHighPerformance
	// AffinityPowerSave pins to the thread_count slowest cores.
	AffinityPowerSave
)

func (p AffinityPolicy) String() string {
	switch p {
	case AffinityNone:
		return "none"
	case AffinityBigOnly:
		return "big_only"
	case AffinityLittleOnly:
		return "little_only"
	case AffinityHighPerformance:
		return "high_performance"
	case AffinityPowerSave:
		return "power_save"
	default:
		return "unknown"
	}
}

// IndexFunc is invoked exactly once per index in [0, iterations) submitted
// to Run. It must be total: it must not panic, block indefinitely, or
// retain the pool's internal state beyond its own execution.
type IndexFunc func(index int)

// RangeFunc is the callback shape used by Compute1D: it receives the
// half-open, strided [start, end) sub-range a tile owns.
type RangeFunc func(start, end, step int)

// RangeFunc2D is the callback shape used by Compute2D.
type RangeFunc2D func(start0, end0, step0, start1, end1, step1 int)

// RangeFunc3D is the callback shape used by Compute3D.
type RangeFunc3D func(start0, end0, step0, start1, end1, step1, start2, end2, step2 int)

// Pool is the CPU-affinity-aware, work-stealing thread pool contract.
// A single submitter at a time is the contract: Run/Compute* calls are
// serialized internally, but concurrent callers do not get fairness
// guarantees beyond mutual exclusion.
type Pool interface {
	// Init spawns N-1 workers and blocks until each has pinned itself
	// and acknowledged. Idempotent after the first successful call.
	// No-op if the pool has a single worker.
	Init()

	// Run invokes cb(i) exactly once for each i in [0, iterations),
	// returning only once every invocation has completed.
	Run(cb IndexFunc, iterations int)

	// Compute1D decomposes [start, end) (stride step) into tiles and
	// dispatches them through Run. tileSize == 0 means "choose
	// automatically". costPerItem < 0 disables the single-thread
	// short-circuit.
	Compute1D(cb RangeFunc, start, end, step, tileSize int, costPerItem int)

	// Compute2D is the two-dimensional analog of Compute1D.
	Compute2D(cb RangeFunc2D, start0, end0, step0, start1, end1, step1 int, tileSize0, tileSize1 int, costPerItem int)

	// Compute3D is the three-dimensional analog of Compute1D.
	Compute3D(cb RangeFunc3D, start0, end0, step0, start1, end1, step1, start2, end2, step2 int, tileSize0, tileSize1, tileSize2 int, costPerItem int)

	// NumWorkers returns the fixed worker count chosen at construction.
	NumWorkers() int

	// Destroy signals shutdown and joins all spawned workers. Must be
	// called when no Run is in progress.
	Destroy()
}

// Platform is the OS abstraction the pool consumes and nothing else:
// per-core maximum frequencies for affinity selection, and the ability
// to bind the calling OS thread to a core set. Implementations live
// under internal/platform; both operations report environmental
// failures that the pool logs and treats as non-fatal.
type Platform interface {
	// QueryCPUMaxFrequencies returns one entry per logical core, in
	// core-index order.
	QueryCPUMaxFrequencies() ([]float64, error)

	// BindCurrentThreadToCores pins the calling OS thread to the given
	// core set. Callers must have already called runtime.LockOSThread.
	BindCurrentThreadToCores(cores []int) error
}
