// Package api
// Author: momentics@gmail.com
//
// CPU affinity selection contract: choosing which cores a pool pins to,
// independent of the platform-specific binding mechanism (see Platform
// in pool.go).

package api

// AffinitySelector picks which cores to use given per-core maximum
// frequencies, a policy, and a thread-count hint. Implementations must
// be pure: same inputs, same output, no I/O.
type AffinitySelector interface {
	// SelectCores returns the ordered core IDs to pin to. An empty,
	// nil-error result means "no pinning requested" (AffinityNone).
	SelectCores(cpuMaxFreqs []float64, policy AffinityPolicy, threadCountHint int) ([]int, error)
}
