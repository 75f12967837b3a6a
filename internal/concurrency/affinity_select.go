// File: internal/concurrency/affinity_select.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pure core-selection algorithm: given per-core maximum frequencies and
// a policy, decide which cores workers should pin to. No I/O, no
// platform syscalls — those live in internal/platform.

package concurrency

import (
	"sort"

	"github.com/momentics/hioload-tpool/api"
)

type coreFreq struct {
	coreID int
	freq   float64
}

// Selector implements api.AffinitySelector.
type Selector struct{}

// NewSelector returns the default affinity selector.
func NewSelector() *Selector { return &Selector{} }

// SelectCores implements api.AffinitySelector.
func (Selector) SelectCores(cpuMaxFreqs []float64, policy api.AffinityPolicy, threadCountHint int) ([]int, error) {
	if len(cpuMaxFreqs) == 0 {
		return nil, api.ErrNoCores
	}

	cpuCount := len(cpuMaxFreqs)
	threadCount := threadCountHint
	if threadCount == 0 || threadCount > cpuCount {
		threadCount = cpuCount
	}

	if policy == api.AffinityNone {
		return nil, nil
	}

	pairs := make([]coreFreq, cpuCount)
	for i, f := range cpuMaxFreqs {
		pairs[i] = coreFreq{coreID: i, freq: f}
	}

	switch policy {
	case api.AffinityPowerSave, api.AffinityLittleOnly:
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].freq < pairs[j].freq })
	case api.AffinityHighPerformance, api.AffinityBigOnly:
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].freq > pairs[j].freq })
	}

	var coresToUse int
	switch policy {
	case api.AffinityBigOnly, api.AffinityLittleOnly:
		coresToUse = 0
		for i := range pairs {
			if pairs[i].freq != pairs[0].freq {
				break
			}
			coresToUse++
		}
	default:
		coresToUse = threadCount
	}
	if coresToUse == 0 {
		panic("affinity: number of cores to use should be > 0")
	}

	cores := make([]int, coresToUse)
	for i := 0; i < coresToUse; i++ {
		cores[i] = pairs[i].coreID
	}
	sort.Ints(cores)
	return cores, nil
}

// heterogeneousTileMultiplier is applied to the thread count to derive
// DefaultTileCount when the selected cores span more than one
// frequency (big.LITTLE), giving the scheduler more, smaller tiles to
// balance across fast and slow cores. Mirrors kTileCountPerThread.
const heterogeneousTileMultiplier = 2

// DefaultTileCount derives the target tile count for a thread count and
// the max frequencies of the cores actually selected (empty means no
// pinning, treated as homogeneous). Heterogeneity is "the selected
// cores don't all share the same maximum frequency" — the general form
// of the invariant this pool's protocol is grounded on.
func DefaultTileCount(threadCount int, selectedCoreFreqs []float64) int {
	tileCount := threadCount
	if len(selectedCoreFreqs) >= 2 {
		min, max := selectedCoreFreqs[0], selectedCoreFreqs[0]
		for _, f := range selectedCoreFreqs[1:] {
			if f < min {
				min = f
			}
			if f > max {
				max = f
			}
		}
		if min != max {
			tileCount = threadCount * heterogeneousTileMultiplier
		}
	}
	if tileCount <= 0 {
		panic("affinity: default tile count should be > 0")
	}
	return tileCount
}
