// File: pool/fake_platform_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/momentics/hioload-tpool/api"

// fakePlatform reports a fixed set of per-core max frequencies and
// records bind calls instead of touching real OS affinity.
type fakePlatform struct {
	freqs     []float64
	queryErr  error
	bindErr   error
	bindCalls [][]int
}

func (f *fakePlatform) QueryCPUMaxFrequencies() ([]float64, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.freqs, nil
}

func (f *fakePlatform) BindCurrentThreadToCores(cores []int) error {
	f.bindCalls = append(f.bindCalls, append([]int(nil), cores...))
	return f.bindErr
}

var _ api.Platform = (*fakePlatform)(nil)

func homogeneousPlatform(n int) *fakePlatform {
	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = 2000
	}
	return &fakePlatform{freqs: freqs}
}

func bigLittlePlatform() *fakePlatform {
	// 4 little cores at 1400MHz, 4 big cores at 2800MHz.
	return &fakePlatform{freqs: []float64{1400, 1400, 1400, 1400, 2800, 2800, 2800, 2800}}
}
