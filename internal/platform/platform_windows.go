//go:build windows
// +build windows

// File: internal/platform/platform_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows implementation of the pool's OS abstraction. Frequency is
// read from the ~MHz value Windows publishes per logical processor in
// the registry (an approximation of max frequency, the same value
// tools like msinfo32 report); affinity binding sets a full core-set
// mask via SetThreadAffinityMask.

package platform

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

func queryCPUMaxFrequencies() ([]float64, error) {
	n := runtime.NumCPU()
	freqs := make([]float64, n)
	for i := 0; i < n; i++ {
		keyPath := fmt.Sprintf(`HARDWARE\DESCRIPTION\System\CentralProcessor\%d`, i)
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, keyPath, registry.QUERY_VALUE)
		if err != nil {
			return nil, fmt.Errorf("platform: open %s: %w", keyPath, err)
		}
		mhz, _, err := k.GetIntegerValue("~MHz")
		k.Close()
		if err != nil {
			return nil, fmt.Errorf("platform: read ~MHz for cpu %d: %w", i, err)
		}
		freqs[i] = float64(mhz)
	}
	return freqs, nil
}

func bindCurrentThreadToCores(cores []int) error {
	if len(cores) == 0 {
		return nil
	}
	var mask uintptr
	for _, c := range cores {
		mask |= 1 << uint(c)
	}
	h := windows.CurrentThread()
	prev, err := windows.SetThreadAffinityMask(h, mask)
	if prev == 0 {
		return err
	}
	return nil
}
