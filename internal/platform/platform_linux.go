//go:build linux
// +build linux

// File: internal/platform/platform_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux implementation of the pool's OS abstraction: cpufreq sysfs for
// per-core maximum frequency, sched_setaffinity via golang.org/x/sys/unix
// for binding. Uses the pure-Go syscall wrapper rather than cgo's
// pthread_setaffinity_np, the same package the rest of this corpus
// already reaches for (epoll, raw sockets) — see DESIGN.md.

package platform

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

func queryCPUMaxFrequencies() ([]float64, error) {
	n := runtime.NumCPU()
	freqs := make([]float64, n)
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("/sys/devices/system/cpu/cpu%d/cpufreq/cpuinfo_max_freq", i)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("platform: read %s: %w", path, err)
		}
		khz, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
		if err != nil {
			return nil, fmt.Errorf("platform: parse %s: %w", path, err)
		}
		freqs[i] = khz / 1000.0 // MHz
	}
	return freqs, nil
}

func bindCurrentThreadToCores(cores []int) error {
	if len(cores) == 0 {
		return nil
	}
	var set unix.CPUSet
	set.Zero()
	for _, c := range cores {
		set.Set(c)
	}
	return unix.SchedSetaffinity(0, &set)
}
