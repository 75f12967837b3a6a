//go:build !linux && !windows
// +build !linux,!windows

// File: internal/platform/platform_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub for platforms without a known affinity/frequency mechanism.
// Both failures are environmental (§7 class 1): callers log and
// proceed unpinned.

package platform

import "github.com/momentics/hioload-tpool/api"

func queryCPUMaxFrequencies() ([]float64, error) {
	return nil, api.NewError(api.ErrCodeNotSupported, "platform: cpu frequency query not supported")
}

func bindCurrentThreadToCores(cores []int) error {
	if len(cores) == 0 {
		return nil
	}
	return api.ErrPlatformUnbound
}
