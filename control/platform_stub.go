//go:build !linux && !windows
// +build !linux,!windows

// control/platform_stub.go
// Author: momentics <momentics@gmail.com>
//
// Fallback platform probes for OSes without dedicated integration.

package control

import "runtime"

// RegisterPlatformProbes sets the OS-independent debug probes; see
// platform_linux.go for why frequency-specific probes live elsewhere.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
