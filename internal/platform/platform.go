// File: internal/platform/platform.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral entry point for the two operations the pool consumes
// from the OS: per-core maximum frequency discovery and OS-thread
// affinity binding. Platform-specific implementations live in
// platform_linux.go, platform_windows.go and platform_stub.go, guarded
// by build tags, the same layering the teacher uses for its own
// affinity package.

package platform

import "github.com/momentics/hioload-tpool/api"

// Default is the Platform implementation selected for the current
// build target.
type Default struct{}

// New returns the platform adapter for the current OS.
func New() *Default { return &Default{} }

var _ api.Platform = (*Default)(nil)

// QueryCPUMaxFrequencies implements api.Platform.
func (Default) QueryCPUMaxFrequencies() ([]float64, error) {
	return queryCPUMaxFrequencies()
}

// BindCurrentThreadToCores implements api.Platform.
func (Default) BindCurrentThreadToCores(cores []int) error {
	return bindCurrentThreadToCores(cores)
}
