// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug handler and probe reflector for internal inspection.

package control

import "sync"

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// RegisterInt64SliceProbe registers a probe that copies a snapshot of
// an int64 slice on each call, useful for exposing live per-worker
// range or queue-depth state without letting a caller of DumpState
// race against the backing slice or mutate it.
func (dp *DebugProbes) RegisterInt64SliceProbe(name string, values func() []int64) {
	dp.RegisterProbe(name, func() any {
		v := values()
		out := make([]int64, len(v))
		copy(out, v)
		return out
	})
}

// RegisterIntSliceProbe is the int analog of RegisterInt64SliceProbe,
// for state like a selected core-ID list.
func (dp *DebugProbes) RegisterIntSliceProbe(name string, values func() []int) {
	dp.RegisterProbe(name, func() any {
		v := values()
		out := make([]int, len(v))
		copy(out, v)
		return out
	})
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any)
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}
