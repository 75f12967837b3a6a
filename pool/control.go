// File: pool/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool implements api.Control directly over the three control
// primitives (ConfigStore, MetricsRegistry, DebugProbes), the same
// combination the reference control adapter wires together.

package pool

import "github.com/momentics/hioload-tpool/control"

func (p *Pool) registerDebugProbes() {
	control.RegisterPlatformProbes(p.debug)

	p.debug.RegisterProbe("pool.workers", func() any { return p.threadCount })
	p.debug.RegisterProbe("pool.default_tile_count", func() any { return p.defaultTileCount })
	p.debug.RegisterProbe("pool.destroyed", func() any { return p.destroyed.Load() })
	p.debug.RegisterInt64SliceProbe("pool.range_len", func() []int64 {
		lens := make([]int64, len(p.states))
		for i, st := range p.states {
			lens[i] = st.rangeLen.Load()
		}
		return lens
	})
	p.debug.RegisterIntSliceProbe("pool.cores_selected", func() []int {
		if len(p.states) == 0 {
			return nil
		}
		return p.states[0].cores
	})
}

// GetConfig implements api.Control.
func (p *Pool) GetConfig() map[string]any {
	return p.config.GetSnapshot()
}

// SetConfig implements api.Control. Only default_tile_count is
// consulted by the pool itself, and only at the next Compute* call;
// unrecognized keys are stored but otherwise inert. The override is
// applied synchronously here rather than through the store's async
// OnReload listeners, so a caller observes the new default_tile_count
// as soon as SetConfig returns.
func (p *Pool) SetConfig(cfg map[string]any) error {
	p.config.SetConfig(cfg)
	p.applyConfigOverrides()
	return nil
}

// Stats implements api.Control: pool counters plus debug probe output,
// the debug half namespaced to keep the two registries from colliding.
func (p *Pool) Stats() map[string]any {
	p.metrics.Set("tasks_submitted", p.tasksSubmitted.Load())
	p.metrics.Set("tasks_executed_own", p.tasksExecutedOwn.Load())
	p.metrics.Set("tasks_executed_stolen", p.tasksExecutedStolen.Load())
	p.metrics.Set("run_calls", p.runCalls.Load())
	p.metrics.Set("wait_nanos", p.waitNanos.Load())

	out := p.metrics.GetSnapshot()
	out["wait_nanos_recent"] = p.metrics.RecentSamples()
	for k, v := range p.debug.DumpState() {
		out["debug."+k] = v
	}
	return out
}

// OnReload implements api.Control. fn is registered both against this
// pool's own config store and the package-level hot-reload hook list,
// so a host that calls control.TriggerHotReload() for an unrelated
// component still reaches pool listeners.
func (p *Pool) OnReload(fn func()) {
	p.config.OnReload(fn)
	control.RegisterReloadHook(fn)
}

// RegisterDebugProbe implements api.Control.
func (p *Pool) RegisterDebugProbe(name string, fn func() any) {
	p.debug.RegisterProbe(name, fn)
}
