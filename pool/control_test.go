// File: pool/control_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"testing"
	"time"

	"github.com/momentics/hioload-tpool/api"
	"github.com/momentics/hioload-tpool/internal/concurrency"
)

func TestPoolConfigSnapshotHasExpectedKeys(t *testing.T) {
	p := newPool(4, api.AffinityNone, homogeneousPlatform(4), concurrency.NewSelector())
	defer p.Destroy()

	snap := p.GetConfig()
	for _, key := range []string{"thread_count_hint", "policy", "default_tile_count", "spin_budget_millis"} {
		if _, ok := snap[key]; !ok {
			t.Errorf("config snapshot missing key %q", key)
		}
	}
}

func TestPoolSetConfigOverridesTileCountOnReload(t *testing.T) {
	p := newPool(4, api.AffinityNone, homogeneousPlatform(4), concurrency.NewSelector())
	defer p.Destroy()

	before := p.defaultTileCount
	if err := p.SetConfig(map[string]any{"default_tile_count": before + 7}); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if p.defaultTileCount != before+7 {
		t.Fatalf("defaultTileCount = %d, want %d after override", p.defaultTileCount, before+7)
	}
}

func TestPoolSetConfigIgnoresInvalidTileCountOverride(t *testing.T) {
	p := newPool(4, api.AffinityNone, homogeneousPlatform(4), concurrency.NewSelector())
	defer p.Destroy()

	before := p.defaultTileCount
	_ = p.SetConfig(map[string]any{"default_tile_count": -1})
	if p.defaultTileCount != before {
		t.Fatalf("defaultTileCount changed to %d on invalid override", p.defaultTileCount)
	}
}

func TestPoolStatsReflectsRunActivity(t *testing.T) {
	p := newTestPool(4)
	defer p.Destroy()

	p.Run(func(int) {}, 100)

	stats := p.Stats()
	if stats["run_calls"].(int64) != 1 {
		t.Fatalf("run_calls = %v, want 1", stats["run_calls"])
	}
	if stats["tasks_submitted"].(int64) != 100 {
		t.Fatalf("tasks_submitted = %v, want 100", stats["tasks_submitted"])
	}
	total := stats["tasks_executed_own"].(int64) + stats["tasks_executed_stolen"].(int64)
	if total != 100 {
		t.Fatalf("executed total = %d, want 100", total)
	}
	if _, ok := stats["debug.pool.workers"]; !ok {
		t.Fatal("stats missing namespaced debug probe output")
	}
}

func TestPoolRegisterDebugProbeIsVisibleInStats(t *testing.T) {
	p := newTestPool(2)
	defer p.Destroy()

	p.RegisterDebugProbe("test.marker", func() any { return "ok" })
	stats := p.Stats()
	if stats["debug.test.marker"] != "ok" {
		t.Fatalf("debug.test.marker = %v, want ok", stats["debug.test.marker"])
	}
}

func TestPoolOnReloadInvokedOnSetConfig(t *testing.T) {
	p := newPool(2, api.AffinityNone, homogeneousPlatform(2), concurrency.NewSelector())
	defer p.Destroy()

	fired := make(chan struct{}, 1)
	p.OnReload(func() { fired <- struct{}{} })
	if err := p.SetConfig(map[string]any{"x": 1}); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("OnReload hook was not invoked")
	}
}

var _ api.Control = (*Pool)(nil)
