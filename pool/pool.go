// File: pool/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool is the CPU-affinity-aware, work-stealing thread pool: N OS
// threads, index 0 is the submitting thread (never spawned, it
// participates in Run), indices 1..N-1 are long-lived spawned workers.
// Construction picks a core set from a policy and the platform's
// reported per-core maximum frequencies; Init spawns and pins the
// workers; Run partitions and dispatches; Destroy joins them.

package pool

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-tpool/api"
	"github.com/momentics/hioload-tpool/control"
	"github.com/momentics/hioload-tpool/internal/concurrency"
	"github.com/momentics/hioload-tpool/internal/platform"
)

// workerState holds the atomic range triple a worker owns plus the
// borrowed callback handle for the in-flight Run. rangeLen is the
// arbitrator: readers always CAS on it before touching rangeStart or
// rangeEnd, and only the owner mutates rangeStart while only stealers
// mutate rangeEnd (see threadRun in worker.go).
type workerState struct {
	rangeStart atomic.Int64
	rangeEnd   atomic.Int64
	rangeLen   atomic.Int64
	cb         atomic.Pointer[api.IndexFunc]
	cores      []int
}

var (
	_ api.Pool    = (*Pool)(nil)
	_ api.Control = (*Pool)(nil)
)

// Pool implements api.Pool and api.Control.
type Pool struct {
	threadCount      int
	states           []*workerState
	event            *concurrency.EventChannel
	latch            *concurrency.CountdownLatch
	runMu            sync.Mutex
	defaultTileCount int

	platform api.Platform
	selector api.AffinitySelector

	initOnce  sync.Once
	destroyed atomic.Bool
	workerWG  sync.WaitGroup

	// Hot-path counters, copied into the metrics registry only on
	// snapshot request (see control.go); never allocate on this path.
	tasksSubmitted      atomic.Int64
	tasksExecutedOwn    atomic.Int64
	tasksExecutedStolen atomic.Int64
	runCalls            atomic.Int64
	waitNanos           atomic.Int64

	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

// New constructs a pool for threadCountHint OS threads (0 means "use
// all available cores") under the given affinity policy. Construction
// queries the platform for per-core frequencies and binds the calling
// (submitting) thread's affinity once; it does not spawn workers —
// call Init for that.
func New(threadCountHint int, policy api.AffinityPolicy) *Pool {
	return newPool(threadCountHint, policy, platform.New(), concurrency.NewSelector())
}

// newPool is the fully-injected constructor used by tests to substitute
// a fake platform/selector.
func newPool(threadCountHint int, policy api.AffinityPolicy, plat api.Platform, sel api.AffinitySelector) *Pool {
	threadCount := threadCountHint

	freqs, err := plat.QueryCPUMaxFrequencies()
	if err != nil {
		log.Printf("pool: failed to query cpu max frequencies: %v", err)
		freqs = nil
	}

	if len(freqs) == 0 {
		threadCount = 1
	} else {
		if threadCount == 0 || threadCount > len(freqs) {
			threadCount = len(freqs)
		}
		if threadCount < 1 {
			threadCount = 1
		}
	}

	cores, err := sel.SelectCores(freqs, policy, threadCount)
	if err != nil {
		log.Printf("pool: affinity selection failed: %v", err)
		cores = nil
	}

	var selectedFreqs []float64
	if len(cores) > 0 {
		runtime.LockOSThread()
		if err := plat.BindCurrentThreadToCores(cores); err != nil {
			log.Printf("pool: failed to bind submitter thread affinity: %v", err)
		}
		if threadCount > len(cores) {
			threadCount = len(cores)
		}
		selectedFreqs = make([]float64, len(cores))
		for i, c := range cores {
			selectedFreqs[i] = freqs[c]
		}
	}

	p := &Pool{
		threadCount:      threadCount,
		event:            concurrency.NewEventChannel(),
		latch:            concurrency.NewCountdownLatch(),
		defaultTileCount: concurrency.DefaultTileCount(threadCount, selectedFreqs),
		platform:         plat,
		selector:         sel,
		config:           control.NewConfigStore(),
		metrics:          control.NewMetricsRegistry(),
		debug:            control.NewDebugProbes(),
	}
	p.states = make([]*workerState, threadCount)
	for i := range p.states {
		p.states[i] = &workerState{cores: cores}
	}
	p.config.SetConfig(map[string]any{
		"thread_count_hint":  threadCountHint,
		"policy":             policy.String(),
		"default_tile_count": p.defaultTileCount,
		"spin_budget_millis": 2,
	})
	p.registerDebugProbes()
	return p
}

// applyConfigOverrides reads default_tile_count from the config
// snapshot and, if present and positive, replaces the bookkeeping
// value consulted by the tile planner on the next Compute* call. It
// never touches the live worker slice.
func (p *Pool) applyConfigOverrides() {
	snap := p.config.GetSnapshot()
	v, ok := snap["default_tile_count"]
	if !ok {
		return
	}
	n, ok := v.(int)
	if !ok || n <= 0 {
		return
	}
	p.defaultTileCount = n
}

// NumWorkers implements api.Pool.
func (p *Pool) NumWorkers() int { return p.threadCount }

// Init spawns threadCount-1 workers and blocks until each has pinned
// itself and acknowledged Init. Idempotent; a no-op when there is only
// the submitter.
func (p *Pool) Init() {
	if p.threadCount <= 1 {
		return
	}
	p.initOnce.Do(func() {
		p.latch.Reset(p.threadCount - 1)
		p.event.Publish(concurrency.EventInit)
		for i := 1; i < p.threadCount; i++ {
			p.workerWG.Add(1)
			go p.workerLoop(i)
		}
		p.latch.Wait()
	})
}

// Run partitions [0, iterations) into threadCount contiguous, disjoint
// half-open ranges, invokes cb(i) exactly once per index, and returns
// only once every invocation has completed. Concurrent Run calls are
// serialized on runMu; Run may be called any number of times.
func (p *Pool) Run(cb api.IndexFunc, iterations int) {
	if p.destroyed.Load() {
		panic(api.ErrPoolClosed)
	}
	p.runMu.Lock()
	defer p.runMu.Unlock()

	p.runCalls.Add(1)
	p.tasksSubmitted.Add(int64(iterations))

	n := p.threadCount
	base := iterations / n
	remainder := iterations % n
	offset := 0
	for i := 0; i < n; i++ {
		count := base
		if i < remainder {
			count++
		}
		end := offset + count
		if end > iterations {
			end = iterations
		}
		st := p.states[i]
		st.rangeStart.Store(int64(offset))
		st.rangeEnd.Store(int64(end))
		st.rangeLen.Store(int64(end - offset))
		st.cb.Store(&cb)
		offset = end
	}

	if n > 1 {
		p.latch.Reset(n - 1)
		p.event.Publish(concurrency.EventRun)
	}

	p.threadRun(0)

	if n > 1 {
		waitStart := time.Now()
		p.latch.Wait()
		elapsed := int64(time.Since(waitStart))
		p.waitNanos.Add(elapsed)
		p.metrics.RecordSample(elapsed)
	}
}

// Destroy signals Shutdown and joins all spawned workers. Must not be
// called while a Run is in progress: it waits on the latch under the
// assumption the last Run has already returned, then broadcasts
// Shutdown — calling Destroy concurrently with Run is undefined by
// this layer, matching the reference implementation's own contract.
func (p *Pool) Destroy() {
	if !p.destroyed.CompareAndSwap(false, true) {
		return
	}
	if p.threadCount <= 1 {
		return
	}
	p.runMu.Lock()
	defer p.runMu.Unlock()

	p.latch.Wait()
	p.event.Publish(concurrency.EventShutdown)
	p.workerWG.Wait()
}
