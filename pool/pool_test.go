// File: pool/pool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-tpool/api"
	"github.com/momentics/hioload-tpool/internal/concurrency"
)

func newTestPool(threadCount int) *Pool {
	p := newPool(threadCount, api.AffinityNone, homogeneousPlatform(threadCount), concurrency.NewSelector())
	p.Init()
	return p
}

func runWithTimeout(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("timed out after %s", d)
	}
}

func TestRunCoversAllIndicesExactlyOnce(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 8} {
		n := n
		t.Run("", func(t *testing.T) {
			p := newTestPool(n)
			defer p.Destroy()

			const iterations = 10007
			var hits [iterations]int32
			runWithTimeout(t, 5*time.Second, func() {
				p.Run(func(i int) {
					atomic.AddInt32(&hits[i], 1)
				}, iterations)
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times, want 1", i, h)
				}
			}
		})
	}
}

func TestRunZeroIterationsIsNoop(t *testing.T) {
	p := newTestPool(4)
	defer p.Destroy()

	called := false
	runWithTimeout(t, time.Second, func() {
		p.Run(func(int) { called = true }, 0)
	})
	if called {
		t.Fatal("callback invoked for zero iterations")
	}
}

func TestRunSingleThreadEquivalence(t *testing.T) {
	p := newPool(1, api.AffinityNone, homogeneousPlatform(1), concurrency.NewSelector())
	p.Init()
	defer p.Destroy()

	if p.NumWorkers() != 1 {
		t.Fatalf("NumWorkers() = %d, want 1", p.NumWorkers())
	}

	var order []int
	p.Run(func(i int) { order = append(order, i) }, 5)
	for i, v := range order {
		if v != i {
			t.Fatalf("single-thread order[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestRunReusablePool(t *testing.T) {
	p := newTestPool(4)
	defer p.Destroy()

	for round := 0; round < 20; round++ {
		var hits [100]int32
		p.Run(func(i int) { atomic.AddInt32(&hits[i], 1) }, 100)
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("round %d: index %d visited %d times", round, i, h)
			}
		}
	}
}

func TestInitIsIdempotent(t *testing.T) {
	p := newPool(4, api.AffinityNone, homogeneousPlatform(4), concurrency.NewSelector())
	defer p.Destroy()

	p.Init()
	p.Init()
	p.Init()

	var hits [40]int32
	p.Run(func(i int) { atomic.AddInt32(&hits[i], 1) }, 40)
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}

func TestDestroyJoinsWorkers(t *testing.T) {
	p := newPool(4, api.AffinityNone, homogeneousPlatform(4), concurrency.NewSelector())
	p.Init()
	p.Run(func(int) {}, 100)
	runWithTimeout(t, 2*time.Second, p.Destroy)
	// A second Destroy must be a harmless no-op.
	p.Destroy()
}

func TestRunPanicsAfterDestroy(t *testing.T) {
	p := newPool(4, api.AffinityNone, homogeneousPlatform(4), concurrency.NewSelector())
	p.Init()
	p.Destroy()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Run after Destroy")
		}
	}()
	p.Run(func(int) {}, 10)
}

func TestConcurrentRunCallersAreSerialized(t *testing.T) {
	p := newTestPool(4)
	defer p.Destroy()

	const callers = 8
	const iterations = 500
	var wg sync.WaitGroup
	for c := 0; c < callers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var hits [iterations]int32
			p.Run(func(i int) { atomic.AddInt32(&hits[i], 1) }, iterations)
			for i, h := range hits {
				if h != 1 {
					t.Errorf("caller run: index %d visited %d times", i, h)
				}
			}
		}()
	}
	runWithTimeout(t, 10*time.Second, wg.Wait)
}

func TestWorkStealingUnevenLoadStillCoversAll(t *testing.T) {
	p := newTestPool(4)
	defer p.Destroy()

	const iterations = 400
	var hits [iterations]int32
	runWithTimeout(t, 5*time.Second, func() {
		p.Run(func(i int) {
			if i%97 == 0 {
				time.Sleep(2 * time.Millisecond)
			}
			atomic.AddInt32(&hits[i], 1)
		}, iterations)
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}

func TestNewSelectsBigOnlyPolicy(t *testing.T) {
	p := newPool(0, api.AffinityBigOnly, bigLittlePlatform(), concurrency.NewSelector())
	defer p.Destroy()

	if p.NumWorkers() != 4 {
		t.Fatalf("NumWorkers() = %d, want 4 (big cluster size)", p.NumWorkers())
	}
	if p.defaultTileCount != p.NumWorkers() {
		t.Fatalf("defaultTileCount = %d, want %d for homogeneous big cluster", p.defaultTileCount, p.NumWorkers())
	}
}

func TestNewHighPerformanceHintOnHeterogeneousCPU(t *testing.T) {
	p := newPool(2, api.AffinityHighPerformance, bigLittlePlatform(), concurrency.NewSelector())
	defer p.Destroy()

	if p.NumWorkers() != 2 {
		t.Fatalf("NumWorkers() = %d, want 2", p.NumWorkers())
	}
}

func TestNewFallsBackToSingleThreadOnFrequencyQueryFailure(t *testing.T) {
	fp := &fakePlatform{queryErr: api.NewError(api.ErrCodeNotSupported, "no freqs")}
	p := newPool(4, api.AffinityHighPerformance, fp, concurrency.NewSelector())
	defer p.Destroy()

	if p.NumWorkers() != 1 {
		t.Fatalf("NumWorkers() = %d, want 1 when frequency query fails", p.NumWorkers())
	}
}
