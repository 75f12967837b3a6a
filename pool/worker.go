// File: pool/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker loop (spawn, pin, wait for event, execute, acknowledge) and
// the lock-free work-stealing executor each worker runs once it
// observes a Run event.

package pool

import (
	"log"
	"runtime"
	"sync/atomic"

	"github.com/momentics/hioload-tpool/api"
	"github.com/momentics/hioload-tpool/internal/concurrency"
)

// workerLoop is the body of a spawned worker goroutine (tid 1..N-1).
// It pins the underlying OS thread to its assigned core set once, then
// waits for event transitions until it observes Shutdown.
func (p *Pool) workerLoop(tid int) {
	defer p.workerWG.Done()

	st := p.states[tid]
	if len(st.cores) > 0 {
		runtime.LockOSThread()
		if err := p.platform.BindCurrentThreadToCores(st.cores); err != nil {
			log.Printf("pool: worker %d failed to bind affinity: %v", tid, err)
		}
	}

	last := concurrency.EventWord(0)
	for {
		word := p.event.Wait(last)
		switch word.Tag() {
		case concurrency.EventInit:
			p.latch.CountDown()
		case concurrency.EventRun:
			p.threadRun(tid)
			p.latch.CountDown()
		case concurrency.EventShutdown:
			return
		}
		last = word
	}
}

// threadRun drains tid's own range from the head, then steals tail
// work from peers in cyclic order (tid+1, tid+2, ..., tid+N-1) mod N.
// It returns once every worker's range has been observed empty.
func (p *Pool) threadRun(tid int) {
	own := p.states[tid]
	if cb := own.cb.Load(); cb != nil {
		drainOwn(*cb, own, &p.tasksExecutedOwn)
	}

	n := p.threadCount
	for off := 1; off < n; off++ {
		t := (tid + off) % n
		peer := p.states[t]
		cb := peer.cb.Load()
		if cb == nil {
			continue
		}
		drainSteal(*cb, peer, &p.tasksExecutedStolen)
	}
}

// drainOwn claims indices from the head of st's range, incrementing
// rangeStart after each successful claim. rangeLen is the arbitrator:
// callers CAS on it before touching rangeStart.
func drainOwn(cb api.IndexFunc, st *workerState, executed *atomic.Int64) {
	for {
		remaining := st.rangeLen.Load()
		if remaining <= 0 {
			return
		}
		if !st.rangeLen.CompareAndSwap(remaining, remaining-1) {
			continue
		}
		idx := st.rangeStart.Add(1) - 1
		cb(int(idx))
		executed.Add(1)
	}
}

// drainSteal claims indices from the tail of a peer's range,
// decrementing rangeEnd after each successful claim. This head/tail
// split is what keeps the owner and stealers from contending on the
// same atomic.
func drainSteal(cb api.IndexFunc, st *workerState, executed *atomic.Int64) {
	for {
		remaining := st.rangeLen.Load()
		if remaining <= 0 {
			return
		}
		if !st.rangeLen.CompareAndSwap(remaining, remaining-1) {
			continue
		}
		idx := st.rangeEnd.Add(-1)
		cb(int(idx))
		executed.Add(1)
	}
}
