// Package parallel provides a worker pool for splitting per-pixel work into
// horizontal bands.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines draining a shared queue.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// queue holds pending work items.
	queue chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), max(8, workers*4)),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case work := <-p.queue:
			work()
		}
	}
}

// ExecuteAll runs every item and waits for all of them to complete.
// On a closed pool the items run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var completion sync.WaitGroup
	completion.Add(len(work))
	for _, fn := range work {
		wrapped := func() {
			defer completion.Done()
			fn()
		}
		select {
		case p.queue <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	completion.Wait()
}

// ForBands splits the rows [0, n) into contiguous bands, one or more per
// worker, calls fn(lo, hi) for each band and waits. A nil pool runs fn once
// over the whole range.
func (p *WorkerPool) ForBands(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.workers == 1 || n < 2 {
		fn(0, n)
		return
	}
	bands := Bands(n, p.workers*2)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b[0], b[1]) }
	}
	p.ExecuteAll(work)
}

// Close stops the workers. Callers must not close a pool while an
// ExecuteAll is in flight.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// Bands splits [0, n) into at most parts contiguous, non-empty, ascending
// half-open ranges whose sizes differ by at most one.
func Bands(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	parts = min(max(parts, 1), n)
	out := make([][2]int, parts)
	size, extra := n/parts, n%parts
	lo := 0
	for i := range out {
		hi := lo + size
		if i < extra {
			hi++
		}
		out[i] = [2]int{lo, hi}
		lo = hi
	}
	return out
}
