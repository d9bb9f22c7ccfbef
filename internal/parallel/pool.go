package parallel

import (
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
)

// RowRange is a half-open [Start, End) band of raster rows.
type RowRange struct {
	Start int
	End   int
}

// Empty reports whether the range covers no rows.
func (r RowRange) Empty() bool { return r.End <= r.Start }

// Partition splits totalRows into workerCount contiguous, disjoint row ranges.
// The split depends only on its arguments, so output produced over the ranges
// is identical for any worker count. When totalRows < workerCount the surplus
// workers receive empty ranges; no range is ever given a negative row span.
func Partition(totalRows, workerCount int) []RowRange {
	if workerCount < 1 {
		workerCount = 1
	}
	ranges := make([]RowRange, workerCount)
	if totalRows < 1 {
		return ranges
	}
	base := totalRows / workerCount
	rem := totalRows % workerCount
	row := 0
	for i := range ranges {
		n := base
		if i < rem {
			n++
		}
		ranges[i] = RowRange{Start: row, End: row + n}
		row += n
	}
	return ranges
}

// Pool is a fixed set of worker goroutines executing row-range tasks.
// Dispatch is fork/join: the call blocks until every submitted range has been
// processed, so a completed Dispatch acts as a memory barrier between passes.
type Pool struct {
	workers int
	jobs    chan job
	closed  sync.Once
}

type job struct {
	rng RowRange
	fn  func(RowRange)
	wg  *sync.WaitGroup
}

// NewPool starts a pool with the given number of workers. size < 1 selects
// the hardware parallelism reported by gopsutil, falling back to
// runtime.NumCPU when the probe fails.
func NewPool(size int) *Pool {
	if size < 1 {
		size = hardwareWorkers()
	}
	p := &Pool{
		workers: size,
		jobs:    make(chan job),
	}
	for i := 0; i < size; i++ {
		go func() {
			for j := range p.jobs {
				j.fn(j.rng)
				j.wg.Done()
			}
		}()
	}
	return p
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

// Dispatch partitions totalRows across the pool and runs fn on every
// non-empty range, blocking until all of them complete.
func (p *Pool) Dispatch(totalRows int, fn func(RowRange)) {
	var wg sync.WaitGroup
	for _, rng := range Partition(totalRows, p.workers) {
		if rng.Empty() {
			continue
		}
		wg.Add(1)
		p.jobs <- job{rng: rng, fn: fn, wg: &wg}
	}
	wg.Wait()
}

// Close stops the workers. Dispatch must not be called after Close.
func (p *Pool) Close() {
	p.closed.Do(func() { close(p.jobs) })
}

func hardwareWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
