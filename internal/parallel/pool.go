// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package parallel runs per-pixel frame passes across a fixed set of worker
// goroutines.
//
// Work is split into horizontal bands of rows. Each worker owns a queue and
// steals from its neighbours when idle, so uneven bands (dense mesh areas,
// many overlapping mappings) still finish close together.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultMinBand is the smallest band height handed to a worker.
const DefaultMinBand = 16

// Pool is a work-stealing goroutine pool.
//
// A nil *Pool is valid and runs everything on the calling goroutine.
// Pool is safe for concurrent use, but tasks must not submit to the same
// pool and wait on the result.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// A non-positive count means GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), depth)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case task := <-own:
			task()
			continue
		default:
		}

		if task := p.steal(id); task != nil {
			task()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case task := <-own:
			task()
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case task := <-q:
			task()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case task := <-p.queues[(id+i)%p.workers]:
			return task
		default:
		}
	}
	return nil
}

// Run executes every task and returns when all of them have finished.
// On a nil or closed pool the tasks run sequentially on the caller.
func (p *Pool) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if p == nil || !p.running.Load() || len(tasks) == 1 {
		for _, task := range tasks {
			task()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		fn := task
		wrapped := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	wg.Wait()
}

// Rows splits [0, height) into bands of at least minBand rows and calls fn
// for each band, in parallel, returning when every band is done.
func (p *Pool) Rows(height, minBand int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if minBand <= 0 {
		minBand = DefaultMinBand
	}
	bands := 1
	if p != nil {
		bands = min(p.workers*2, (height+minBand-1)/minBand)
	}
	if bands <= 1 {
		fn(0, height)
		return
	}

	step := (height + bands - 1) / bands
	tasks := make([]func(), 0, bands)
	for y0 := 0; y0 < height; y0 += step {
		y1 := min(y0+step, height)
		tasks = append(tasks, func() { fn(y0, y1) })
	}
	p.Run(tasks)
}

// Close stops the workers after finishing queued tasks.
// Calling Close more than once is harmless.
func (p *Pool) Close() {
	if p == nil || !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines, 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Running reports whether the pool still accepts work.
func (p *Pool) Running() bool {
	return p != nil && p.running.Load()
}

// Queued approximates the number of tasks waiting in worker queues.
func (p *Pool) Queued() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, q := range p.queues {
		n += len(q)
	}
	return n
}
