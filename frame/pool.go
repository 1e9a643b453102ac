// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "sync"

// Pool recycles frames of identical size between ticks.
//
// All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Frame
	limit   int
}

type poolKey struct {
	width, height int
}

// NewPool returns a pool keeping at most perSize frames of each size.
// Zero means unlimited.
func NewPool(perSize int) *Pool {
	return &Pool{buckets: make(map[poolKey][]*Frame), limit: perSize}
}

// Get returns a cleared frame of the requested size.
func (p *Pool) Get(width, height int) (*Frame, error) {
	key := poolKey{width, height}
	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		f := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		f.Clear()
		return f, nil
	}
	p.mu.Unlock()
	return New(width, height)
}

// Put hands f back to the pool. Nil frames are ignored.
func (p *Pool) Put(f *Frame) {
	if f == nil {
		return
	}
	key := poolKey{f.Width, f.Height}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limit > 0 && len(p.buckets[key]) >= p.limit {
		return
	}
	p.buckets[key] = append(p.buckets[key], f)
}

// Len returns the number of pooled frames.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
