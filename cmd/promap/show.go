// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/promap"
	"github.com/gogpu/promap/blend"
	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/geom"
	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/media"
	"github.com/gogpu/promap/output"
)

const patternSize = 512

// buildDemo sets up two 960x540 projectors with a 10% blended overlap, a
// keystoned grid and a translucent ellipse on top.
func buildDemo(e *promap.Engine) error {
	if err := e.ResizeCanvas(1824, 540); err != nil {
		return err
	}
	ids, err := e.CreateArray(1, 2, output.Resolution{Width: 960, Height: 540}, 0.1)
	if err != nil {
		return err
	}
	if err := e.ConfigureOutput(ids[1], func(o *output.Output) error {
		o.Calibration.Temperature = 5600
		o.Calibration.GammaR = 1.1
		return nil
	}); err != nil {
		return err
	}

	wall, err := e.AddMapping(mapping.New("wall", "grid"))
	if err != nil {
		return err
	}
	if err := e.SetKeystone(wall, [4]geom.Vec2{
		{X: 0.04, Y: 0.02}, {X: 0.97, Y: 0.06}, {X: 0.99, Y: 0.95}, {X: 0.02, Y: 0.99},
	}); err != nil {
		return err
	}

	spot := mapping.New("spot", "wash")
	spot.Mesh = geom.NewEllipse(48)
	spot.Blend = blend.Screen
	spot.Opacity = 0.6
	spot.Depth = 1
	id, err := e.AddMapping(spot)
	if err != nil {
		return err
	}
	return e.SetPerspective(id, [4]geom.Vec2{
		{X: 0.3, Y: 0.2}, {X: 0.7, Y: 0.15}, {X: 0.72, Y: 0.85}, {X: 0.28, Y: 0.8},
	})
}

// patternSource feeds every content reference of the show a test pattern.
type patternSource struct {
	kind   string
	engine *promap.Engine

	mu   sync.Mutex
	refs map[media.ContentRef]int
}

func newPatternSource(kind string) (*patternSource, error) {
	switch kind {
	case "grid", "bars", "gradient", "sweep":
	default:
		return nil, fmt.Errorf("unknown pattern %q", kind)
	}
	return &patternSource{kind: kind, refs: make(map[media.ContentRef]int)}, nil
}

// publishAll publishes a frame for every content reference in use.
func (p *patternSource) publishAll() {
	for _, m := range p.engine.Mappings() {
		p.publish(m.Content, 0)
	}
}

// advance animates the sweep pattern once per tick.
func (p *patternSource) advance(rep promap.TickReport) {
	if p.kind != "sweep" {
		return
	}
	p.mu.Lock()
	refs := make([]media.ContentRef, 0, len(p.refs))
	for ref := range p.refs {
		refs = append(refs, ref)
	}
	p.mu.Unlock()
	for _, ref := range refs {
		p.publish(ref, float64(rep.Tick%120)/120)
	}
}

func (p *patternSource) publish(ref media.ContentRef, phase float64) {
	p.mu.Lock()
	idx, ok := p.refs[ref]
	if !ok {
		idx = len(p.refs)
		p.refs[ref] = idx
	}
	p.mu.Unlock()

	var (
		f   *frame.Frame
		err error
	)
	switch p.kind {
	case "grid":
		f, err = media.GridPattern(patternSize, patternSize, 16)
	case "bars":
		f, err = media.ColorBars(patternSize, patternSize)
	case "gradient":
		hue := float64(idx*67) + 200
		f, err = media.Gradient(patternSize, patternSize,
			colorful.Hsv(hue, 0.8, 0.9), colorful.Hsv(hue+120, 0.6, 0.3))
	case "sweep":
		f, err = media.Sweep(patternSize, patternSize, phase)
	}
	if err != nil {
		promap.Logger().Warn("pattern", "content", ref, "err", err)
		return
	}
	p.engine.Media().Publish(ref, f)
}
