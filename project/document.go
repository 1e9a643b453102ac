// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package project saves and restores the persistent state of an engine:
// canvas size, outputs and mappings.
//
// Documents are YAML or TOML, chosen by file extension. Every document
// carries a semantic version; documents from the same major version are
// migrated on load, others are rejected.
package project

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/gogpu/promap/blend"
	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/edgeblend"
)

// CurrentVersion is the document version written by this package.
const CurrentVersion = "1.1.0"

// supported accepts every document this package can migrate.
var supported = mustConstraint(">= 1.0.0, < 2.0.0")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Errors returned while decoding documents.
var (
	ErrUnsupportedVersion = errors.New("project: unsupported document version")
	ErrInvalidDocument    = errors.New("project: invalid document")
	ErrUnknownFormat      = errors.New("project: unknown file format")
)

// Document is the serialized form of a project.
type Document struct {
	Version  string        `yaml:"version" toml:"version"`
	Canvas   canvas.Canvas `yaml:"canvas" toml:"canvas"`
	Outputs  []OutputDoc   `yaml:"outputs,omitempty" toml:"outputs,omitempty"`
	Mappings []MappingDoc  `yaml:"mappings,omitempty" toml:"mappings,omitempty"`
}

// OutputDoc is the serialized form of an output.
type OutputDoc struct {
	ID          uint64                  `yaml:"id" toml:"id"`
	Name        string                  `yaml:"name" toml:"name"`
	Width       uint32                  `yaml:"width" toml:"width"`
	Height      uint32                  `yaml:"height" toml:"height"`
	Region      canvas.Region           `yaml:"region" toml:"region"`
	Fullscreen  bool                    `yaml:"fullscreen,omitempty" toml:"fullscreen,omitempty"`
	Backend     string                  `yaml:"backend,omitempty" toml:"backend,omitempty"`
	EdgeBlend   edgeblend.Config        `yaml:"edge_blend" toml:"edge_blend"`
	Calibration calibration.Calibration `yaml:"calibration" toml:"calibration"`
}

// MappingDoc is the serialized form of a mapping.
type MappingDoc struct {
	ID      uint64     `yaml:"id" toml:"id"`
	Name    string     `yaml:"name" toml:"name"`
	Content string     `yaml:"content" toml:"content"`
	Blend   blend.Mode `yaml:"blend" toml:"blend"`
	Visible bool       `yaml:"visible" toml:"visible"`
	Solo    bool       `yaml:"solo,omitempty" toml:"solo,omitempty"`
	Locked  bool       `yaml:"locked,omitempty" toml:"locked,omitempty"`
	Opacity float32    `yaml:"opacity" toml:"opacity"`

	// Depth is absent from 1.0 documents.
	Depth *float32 `yaml:"depth,omitempty" toml:"depth,omitempty"`

	Mesh MeshDoc `yaml:"mesh" toml:"mesh"`
}

// MeshDoc is the serialized form of a mesh. Each vertex is
// [x, y, u, v]; the patch, when present, lists 16 control points row by row.
type MeshDoc struct {
	Type     string       `yaml:"type" toml:"type"`
	Rows     int          `yaml:"rows,omitempty" toml:"rows,omitempty"`
	Cols     int          `yaml:"cols,omitempty" toml:"cols,omitempty"`
	Vertices [][4]float64 `yaml:"vertices" toml:"vertices"`
	Indices  []uint32     `yaml:"indices" toml:"indices"`
	Patch    [][2]float64 `yaml:"patch,omitempty" toml:"patch,omitempty"`
}

// checkVersion parses v and reports whether it can be loaded. An empty
// version is read as 1.0.0.
func checkVersion(v string) (*semver.Version, error) {
	if v == "" {
		v = "1.0.0"
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, v, err)
	}
	if !supported.Check(ver) {
		return nil, fmt.Errorf("%w: %s (want %s)", ErrUnsupportedVersion, ver, supported)
	}
	return ver, nil
}

// migrate upgrades d in place to CurrentVersion.
func migrate(d *Document, from *semver.Version) {
	if from.LessThan(semver.MustParse("1.1.0")) {
		// 1.0 drew mappings in list order.
		for i := range d.Mappings {
			if d.Mappings[i].Depth == nil {
				depth := float32(i)
				d.Mappings[i].Depth = &depth
			}
		}
	}
	d.Version = CurrentVersion
}
