// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package blend implements the blend modes used to composite mappings.
//
// All modes work on straight-alpha linear color. A mode contributes a
// per-channel function B(Cb, Cs) of backdrop and source; compositing then
// follows the W3C Compositing and Blending Level 1 model:
//
//	Cs' = (1 - αb)·Cs + αb·B(Cb, Cs)
//	Co  = over(Cb, Cs', αs·opacity)
//
// The mode is resolved to a Blender once per mapping, so the per-pixel loop
// carries no switch.
package blend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for an unrecognized name.
var ErrUnknownMode = errors.New("blend: unknown mode")

// Mode is a closed set of blend modes.
type Mode uint8

const (
	Normal Mode = iota
	Add
	Subtract
	Multiply
	Screen
	Overlay
	SoftLight
	HardLight
	Lighten
	Darken
	ColorDodge
	ColorBurn
	Difference
	Exclusion

	modeCount
)

var modeNames = [modeCount]string{
	Normal:     "normal",
	Add:        "add",
	Subtract:   "subtract",
	Multiply:   "multiply",
	Screen:     "screen",
	Overlay:    "overlay",
	SoftLight:  "soft-light",
	HardLight:  "hard-light",
	Lighten:    "lighten",
	Darken:     "darken",
	ColorDodge: "color-dodge",
	ColorBurn:  "color-burn",
	Difference: "difference",
	Exclusion:  "exclusion",
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m < modeCount
}

// String returns the CSS-style name of the mode.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// ParseMode looks up a mode by name. Matching ignores case, and underscores
// and spaces are accepted in place of hyphens.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.NewReplacer("_", "-", " ", "-").Replace(strings.TrimSpace(s)))
	for i, name := range modeNames {
		if name == key || strings.ReplaceAll(name, "-", "") == key {
			return Mode(i), nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
