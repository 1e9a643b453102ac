// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format int

// Supported formats.
const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath selects the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Marshal encodes s.
func Marshal(s State, f Format) ([]byte, error) {
	d := Encode(s)
	switch f {
	case FormatYAML:
		return yaml.Marshal(&d)
	case FormatTOML:
		return toml.Marshal(&d)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// Unmarshal decodes, migrates and converts a document.
func Unmarshal(data []byte, f Format) (State, error) {
	var d Document
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	case FormatTOML:
		err = toml.Unmarshal(data, &d)
	default:
		return State{}, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	if err != nil {
		return State{}, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, f, err)
	}
	return Decode(d)
}

// Load reads a project file.
func Load(path string) (State, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return State{}, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // caller-provided project path
	if err != nil {
		return State{}, fmt.Errorf("project: %w", err)
	}
	s, err := Unmarshal(data, f)
	if err != nil {
		return State{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path, replacing the file atomically.
func Save(path string, s State) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(s, f)
	if err != nil {
		return fmt.Errorf("project: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".promap-*")
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	return nil
}
