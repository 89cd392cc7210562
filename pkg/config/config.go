// Package config loads stipple profiles from TOML files.
//
// A profile stores default generation parameters so they need not be passed
// on every invocation:
//
//	seed = 42
//
//	[canvas]
//	width = 1024
//	height = 768
//
//	[grid]
//	columns = 8
//	rows = 6
//	density = 25
//
//	[placement]
//	padding = 10.0
//	interspace = 5.0
//
//	[output]
//	path = "canvasData.dxf"
//	formats = ["dxf", "svg"]
//
// Every key is optional. Only keys present in the file override the caller's
// options, and explicit command-line flags override the profile.
//
// Files ending in .yaml or .yml are read as YAML with the same layout.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
)

// FileName is the profile file name inside the config directory.
const FileName = "stipple.toml"

// Profile mirrors the TOML layout. Nil fields were absent from the file.
type Profile struct {
	Seed      *uint64   `toml:"seed,omitempty" yaml:"seed,omitempty"`
	Canvas    Canvas    `toml:"canvas" yaml:"canvas,omitempty"`
	Grid      Grid      `toml:"grid" yaml:"grid,omitempty"`
	Placement Placement `toml:"placement" yaml:"placement,omitempty"`
	Output    Output    `toml:"output" yaml:"output,omitempty"`
}

// Canvas is the [canvas] table.
type Canvas struct {
	Width  *int `toml:"width,omitempty" yaml:"width,omitempty"`
	Height *int `toml:"height,omitempty" yaml:"height,omitempty"`
}

// Grid is the [grid] table.
type Grid struct {
	Columns *int `toml:"columns,omitempty" yaml:"columns,omitempty"`
	Rows    *int `toml:"rows,omitempty" yaml:"rows,omitempty"`
	Density *int `toml:"density,omitempty" yaml:"density,omitempty"`
}

// Placement is the [placement] table.
type Placement struct {
	Padding    *float64 `toml:"padding,omitempty" yaml:"padding,omitempty"`
	Interspace *float64 `toml:"interspace,omitempty" yaml:"interspace,omitempty"`
}

// Output is the [output] table.
type Output struct {
	Path    string   `toml:"path,omitempty" yaml:"path,omitempty"`
	Formats []string `toml:"formats,omitempty" yaml:"formats,omitempty"`
}

// Default returns a profile holding every pipeline default, suitable for
// `stipple config init`.
func Default() Profile {
	d := pipeline.DefaultOptions()
	return Profile{
		Canvas:    Canvas{Width: &d.Width, Height: &d.Height},
		Grid:      Grid{Columns: &d.Columns, Rows: &d.Rows, Density: &d.Density},
		Placement: Placement{Padding: &d.Padding, Interspace: &d.Interspace},
		Output:    Output{Path: "canvasData.dxf", Formats: append([]string(nil), pipeline.DefaultFormats...)},
	}
}

// Load reads and validates the profile at path. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
func Load(path string) (Profile, error) {
	var (
		p   Profile
		err error
	)
	if isYAML(path) {
		p, err = loadYAML(path)
	} else {
		p, err = loadTOML(path)
	}
	if err != nil {
		return Profile{}, err
	}

	opts := pipeline.DefaultOptions()
	p.Apply(&opts)
	if err := opts.Validate(); err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return p, nil
}

func loadTOML(path string) (Profile, error) {
	var p Profile
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Profile{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return p, nil
}

func loadYAML(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Profile{}, fmt.Errorf("read config: %w", err)
	}

	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return p, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Apply overrides opts with every key present in the profile.
func (p Profile) Apply(opts *pipeline.Options) {
	setInt(&opts.Width, p.Canvas.Width)
	setInt(&opts.Height, p.Canvas.Height)
	setInt(&opts.Columns, p.Grid.Columns)
	setInt(&opts.Rows, p.Grid.Rows)
	setInt(&opts.Density, p.Grid.Density)
	if p.Placement.Padding != nil {
		opts.Padding = *p.Placement.Padding
	}
	if p.Placement.Interspace != nil {
		opts.Interspace = *p.Placement.Interspace
	}
	if p.Seed != nil {
		opts.Seed = *p.Seed
	}
	if len(p.Output.Formats) > 0 {
		opts.Formats = append([]string(nil), p.Output.Formats...)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Write encodes p as TOML.
func Write(w io.Writer, p Profile) error {
	return toml.NewEncoder(w).Encode(p)
}

// WriteYAML encodes p as YAML.
func WriteYAML(w io.Writer, p Profile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes p to path, creating parent directories as needed. The format
// follows the file extension.
func Save(path string, p Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	write := Write
	if isYAML(path) {
		write = WriteYAML
	}
	if err := write(f, p); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}

// DefaultPath returns the profile location: $XDG_CONFIG_HOME/stipple/stipple.toml,
// else ~/.config/stipple/stipple.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "stipple", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "stipple", FileName), nil
}

// Resolve loads the profile at path, or at DefaultPath when path is empty.
// A missing default profile is not an error and yields an empty Profile; a
// missing explicit path is.
func Resolve(path string) (Profile, string, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Profile{}, "", err
		}
	}
	p, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, errors.ErrCodeFileNotFound) {
			return Profile{}, "", nil
		}
		return Profile{}, path, err
	}
	return p, path, nil
}
