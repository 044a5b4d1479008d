// Package config loads run parameters from a YAML file. Every field is
// optional; a file only overrides the settings it names.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eykd/barcodegen/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrExists is returned when WriteDefault would overwrite a file.
var ErrExists = errors.New("config file already exists")

// File is the on-disk configuration.
type File struct {
	Length      *int     `yaml:"length,omitempty"`
	Count       *int     `yaml:"count,omitempty"`
	MinDistance *int     `yaml:"min_distance,omitempty"`
	GC          *float64 `yaml:"gc,omitempty"`
	GCMode      *string  `yaml:"gc_mode,omitempty"`
	MaxRun      *int     `yaml:"max_run,omitempty"`
	DimerCheck  *bool    `yaml:"dimer_check,omitempty"`
	Debug       *bool    `yaml:"debug,omitempty"`

	Out         *string        `yaml:"out,omitempty"`
	Format      *string        `yaml:"format,omitempty"`
	DebugLog    *string        `yaml:"debug_log,omitempty"`
	Seed        *uint64        `yaml:"seed,omitempty"`
	MaxFailures *int64         `yaml:"max_failures,omitempty"`
	Timeout     *time.Duration `yaml:"timeout,omitempty"`
	Workers     *int           `yaml:"workers,omitempty"`
	MetricsFile *string        `yaml:"metrics_file,omitempty"`
}

// Load reads and strictly decodes the file at path. Unknown keys are errors.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse strictly decodes YAML config data. Empty input yields an empty File.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &f, nil
}

// ApplyParams overlays the parameter fields set in f onto p.
func (f *File) ApplyParams(p *domain.RunParams) error {
	setInt(&p.Length, f.Length)
	setInt(&p.Count, f.Count)
	setInt(&p.MinDistance, f.MinDistance)
	setInt(&p.MaxRun, f.MaxRun)
	if f.GC != nil {
		p.GC = *f.GC
	}
	if f.GCMode != nil {
		m, err := domain.ParseGCMode(*f.GCMode)
		if err != nil {
			return err
		}
		p.GCMode = m
	}
	if f.DimerCheck != nil {
		p.DimerCheck = *f.DimerCheck
	}
	if f.Debug != nil {
		p.Debug = *f.Debug
	}
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// Default returns a File holding every default parameter.
func Default() *File {
	p := domain.DefaultParams()
	mode := string(p.GCMode)
	out, format := "barcodes.csv", "csv"
	return &File{
		Length:      &p.Length,
		Count:       &p.Count,
		MinDistance: &p.MinDistance,
		GC:          &p.GC,
		GCMode:      &mode,
		MaxRun:      &p.MaxRun,
		DimerCheck:  &p.DimerCheck,
		Out:         &out,
		Format:      &format,
	}
}

const defaultHeader = `# bcgen run parameters.
# gc_mode: exact requires gc * length to be a whole number of G/C symbols.
# Flags given on the command line override these values.
`

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultHeader), data...), 0o644)
}
