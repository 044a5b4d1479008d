package cmd

import (
	"github.com/eykd/barcodegen/internal/config"
	"github.com/eykd/barcodegen/internal/domain"
	"github.com/spf13/cobra"
)

// paramFlags binds the run parameter flags shared by generate and verify.
type paramFlags struct {
	length      int
	count       int
	minDistance int
	gc          float64
	gcMode      string
	maxRun      int
	dimerCheck  bool
	configPath  string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	d := domain.DefaultParams()
	fl := cmd.Flags()
	fl.IntVar(&f.length, "length", d.Length, "Barcode length")
	fl.IntVar(&f.count, "count", d.Count, "Number of barcodes")
	fl.IntVar(&f.minDistance, "min-distance", d.MinDistance, "Minimum pairwise Hamming distance")
	fl.Float64Var(&f.gc, "gc", d.GC, "Target GC fraction")
	fl.StringVar(&f.gcMode, "gc-mode", string(d.GCMode), "GC comparison: exact or threshold")
	fl.IntVar(&f.maxRun, "max-run", d.MaxRun, "Forbid runs of this many identical symbols")
	fl.BoolVar(&f.dimerCheck, "dimer-check", d.DimerCheck, "Forbid dimer units repeated max-run times")
	fl.StringVar(&f.configPath, "config", "", "YAML parameter file")
}

// resolve builds the run parameters: defaults, then the config file, then
// any flag given explicitly. The loaded file is returned for command-specific
// settings and is empty when --config is not set.
func (f *paramFlags) resolve(cmd *cobra.Command) (domain.RunParams, *config.File, error) {
	p := domain.DefaultParams()
	file := &config.File{}
	if f.configPath != "" {
		var err error
		file, err = config.Load(f.configPath)
		if err != nil {
			return p, nil, err
		}
		if err := file.ApplyParams(&p); err != nil {
			return p, nil, &ContextError{Op: "config", Path: f.configPath, Err: err}
		}
	}

	changed := cmd.Flags().Changed
	if changed("length") {
		p.Length = f.length
	}
	if changed("count") {
		p.Count = f.count
	}
	if changed("min-distance") {
		p.MinDistance = f.minDistance
	}
	if changed("gc") {
		p.GC = f.gc
	}
	if changed("gc-mode") {
		m, err := domain.ParseGCMode(f.gcMode)
		if err != nil {
			return p, nil, err
		}
		p.GCMode = m
	}
	if changed("max-run") {
		p.MaxRun = f.maxRun
	}
	if changed("dimer-check") {
		p.DimerCheck = f.dimerCheck
	}
	return p, file, nil
}

// pick returns the flag value when the flag was given or the config holds no
// value, and the config value otherwise.
func pick[T any](cmd *cobra.Command, name string, flag T, file *T) T {
	if file == nil || cmd.Flags().Changed(name) {
		return flag
	}
	return *file
}
