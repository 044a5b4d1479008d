package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/eykd/barcodegen/internal/barcodeio"
	"github.com/eykd/barcodegen/internal/domain"
	"github.com/eykd/barcodegen/internal/library"
	"github.com/eykd/barcodegen/internal/report"
	"github.com/eykd/barcodegen/internal/sampler"
	"github.com/spf13/cobra"
)

// GenerateInput holds the resolved settings of one generate invocation.
type GenerateInput struct {
	Params      domain.RunParams
	Out         string
	Format      string
	DebugLog    string
	Seed        *uint64
	MaxFailures int64
	Timeout     time.Duration
	Workers     int
	MetricsFile string
	NoPrecheck  bool
	DryRun      bool
}

// GenerateRunner defines the interface for generating a barcode library.
type GenerateRunner interface {
	Generate(ctx context.Context, in GenerateInput) (*library.GenerateResult, error)
}

// generateJSONResponse is the JSON output structure for the generate command.
type generateJSONResponse struct {
	*library.GenerateResult
	Error string `json:"error,omitempty"`
}

// NewGenerateCmd creates the generate command with the given runner.
func NewGenerateCmd(runner GenerateRunner) *cobra.Command {
	var (
		pf          paramFlags
		out         string
		format      string
		debug       bool
		debugLog    string
		seed        uint64
		maxFailures int64
		timeout     time.Duration
		workers     int
		metricsFile string
		noPrecheck  bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a constrained DNA barcode library",
		Long: `Generate draws random barcodes and keeps those that meet the GC target,
contain no homopolymer or dimer repeat, and lie at least --min-distance
substitutions from every barcode kept so far.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, file, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debug") {
				p.Debug = debug
			}

			in := GenerateInput{
				Params:      p,
				Out:         pick(cmd, "out", out, file.Out),
				Format:      pick(cmd, "format", format, file.Format),
				DebugLog:    pick(cmd, "debug-log", debugLog, file.DebugLog),
				MaxFailures: pick(cmd, "max-failures", maxFailures, file.MaxFailures),
				Timeout:     pick(cmd, "timeout", timeout, file.Timeout),
				Workers:     pick(cmd, "workers", workers, file.Workers),
				MetricsFile: pick(cmd, "metrics-file", metricsFile, file.MetricsFile),
				NoPrecheck:  noPrecheck,
				DryRun:      dryRun,
			}
			if cmd.Flags().Changed("seed") {
				in.Seed = &seed
			} else if file.Seed != nil {
				in.Seed = file.Seed
			}

			res, err := runner.Generate(cmd.Context(), in)
			if res == nil {
				return err
			}
			if GetJSON() {
				resp := generateJSONResponse{GenerateResult: res}
				if err != nil {
					resp.Error = err.Error()
				}
				writeJSON(cmd.OutOrStdout(), resp)
			} else if werr := writeGenerateHuman(cmd.OutOrStdout(), in, res); werr != nil {
				return werr
			}
			if err != nil && res.Status != sampler.StatusComplete {
				return &IncompleteRunError{Status: res.Status, Err: err}
			}
			return err
		},
	}

	pf.register(cmd)
	cmd.Flags().BoolVar(&debug, "debug", false, "Log every accepted barcode and its distances to --debug-log")
	cmd.Flags().StringVar(&debugLog, "debug-log", "info.log", "Debug log file")
	cmd.Flags().StringVarP(&out, "out", "o", "barcodes.csv", "Output file")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv or fasta (default from --out extension)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible run (default: crypto/rand)")
	cmd.Flags().Int64Var(&maxFailures, "max-failures", 0, "Stop after this many failures (0 = unbounded)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop after this long (0 = unbounded)")
	cmd.Flags().IntVar(&workers, "workers", 1, "Synthesis workers; more than 1 gives up reproducibility")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&noPrecheck, "no-precheck", false, "Skip the feasibility precheck")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the library instead of writing it")

	return cmd
}

// writeGenerateHuman prints the library on a dry run, then the run summary.
func writeGenerateHuman(w io.Writer, in GenerateInput, res *library.GenerateResult) error {
	if in.DryRun && len(res.Barcodes) > 0 {
		codec, err := resolveCodec(in.Format, in.Out)
		if err != nil {
			return err
		}
		if err := codec.Encode(w, res.Barcodes); err != nil {
			return fmt.Errorf("printing library: %w", err)
		}
	}
	return report.WriteSummary(w, report.Summary{
		RunID:    res.RunID,
		Accepted: len(res.Barcodes),
		Wanted:   res.Params.Count,
		Failures: res.Failures,
		Stats:    res.Stats,
		Status:   res.Status,
		Elapsed:  res.Elapsed,
		Path:     res.Path,
	})
}

// resolveCodec picks the format named by the flag, or guesses it from path.
func resolveCodec(format, path string) (barcodeio.Format, error) {
	if format == "" {
		return barcodeio.FormatFromPath(path), nil
	}
	f, err := barcodeio.ParseFormat(format)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidParams, err)
	}
	return f, nil
}
