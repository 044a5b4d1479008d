package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/eykd/barcodegen/internal/domain"
	"github.com/eykd/barcodegen/internal/library"
	"github.com/spf13/cobra"
)

// VerifyInput holds the resolved settings of one verify invocation.
type VerifyInput struct {
	Params domain.RunParams
	Path   string
	Format string
}

// VerifyRunner defines the interface for checking a barcode library file.
type VerifyRunner interface {
	Verify(ctx context.Context, in VerifyInput) (*library.VerifyResult, error)
}

// verifyJSONResponse is the JSON output structure for the verify command.
type verifyJSONResponse struct {
	Path     string           `json:"path"`
	Count    int              `json:"count"`
	Findings []domain.Finding `json:"findings"`
	Summary  struct {
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
	} `json:"summary"`
}

// countBySeverity counts errors and warnings in a slice of findings.
func countBySeverity(findings []domain.Finding) (errCount, warnCount int) {
	for _, f := range findings {
		if f.Severity == domain.SeverityError {
			errCount++
		} else {
			warnCount++
		}
	}
	return
}

// formatVerifyJSON writes findings as JSON to w.
func formatVerifyJSON(w io.Writer, res *library.VerifyResult, errCount, warnCount int) {
	out := verifyJSONResponse{Path: res.Path, Count: res.Count, Findings: res.Findings}
	if out.Findings == nil {
		out.Findings = []domain.Finding{}
	}
	out.Summary.Errors = errCount
	out.Summary.Warnings = warnCount
	writeJSON(w, out)
}

// formatVerifyHuman writes findings as human-readable text to w.
func formatVerifyHuman(w io.Writer, res *library.VerifyResult, errCount, warnCount int) {
	for _, f := range res.Findings {
		fmt.Fprintf(w, "%s [%s] %s: %s\n", f.Label, f.Severity, f.Type, f.Message)
	}
	if errCount > 0 || warnCount > 0 {
		fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", errCount, warnCount)
		return
	}
	fmt.Fprintf(w, "%s: %d barcodes ok\n", res.Path, res.Count)
}

// NewVerifyCmd creates the verify command with the given runner.
func NewVerifyCmd(runner VerifyRunner) *cobra.Command {
	var (
		pf     paramFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a barcode library against the run parameters",
		Long: `Verify reads a CSV or FASTA library and reports every barcode that breaks
the length, alphabet, repeat, GC or distance constraints. It exits with
status 2 when it reports anything.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, file, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			res, err := runner.Verify(cmd.Context(), VerifyInput{
				Params: p,
				Path:   args[0],
				Format: pick(cmd, "format", format, file.Format),
			})
			if err != nil {
				return err
			}

			errCount, warnCount := countBySeverity(res.Findings)
			if GetJSON() {
				formatVerifyJSON(cmd.OutOrStdout(), res, errCount, warnCount)
			} else {
				formatVerifyHuman(cmd.OutOrStdout(), res, errCount, warnCount)
			}
			if len(res.Findings) > 0 {
				return &FindingsDetectedError{Errors: errCount, Warnings: warnCount}
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "Input format: csv or fasta (default from file extension)")

	return cmd
}
