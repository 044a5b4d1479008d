// Package report turns sampler events into log records and prints the run
// summary.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/eykd/barcodegen/internal/domain"
	"github.com/eykd/barcodegen/internal/sampler"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewLogger returns a text logger when w is a terminal and a JSON logger
// otherwise.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if IsTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Progress logs the library size every time the sampler reports it.
type Progress struct {
	sampler.NopObserver
	Logger *slog.Logger
}

// Progress logs one progress line.
func (p Progress) Progress(accepted int) {
	p.Logger.Info("generated candidate barcodes", slog.Int("count", accepted))
}

// Debug logs every accepted barcode with its distances to earlier barcodes.
type Debug struct {
	sampler.NopObserver
	Logger *slog.Logger
}

// Accepted logs one barcode at debug level.
func (d Debug) Accepted(bc domain.Barcode, distances []int) {
	d.Logger.LogAttrs(context.Background(), slog.LevelDebug, "accepted barcode",
		slog.String("label", bc.Label),
		slog.String("sequence", bc.Sequence),
		slog.Any("distances", distances),
	)
}

// Summary is the outcome of a run as shown to the user.
type Summary struct {
	RunID    string
	Accepted int
	Wanted   int
	Failures int64
	Stats    sampler.Stats
	Status   sampler.Status
	Elapsed  time.Duration
	Path     string
}

// WriteSummary prints the failure count, the breakdown by reason and the
// total run time.
func WriteSummary(w io.Writer, s Summary) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "%d intermediate failures\n", s.Failures); err != nil {
		return err
	}
	for _, why := range sampler.Rejections {
		if n := s.Stats.Get(why); n > 0 {
			if _, err := p.Fprintf(w, "  %-16s %d\n", why, n); err != nil {
				return err
			}
		}
	}
	if s.Status != sampler.StatusComplete {
		if _, err := p.Fprintf(w, "run %s: %d of %d barcodes accepted\n", s.Status, s.Accepted, s.Wanted); err != nil {
			return err
		}
	}
	if s.Path != "" {
		if _, err := fmt.Fprintf(w, "wrote %s\n", s.Path); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "total run time: %s\n", s.Elapsed.Round(time.Millisecond))
	return err
}
