// Package sampler grows a barcode library by rejection sampling: candidates
// are synthesized symbol by symbol under the repeat constraints, then checked
// for GC composition and for distance against every barcode accepted so far.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/eykd/barcodegen/internal/domain"
)

// ErrSearchExhausted is returned when the failure budget runs out before the
// library is complete. The partial result is returned alongside it.
var ErrSearchExhausted = errors.New("search exhausted")

// Entropy supplies independent random byte streams. Stream 0 drives
// sequential runs; parallel runs use one stream per worker.
type Entropy interface {
	Stream(i int) io.Reader
}

// Status reports how a run ended.
type Status string

const (
	// StatusComplete means the library reached the requested size.
	StatusComplete Status = "complete"
	// StatusExhausted means the failure budget ran out.
	StatusExhausted Status = "exhausted"
	// StatusCanceled means the context was cancelled or its deadline passed.
	StatusCanceled Status = "canceled"
)

// Budget bounds a run. Zero values mean unbounded.
type Budget struct {
	MaxFailures int64
}

// Result is the outcome of a run. Barcodes are in acceptance order.
type Result struct {
	Barcodes []domain.Barcode
	Failures int64
	Stats    Stats
	Status   Status
}

// Sequences returns the accepted sequences without labels.
func (r *Result) Sequences() []string {
	out := make([]string, len(r.Barcodes))
	for i, bc := range r.Barcodes {
		out[i] = bc.Sequence
	}
	return out
}

// Sampler runs one generation for fixed parameters.
type Sampler struct {
	params   domain.RunParams
	entropy  Entropy
	observer Observer
	budget   Budget
	workers  int
	dimers   domain.DimerSet
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithObserver attaches an observer for rejections, acceptances and progress.
func WithObserver(o Observer) Option {
	return func(s *Sampler) { s.observer = o }
}

// WithBudget bounds the run.
func WithBudget(b Budget) Option {
	return func(s *Sampler) { s.budget = b }
}

// MaxWorkers bounds WithWorkers.
const MaxWorkers = 256

// WithWorkers sets the number of synthesis workers, clamped to MaxWorkers.
// More than one worker makes acceptance order depend on scheduling.
func WithWorkers(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.workers = min(n, MaxWorkers)
		}
	}
}

// New creates a Sampler. Parameters are assumed valid; see
// domain.RunParams.Validate.
func New(p domain.RunParams, e Entropy, opts ...Option) *Sampler {
	s := &Sampler{
		params:   p,
		entropy:  e,
		observer: NopObserver{},
		workers:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if p.DimerCheck {
		s.dimers = domain.NewDimerSet(p.MaxRun)
	}
	return s
}

// Run grows the library until it holds Count barcodes, the budget is spent,
// or ctx ends. Infeasible parameters without a budget or deadline never return.
func (s *Sampler) Run(ctx context.Context) (*Result, error) {
	if s.workers > 1 {
		return s.runParallel(ctx)
	}
	return s.runSequential(ctx)
}

func (s *Sampler) runSequential(ctx context.Context) (*Result, error) {
	lib := newLibrary(s)
	d := newDrawer(s.entropy.Stream(0))
	buf := make([]byte, 0, min(s.params.Length, preallocLimit))

	for lib.size() < s.params.Count {
		if err := ctx.Err(); err != nil {
			return lib.result(StatusCanceled), err
		}
		cand, gc, err := s.synthesize(ctx, d, buf, lib.reject)
		if err != nil {
			return lib.stop(ctx, err)
		}
		if !domain.GCSatisfied(s.params.GCMode, gc, s.params.Length, s.params.GC) {
			if err := lib.reject(ctx, RejectGCContent); err != nil {
				return lib.stop(ctx, err)
			}
			continue
		}
		if !lib.admit(string(cand)) {
			if err := lib.reject(ctx, RejectHammingDistance); err != nil {
				return lib.stop(ctx, err)
			}
		}
	}
	return lib.result(StatusComplete), nil
}

// stop converts a run-ending error into a partial result.
func (l *library) stop(ctx context.Context, err error) (*Result, error) {
	switch {
	case errors.Is(err, ErrSearchExhausted):
		return l.result(StatusExhausted), fmt.Errorf("%w: %d failures, %d of %d barcodes accepted",
			ErrSearchExhausted, l.tally.total(), l.size(), l.s.params.Count)
	case ctx.Err() != nil:
		return l.result(StatusCanceled), ctx.Err()
	}
	return nil, err
}
