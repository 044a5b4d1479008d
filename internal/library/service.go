// Package library provides the application service that generates and
// verifies barcode libraries.
package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/eykd/barcodegen/internal/domain"
	"github.com/eykd/barcodegen/internal/sampler"
	"github.com/google/uuid"
)

// ErrNoBarcodes is returned when a file to verify holds no barcodes.
var ErrNoBarcodes = errors.New("no barcodes found")

// FileWriter abstracts writing a finished library to disk.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// ContentReader abstracts reading a library from disk.
type ContentReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Locker abstracts advisory lock acquisition for an output file.
type Locker interface {
	TryLock(ctx context.Context) error
	Unlock() error
}

// LockFactory returns the lock guarding the output at path.
type LockFactory func(path string) Locker

// Codec encodes and decodes a library in one file format.
type Codec interface {
	Encode(w io.Writer, set []domain.Barcode) error
	Decode(r io.Reader) ([]domain.Barcode, error)
}

// MetricsSink observes a run and exports its metrics when it ends.
type MetricsSink interface {
	sampler.Observer
	Finish(status sampler.Status, elapsed time.Duration)
	WriteTextfile(path string) error
}

// GenerateRequest describes one generation run.
type GenerateRequest struct {
	Params     domain.RunParams
	Entropy    sampler.Entropy
	Codec      Codec
	Out        string
	DryRun     bool
	NoPrecheck bool
	Budget     sampler.Budget
	Timeout    time.Duration
	Workers    int
	Observers  []sampler.Observer

	Metrics     MetricsSink
	MetricsFile string
}

// GenerateResult holds the outcome of a generation run.
type GenerateResult struct {
	RunID    string           `json:"run_id"`
	Params   domain.RunParams `json:"params"`
	Barcodes []domain.Barcode `json:"barcodes"`
	Failures int64            `json:"failures"`
	Stats    sampler.Stats    `json:"failures_by_reason"`
	Status   sampler.Status   `json:"status"`
	Elapsed  time.Duration    `json:"elapsed_ns"`
	Path     string           `json:"path,omitempty"`
}

// VerifyRequest describes a library file to check.
type VerifyRequest struct {
	Params domain.RunParams
	Codec  Codec
	Path   string
}

// VerifyResult holds the findings for a checked library.
type VerifyResult struct {
	Path     string           `json:"path"`
	Count    int              `json:"count"`
	Findings []domain.Finding `json:"findings"`
}

// Errors reports whether any finding has error severity.
func (r *VerifyResult) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == domain.SeverityError {
			n++
		}
	}
	return n
}

// Service coordinates parameter checks, sampling, locking and persistence.
type Service struct {
	writer FileWriter
	reader ContentReader
	locks  LockFactory
	now    func() time.Time
	newID  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the run ID source.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// NewService creates a Service with the given dependencies.
func NewService(writer FileWriter, reader ContentReader, locks LockFactory, opts ...Option) *Service {
	s := &Service{
		writer: writer,
		reader: reader,
		locks:  locks,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate validates the parameters, runs the sampler and writes the library
// to req.Out. A run that ends exhausted or cancelled returns its partial
// result together with the error and leaves req.Out untouched. Metrics are
// exported whatever the outcome. A failure to release the output lock is
// joined into the returned error.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (_ *GenerateResult, err error) {
	p := req.Params
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !req.NoPrecheck {
		if err := p.CheckFeasible(); err != nil {
			return nil, err
		}
	}

	if !req.DryRun {
		l := s.locks(req.Out)
		if err := l.TryLock(ctx); err != nil {
			return nil, err
		}
		defer func() {
			if uerr := l.Unlock(); uerr != nil {
				err = errors.Join(err, uerr)
			}
		}()
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	observers := sampler.Observers(req.Observers)
	if req.Metrics != nil {
		observers = append(observers, req.Metrics)
	}
	smp := sampler.New(p, req.Entropy,
		sampler.WithObserver(observers),
		sampler.WithBudget(req.Budget),
		sampler.WithWorkers(req.Workers),
	)

	start := s.now()
	res, runErr := smp.Run(ctx)
	elapsed := s.now().Sub(start)
	if res == nil {
		return nil, runErr
	}

	out := &GenerateResult{
		RunID:    s.newID(),
		Params:   p,
		Barcodes: res.Barcodes,
		Failures: res.Failures,
		Stats:    res.Stats,
		Status:   res.Status,
		Elapsed:  elapsed,
	}

	if req.Metrics != nil {
		req.Metrics.Finish(res.Status, elapsed)
	}
	err = runErr
	if err == nil && !req.DryRun {
		if err = s.persist(ctx, req, res.Barcodes); err == nil {
			out.Path = req.Out
		}
	}
	if req.Metrics != nil && req.MetricsFile != "" {
		if merr := req.Metrics.WriteTextfile(req.MetricsFile); merr != nil {
			err = errors.Join(err, merr)
		}
	}
	return out, err
}

// persist encodes the library and writes it to req.Out. The write is not
// cancelled with ctx so a finished library is never half written.
func (s *Service) persist(ctx context.Context, req GenerateRequest, set []domain.Barcode) error {
	var buf bytes.Buffer
	if err := req.Codec.Encode(&buf, set); err != nil {
		return fmt.Errorf("encoding library: %w", err)
	}
	return s.writer.WriteFile(context.WithoutCancel(ctx), req.Out, buf.Bytes())
}

// Verify reads the library at req.Path and checks it against req.Params.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	data, err := s.reader.ReadFile(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	set, err := req.Codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", req.Path, err)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoBarcodes, req.Path)
	}
	return &VerifyResult{
		Path:     req.Path,
		Count:    len(set),
		Findings: domain.VerifySet(req.Params, set),
	}, nil
}
