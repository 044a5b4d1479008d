package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/eykd/barcodegen/internal/config"
	"github.com/eykd/barcodegen/internal/fs"
	"github.com/eykd/barcodegen/internal/library"
	"github.com/eykd/barcodegen/internal/lock"
	"github.com/eykd/barcodegen/internal/metrics"
	"github.com/eykd/barcodegen/internal/randsrc"
	"github.com/eykd/barcodegen/internal/report"
	"github.com/eykd/barcodegen/internal/sampler"
)

// libraryServicer abstracts the library.Service methods used by adapters.
type libraryServicer interface {
	Generate(ctx context.Context, req library.GenerateRequest) (*library.GenerateResult, error)
	Verify(ctx context.Context, req library.VerifyRequest) (*library.VerifyResult, error)
}

// newService wires the library service to the local filesystem.
func newService() *library.Service {
	return library.NewService(fs.OSWriter{}, fs.OSContentReader{}, func(path string) library.Locker {
		return lock.ForOutput(path)
	})
}

// openDebugLog opens path for appending.
func openDebugLog(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// --- generateAdapter ---

type generateAdapter struct {
	svc     libraryServicer
	logger  *slog.Logger
	openLog func(path string) (io.WriteCloser, error)
}

func newGenerateAdapter() *generateAdapter {
	return &generateAdapter{
		svc:     newService(),
		logger:  report.NewLogger(os.Stderr, logLevel),
		openLog: openDebugLog,
	}
}

func (a *generateAdapter) Generate(ctx context.Context, in GenerateInput) (*library.GenerateResult, error) {
	codec, err := resolveCodec(in.Format, in.Out)
	if err != nil {
		return nil, err
	}

	req := library.GenerateRequest{
		Params:     in.Params,
		Entropy:    randsrc.Crypto{},
		Codec:      codec,
		Out:        in.Out,
		DryRun:     in.DryRun,
		NoPrecheck: in.NoPrecheck,
		Budget:     sampler.Budget{MaxFailures: in.MaxFailures},
		Timeout:    in.Timeout,
		Workers:    in.Workers,
		Observers:  []sampler.Observer{report.Progress{Logger: a.logger}},
	}
	if in.Seed != nil {
		req.Entropy = randsrc.Seeded{Seed: *in.Seed}
	}
	if in.Params.Debug {
		w, err := a.openLog(in.DebugLog)
		if err != nil {
			return nil, &ContextError{Op: "opening debug log", Path: in.DebugLog, Err: err}
		}
		defer w.Close()
		req.Observers = append(req.Observers, report.Debug{Logger: report.NewLogger(w, slog.LevelDebug)})
	}
	if in.MetricsFile != "" {
		req.Metrics = metrics.NewRecorder()
		req.MetricsFile = in.MetricsFile
	}

	a.logger.Debug("starting run",
		slog.Any("params", in.Params),
		slog.Int("workers", in.Workers),
		slog.Bool("seeded", in.Seed != nil),
	)
	res, err := a.svc.Generate(ctx, req)
	if res != nil {
		a.logger.Info("run finished",
			slog.String("run_id", res.RunID),
			slog.String("status", string(res.Status)),
			slog.Int("accepted", len(res.Barcodes)),
			slog.Int64("failures", res.Failures),
			slog.Duration("elapsed", res.Elapsed),
		)
	}
	return res, err
}

// --- verifyAdapter ---

type verifyAdapter struct {
	svc libraryServicer
}

func newVerifyAdapter() *verifyAdapter {
	return &verifyAdapter{svc: newService()}
}

func (a *verifyAdapter) Verify(ctx context.Context, in VerifyInput) (*library.VerifyResult, error) {
	codec, err := resolveCodec(in.Format, in.Path)
	if err != nil {
		return nil, err
	}
	res, err := a.svc.Verify(ctx, library.VerifyRequest{Params: in.Params, Codec: codec, Path: in.Path})
	if err != nil {
		return nil, &ContextError{Op: "verify", Path: in.Path, Err: err}
	}
	return res, nil
}

// --- configAdapter ---

type configAdapter struct{}

func (configAdapter) WriteDefault(path string) error {
	return config.WriteDefault(path)
}
