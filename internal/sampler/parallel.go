package sampler

import (
	"context"
	"errors"

	"github.com/eykd/barcodegen/internal/domain"
	"golang.org/x/sync/errgroup"
)

// runParallel synthesizes and GC-filters candidates on several workers, each
// with its own entropy stream, while a single acceptor goroutine runs the
// distance check so that every check sees the fully current library.
func (s *Sampler) runParallel(ctx context.Context) (*Result, error) {
	lib := newLibrary(s)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	cands := make(chan string, s.workers)

	for i := 0; i < s.workers; i++ {
		d := newDrawer(s.entropy.Stream(i))
		g.Go(func() error {
			buf := make([]byte, 0, min(s.params.Length, preallocLimit))
			for {
				cand, gc, err := s.synthesize(gctx, d, buf, lib.reject)
				if err != nil {
					return err
				}
				if !domain.GCSatisfied(s.params.GCMode, gc, s.params.Length, s.params.GC) {
					if err := lib.reject(gctx, RejectGCContent); err != nil {
						return err
					}
					continue
				}
				select {
				case cands <- string(cand):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})
	}

	g.Go(func() error {
		for lib.size() < s.params.Count {
			select {
			case seq := <-cands:
				if !lib.admit(seq) {
					if err := lib.reject(gctx, RejectHammingDistance); err != nil {
						return err
					}
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		// Done: release the workers.
		cancel()
		return nil
	})

	err := g.Wait()
	if lib.size() >= s.params.Count {
		return lib.result(StatusComplete), nil
	}
	if errors.Is(err, ErrSearchExhausted) || ctx.Err() != nil {
		return lib.stop(ctx, err)
	}
	return nil, err
}
