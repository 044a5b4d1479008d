package sampler

import (
	"context"
	"sync/atomic"

	"github.com/eykd/barcodegen/internal/domain"
)

// ctxCheckMask sets how often rejections poll the context.
const ctxCheckMask = 1<<10 - 1

// preallocLimit caps buffers sized from Count or Length; larger runs grow by append.
const preallocLimit = 1024

// Rejection names the filter that discarded a candidate.
type Rejection string

const (
	// RejectHomopolymer marks a candidate that grew a run of MaxRun identical symbols.
	RejectHomopolymer Rejection = "homopolymer"
	// RejectDimerRepeat marks a candidate that grew a dimer unit repeated MaxRun times.
	RejectDimerRepeat Rejection = "dimer_repeat"
	// RejectGCContent marks a finished candidate whose GC fraction misses the target.
	RejectGCContent Rejection = "gc_content"
	// RejectHammingDistance marks a candidate too close to an accepted barcode.
	RejectHammingDistance Rejection = "hamming_distance"
)

// Rejections lists every reason in reporting order.
var Rejections = []Rejection{RejectHomopolymer, RejectDimerRepeat, RejectGCContent, RejectHammingDistance}

// Stats breaks the failure count down by reason.
type Stats struct {
	Homopolymer     int64 `json:"homopolymer"`
	DimerRepeat     int64 `json:"dimer_repeat"`
	GCContent       int64 `json:"gc_content"`
	HammingDistance int64 `json:"hamming_distance"`
}

// Total returns the sum over all reasons.
func (s Stats) Total() int64 {
	return s.Homopolymer + s.DimerRepeat + s.GCContent + s.HammingDistance
}

// Get returns the count for one reason.
func (s Stats) Get(r Rejection) int64 {
	switch r {
	case RejectHomopolymer:
		return s.Homopolymer
	case RejectDimerRepeat:
		return s.DimerRepeat
	case RejectGCContent:
		return s.GCContent
	case RejectHammingDistance:
		return s.HammingDistance
	}
	return 0
}

// tally counts failures; safe for concurrent use by workers.
type tally struct {
	failures    atomic.Int64
	homopolymer atomic.Int64
	dimer       atomic.Int64
	gc          atomic.Int64
	distance    atomic.Int64
}

func (t *tally) add(r Rejection) int64 {
	switch r {
	case RejectHomopolymer:
		t.homopolymer.Add(1)
	case RejectDimerRepeat:
		t.dimer.Add(1)
	case RejectGCContent:
		t.gc.Add(1)
	case RejectHammingDistance:
		t.distance.Add(1)
	}
	return t.failures.Add(1)
}

func (t *tally) total() int64 { return t.failures.Load() }

func (t *tally) stats() Stats {
	return Stats{
		Homopolymer:     t.homopolymer.Load(),
		DimerRepeat:     t.dimer.Load(),
		GCContent:       t.gc.Load(),
		HammingDistance: t.distance.Load(),
	}
}

// library is the append-only accepted set of one run. admit and result must
// only be called from a single goroutine; reject may be called from any.
type library struct {
	s        *Sampler
	seqs     []string
	barcodes []domain.Barcode
	tally    tally
}

func newLibrary(s *Sampler) *library {
	n := min(s.params.Count, preallocLimit)
	return &library{
		s:        s,
		seqs:     make([]string, 0, n),
		barcodes: make([]domain.Barcode, 0, n),
	}
}

func (l *library) size() int { return len(l.seqs) }

// admit appends seq when it is at least MinDistance from every accepted
// barcode. The first candidate is always admitted.
func (l *library) admit(seq string) bool {
	p := l.s.params
	var dists []int
	if p.Debug {
		dists = domain.Distances(seq, l.seqs)
		for _, d := range dists {
			if d < p.MinDistance {
				return false
			}
		}
	} else if !domain.MinDistanceAtLeast(seq, l.seqs, p.MinDistance) {
		return false
	}

	l.seqs = append(l.seqs, seq)
	bc := domain.Barcode{Label: domain.Label(p.Length, len(l.seqs)), Sequence: seq}
	l.barcodes = append(l.barcodes, bc)
	l.s.observer.Accepted(bc, dists)
	if n := len(l.seqs); n%5 == 0 {
		l.s.observer.Progress(n)
	}
	return true
}

// reject counts one discarded candidate and enforces the budget.
func (l *library) reject(ctx context.Context, r Rejection) error {
	n := l.tally.add(r)
	l.s.observer.Rejected(r)
	if limit := l.s.budget.MaxFailures; limit > 0 && n >= limit {
		return ErrSearchExhausted
	}
	if n&ctxCheckMask == 0 {
		return ctx.Err()
	}
	return nil
}

func (l *library) result(st Status) *Result {
	out := make([]domain.Barcode, len(l.barcodes))
	copy(out, l.barcodes)
	return &Result{
		Barcodes: out,
		Failures: l.tally.total(),
		Stats:    l.tally.stats(),
		Status:   st,
	}
}
