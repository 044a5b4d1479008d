package sampler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/eykd/barcodegen/internal/domain"
	"github.com/eykd/barcodegen/internal/randsrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a test double that captures every observer event.
type recorder struct {
	mu        sync.Mutex
	rejected  map[Rejection]int
	accepted  []domain.Barcode
	distances [][]int
	progress  []int
}

func newRecorder() *recorder {
	return &recorder{rejected: map[Rejection]int{}}
}

func (r *recorder) Rejected(why Rejection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[why]++
}

func (r *recorder) Accepted(bc domain.Barcode, d []int) {
	r.accepted = append(r.accepted, bc)
	r.distances = append(r.distances, d)
}

func (r *recorder) Progress(n int) {
	r.progress = append(r.progress, n)
}

// fixed maps symbols to the bytes that draw them.
func fixed(seq string) randsrc.Fixed {
	b := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A':
			b[i] = 0
		case 'C':
			b[i] = 1
		case 'G':
			b[i] = 2
		case 'T':
			b[i] = 3
		}
	}
	return randsrc.Fixed{R: bytes.NewReader(b)}
}

func params(l, n, d, r int, gc float64, mode domain.GCMode, dimer bool) domain.RunParams {
	return domain.RunParams{Length: l, Count: n, MinDistance: d, MaxRun: r, GC: gc, GCMode: mode, DimerCheck: dimer}
}

func assertLibraryInvariants(t *testing.T, p domain.RunParams, res *Result) {
	t.Helper()
	seqs := res.Sequences()
	for i, s := range seqs {
		assert.Len(t, s, p.Length, "barcode %d", i)
		assert.Less(t, domain.LongestRun(s), p.MaxRun, "barcode %s has a long run", s)
		if p.DimerCheck {
			assert.False(t, domain.HasDimerRepeat(s, p.MaxRun), "barcode %s has a dimer repeat", s)
		}
		assert.True(t, domain.GCSatisfied(p.GCMode, domain.GCCount(s), p.Length, p.GC), "barcode %s GC", s)
		assert.Equal(t, domain.Label(p.Length, i+1), res.Barcodes[i].Label)
		for j := i + 1; j < len(seqs); j++ {
			d, err := domain.Hamming(s, seqs[j])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, d, p.MinDistance, "%s vs %s", s, seqs[j])
		}
	}
	assert.Equal(t, res.Failures, res.Stats.Total())
}

func TestRun_ScenarioLength8(t *testing.T) {
	p := params(8, 3, 4, 2, 0.5, domain.GCExact, true)

	res, err := New(p, randsrc.Seeded{Seed: 42}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	require.Len(t, res.Barcodes, 3)
	for _, s := range res.Sequences() {
		assert.Equal(t, 4, domain.GCCount(s), s)
	}
	assertLibraryInvariants(t, p, res)
}

func TestRun_ExactGCRejectsOtherCounts(t *testing.T) {
	p := params(4, 6, 1, 4, 0.5, domain.GCExact, false)
	rec := newRecorder()

	res, err := New(p, randsrc.Seeded{Seed: 7}, WithObserver(rec)).Run(context.Background())

	require.NoError(t, err)
	for _, s := range res.Sequences() {
		assert.Equal(t, 2, domain.GCCount(s), s)
	}
	assert.Positive(t, rec.rejected[RejectGCContent])
	assert.Equal(t, res.Stats.GCContent, int64(rec.rejected[RejectGCContent]))
}

func TestRun_FirstCandidateBootstrapsLibrary(t *testing.T) {
	p := params(4, 1, 4, 3, 0, domain.GCThreshold, false)
	rec := newRecorder()
	p.Debug = true

	res, err := New(p, fixed("ACGT"), WithObserver(rec)).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ACGT"}, res.Sequences())
	assert.Zero(t, res.Failures)
	require.Len(t, rec.distances, 1)
	assert.Empty(t, rec.distances[0])
}

func TestRun_RestartsFromEmptyOnLocalViolation(t *testing.T) {
	tests := []struct {
		name   string
		dimer  bool
		draws  string
		want   string
		reason Rejection
	}{
		{
			name:   "homopolymer restarts whole prefix",
			draws:  "CAA" + "CGTA",
			want:   "CGTA",
			reason: RejectHomopolymer,
		},
		{
			name:   "dimer repeat restarts whole prefix",
			dimer:  true,
			draws:  "ACAC" + "CGTA",
			want:   "CGTA",
			reason: RejectDimerRepeat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params(4, 1, 1, 2, 0, domain.GCThreshold, tt.dimer)

			res, err := New(p, fixed(tt.draws)).Run(context.Background())

			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, res.Sequences())
			assert.Equal(t, int64(1), res.Failures)
			assert.Equal(t, int64(1), res.Stats.Get(tt.reason))
		})
	}
}

func TestRun_MaximumDistanceBoundary(t *testing.T) {
	// The second candidate shares position 1 with the first and is rejected;
	// the third differs everywhere and is accepted.
	p := params(4, 2, 4, 4, 0, domain.GCThreshold, false)

	res, err := New(p, fixed("ACGT"+"AGTC"+"CATG")).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ACGT", "CATG"}, res.Sequences())
	assert.Equal(t, int64(1), res.Stats.HammingDistance)
}

func TestRun_DeterministicForSeed(t *testing.T) {
	p := params(12, 8, 5, 3, 0.5, domain.GCExact, true)

	a, err := New(p, randsrc.Seeded{Seed: 99}).Run(context.Background())
	require.NoError(t, err)
	b, err := New(p, randsrc.Seeded{Seed: 99}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Barcodes, b.Barcodes)
	assert.Equal(t, a.Failures, b.Failures)
}

func TestRun_PrefixStableUnderContinuation(t *testing.T) {
	short := params(12, 4, 5, 3, 0.5, domain.GCExact, true)
	long := short
	long.Count = 9

	a, err := New(short, randsrc.Seeded{Seed: 3}).Run(context.Background())
	require.NoError(t, err)
	b, err := New(long, randsrc.Seeded{Seed: 3}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Barcodes, b.Barcodes[:4])
}

func TestRun_ProgressEveryFifthBarcode(t *testing.T) {
	p := params(10, 12, 3, 3, 0.5, domain.GCExact, true)
	p.Debug = true
	rec := newRecorder()

	res, err := New(p, randsrc.Seeded{Seed: 5}, WithObserver(rec)).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{5, 10}, rec.progress)
	require.Len(t, rec.accepted, 12)
	assert.Equal(t, res.Barcodes, rec.accepted)
	for i, d := range rec.distances {
		assert.Len(t, d, i)
		for _, v := range d {
			assert.GreaterOrEqual(t, v, p.MinDistance)
		}
	}
}

func TestRun_BudgetExhausted(t *testing.T) {
	// 0.3 of 4 symbols is not a whole count, so no candidate can pass.
	p := params(4, 2, 1, 3, 0.3, domain.GCExact, false)

	res, err := New(p, randsrc.Seeded{Seed: 1}, WithBudget(Budget{MaxFailures: 500})).Run(context.Background())

	require.ErrorIs(t, err, ErrSearchExhausted)
	require.NotNil(t, res)
	assert.Equal(t, StatusExhausted, res.Status)
	assert.Empty(t, res.Barcodes)
	assert.Equal(t, int64(500), res.Failures)
}

func TestRun_ContextCanceled(t *testing.T) {
	p := params(4, 2, 1, 3, 0.3, domain.GCExact, false)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := New(p, randsrc.Seeded{Seed: 1}).Run(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, res)
	assert.Equal(t, StatusCanceled, res.Status)
}

func TestRun_EntropyReadError(t *testing.T) {
	p := params(4, 1, 1, 3, 0, domain.GCThreshold, false)

	res, err := New(p, fixed("AC")).Run(context.Background())

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, io.EOF), "got %v", err)
}

func TestRun_ParallelWorkersKeepInvariants(t *testing.T) {
	p := params(16, 20, 6, 3, 0.5, domain.GCThreshold, true)
	rec := newRecorder()

	res, err := New(p, randsrc.Seeded{Seed: 11}, WithWorkers(4), WithObserver(rec)).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Len(t, res.Barcodes, 20)
	assertLibraryInvariants(t, p, res)
	assert.Equal(t, []int{5, 10, 15, 20}, rec.progress)
}

func TestRun_ParallelBudgetExhausted(t *testing.T) {
	p := params(4, 2, 1, 3, 0.3, domain.GCExact, false)

	res, err := New(p, randsrc.Seeded{Seed: 1}, WithWorkers(3), WithBudget(Budget{MaxFailures: 1000})).Run(context.Background())

	require.ErrorIs(t, err, ErrSearchExhausted)
	assert.Equal(t, StatusExhausted, res.Status)
	assert.GreaterOrEqual(t, res.Failures, int64(1000))
}

func TestRun_HugeCountStopsAtDeadline(t *testing.T) {
	p := domain.DefaultParams()
	p.Count = 1 << 50
	require.NoError(t, p.Validate())
	require.NoError(t, p.CheckFeasible())

	for _, workers := range []int{1, 4} {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		res, err := New(p, randsrc.Seeded{Seed: 1}, WithWorkers(workers)).Run(ctx)
		cancel()

		require.ErrorIs(t, err, context.DeadlineExceeded, "workers=%d", workers)
		require.NotNil(t, res)
		assert.Equal(t, StatusCanceled, res.Status)
		assert.Less(t, len(res.Barcodes), p.Count)
	}
}

func TestWithWorkers_Clamped(t *testing.T) {
	s := New(params(4, 1, 1, 3, 0, domain.GCThreshold, false), randsrc.Seeded{Seed: 1}, WithWorkers(1<<40))

	assert.Equal(t, MaxWorkers, s.workers)
}
