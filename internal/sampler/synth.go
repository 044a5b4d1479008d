package sampler

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/eykd/barcodegen/internal/domain"
)

// drawer converts random bytes into uniform nucleotide draws. Each byte
// yields one symbol from its low two bits; 256 is a multiple of 4, so unlike
// a general alphabet no byte needs rejecting.
type drawer struct {
	r *bufio.Reader
}

func newDrawer(r io.Reader) *drawer {
	return &drawer{r: bufio.NewReaderSize(r, 4096)}
}

func (d *drawer) next() (domain.Nucleotide, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("reading random byte: %w", err)
	}
	return domain.Alphabet[b&3], nil
}

// synthesize builds one candidate of exactly Length symbols in buf and
// returns it with its GC count. A homopolymer or dimer-repeat suffix discards
// the whole prefix and starts over from empty; each restart goes to reject.
func (s *Sampler) synthesize(ctx context.Context, d *drawer, buf []byte, reject func(context.Context, Rejection) error) ([]byte, int, error) {
	length, maxRun := s.params.Length, s.params.MaxRun
	buf = buf[:0]
	gc := 0
	for len(buf) < length {
		n, err := d.next()
		if err != nil {
			return nil, 0, err
		}
		buf = append(buf, byte(n))

		var why Rejection
		switch {
		case domain.HomopolymerSuffix(buf, maxRun):
			why = RejectHomopolymer
		case s.dimers != nil && s.dimers.MatchesSuffix(buf, maxRun):
			why = RejectDimerRepeat
		}
		if why != "" {
			buf = buf[:0]
			gc = 0
			if err := reject(ctx, why); err != nil {
				return nil, 0, err
			}
			continue
		}
		if n.IsGC() {
			gc++
		}
	}
	return buf, gc, nil
}
