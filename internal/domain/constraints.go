package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLengthMismatch is returned when comparing sequences of different lengths.
var ErrLengthMismatch = errors.New("sequences differ in length")

// Hamming returns the number of positions at which a and b differ.
func Hamming(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}
	return hamming(a, b), nil
}

// hamming assumes len(a) == len(b).
func hamming(a, b string) int {
	d := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// Distances returns the Hamming distance from seq to each member of set, in
// set order. Members of a different length are reported as -1.
func Distances(seq string, set []string) []int {
	out := make([]int, len(set))
	for i, s := range set {
		if len(s) != len(seq) {
			out[i] = -1
			continue
		}
		out[i] = hamming(seq, s)
	}
	return out
}

// MinDistanceAtLeast reports whether seq is at least d away from every
// member of set. It stops at the first member closer than d.
func MinDistanceAtLeast(seq string, set []string, d int) bool {
	for _, s := range set {
		if len(s) != len(seq) || hamming(seq, s) < d {
			return false
		}
	}
	return true
}

// GCCount returns the number of G and C symbols in seq.
func GCCount(seq string) int {
	n := 0
	for i := 0; i < len(seq); i++ {
		if Nucleotide(seq[i]).IsGC() {
			n++
		}
	}
	return n
}

// GCSatisfied reports whether gc symbols out of length meet target under mode.
// Exact mode compares the fraction for equality, so a target whose product
// with length is not an integer can never be met.
func GCSatisfied(mode GCMode, gc, length int, target float64) bool {
	frac := float64(gc) / float64(length)
	if mode == GCThreshold {
		return frac >= target
	}
	return frac == target
}

// HomopolymerSuffix reports whether the last r symbols of seq are identical.
func HomopolymerSuffix(seq []byte, r int) bool {
	n := len(seq)
	if r < 1 || n < r {
		return false
	}
	last := seq[n-1]
	for i := n - r; i < n-1; i++ {
		if seq[i] != last {
			return false
		}
	}
	return true
}

// LongestRun returns the length of the longest run of one repeated symbol.
func LongestRun(seq string) int {
	best, cur := 0, 0
	for i := 0; i < len(seq); i++ {
		if i > 0 && seq[i] == seq[i-1] {
			cur++
		} else {
			cur = 1
		}
		if cur > best {
			best = cur
		}
	}
	return best
}

// HasHomopolymer reports whether seq contains a run of r or more identical symbols.
func HasHomopolymer(seq string, r int) bool {
	return r >= 1 && LongestRun(seq) >= r
}

// PolyDimers returns the forbidden dimer repeats for r: every ordered pair of
// distinct nucleotides repeated r times, in alphabet order.
func PolyDimers(r int) []string {
	out := make([]string, 0, 12)
	for _, x := range Alphabet {
		for _, y := range Alphabet {
			if x == y {
				continue
			}
			out = append(out, strings.Repeat(string([]byte{byte(x), byte(y)}), r))
		}
	}
	return out
}

// DimerSet is a lookup table over PolyDimers.
type DimerSet map[string]struct{}

// NewDimerSet builds the forbidden set for r.
func NewDimerSet(r int) DimerSet {
	set := make(DimerSet, 12)
	for _, d := range PolyDimers(r) {
		set[d] = struct{}{}
	}
	return set
}

// MatchesSuffix reports whether the last 2r symbols of seq are forbidden.
func (s DimerSet) MatchesSuffix(seq []byte, r int) bool {
	if len(seq) < 2*r {
		return false
	}
	_, ok := s[string(seq[len(seq)-2*r:])]
	return ok
}

// HasDimerRepeat reports whether any window of 2r symbols in seq is a dimer
// unit of two distinct symbols repeated r times.
func HasDimerRepeat(seq string, r int) bool {
	w := 2 * r
	if r < 1 || len(seq) < w {
		return false
	}
	for i := 0; i+w <= len(seq); i++ {
		if seq[i] == seq[i+1] {
			continue
		}
		ok := true
		for j := i + 2; j < i+w; j++ {
			if seq[j] != seq[j-2] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// InvalidSymbol returns the index of the first symbol outside the alphabet,
// or -1 when seq is clean.
func InvalidSymbol(seq string) int {
	for i := 0; i < len(seq); i++ {
		if !Nucleotide(seq[i]).Valid() {
			return i
		}
	}
	return -1
}
