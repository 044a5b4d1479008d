// Package domain holds the barcode types and the pure constraint predicates
// shared by the sampler, the verifier and the CLI.
package domain

// Nucleotide is one symbol of the DNA alphabet.
type Nucleotide byte

// The four nucleotides, in draw order.
const (
	A Nucleotide = 'A'
	C Nucleotide = 'C'
	G Nucleotide = 'G'
	T Nucleotide = 'T'
)

// Alphabet lists the nucleotides indexed by their two-bit draw value.
var Alphabet = [4]Nucleotide{A, C, G, T}

// IsGC reports whether n is G or C.
func (n Nucleotide) IsGC() bool {
	return n == G || n == C
}

// Valid reports whether n belongs to the alphabet.
func (n Nucleotide) Valid() bool {
	switch n {
	case A, C, G, T:
		return true
	}
	return false
}

// String returns the single-letter symbol.
func (n Nucleotide) String() string {
	return string(rune(n))
}
