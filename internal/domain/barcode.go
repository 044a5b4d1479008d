package domain

import "fmt"

// Barcode is an accepted sequence together with its assigned label.
type Barcode struct {
	Label    string `json:"label"`
	Sequence string `json:"sequence"`
}

// Label returns the canonical label BC{length}_{ordinal}; ordinals start at 1.
func Label(length, ordinal int) string {
	return fmt.Sprintf("BC%d_%d", length, ordinal)
}

// LabelSequences assigns canonical labels to sequences in acceptance order.
func LabelSequences(length int, seqs []string) []Barcode {
	out := make([]Barcode, len(seqs))
	for i, s := range seqs {
		out[i] = Barcode{Label: Label(length, i+1), Sequence: s}
	}
	return out
}
