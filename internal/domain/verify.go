package domain

import "fmt"

// VerifySet checks every barcode against p and every pair against the
// minimum distance. Pairwise checks skip barcodes that failed the length or
// symbol checks. Label drift from BC{L}_{ordinal} is reported as a warning.
func VerifySet(p RunParams, set []Barcode) []Finding {
	var findings []Finding
	add := func(typ string, sev FindingSeverity, label, format string, a ...any) {
		findings = append(findings, Finding{Type: typ, Severity: sev, Label: label, Message: fmt.Sprintf(format, a...)})
	}

	clean := make([]int, 0, len(set))
	for i, bc := range set {
		seq := bc.Sequence
		if want := Label(p.Length, i+1); bc.Label != want {
			add(FindingLabel, SeverityWarning, bc.Label, "expected label %s at position %d", want, i+1)
		}
		if len(seq) != p.Length {
			add(FindingLength, SeverityError, bc.Label, "length %d, want %d", len(seq), p.Length)
			continue
		}
		if at := InvalidSymbol(seq); at >= 0 {
			add(FindingInvalidSymbol, SeverityError, bc.Label, "symbol %q at position %d is not A, C, G or T", seq[at], at+1)
			continue
		}
		clean = append(clean, i)
		if run := LongestRun(seq); run >= p.MaxRun {
			add(FindingHomopolymer, SeverityError, bc.Label, "run of %d identical symbols (limit %d)", run, p.MaxRun-1)
		}
		if p.DimerCheck && HasDimerRepeat(seq, p.MaxRun) {
			add(FindingDimerRepeat, SeverityError, bc.Label, "dimer unit repeated %d times", p.MaxRun)
		}
		if gc := GCCount(seq); !GCSatisfied(p.GCMode, gc, p.Length, p.GC) {
			add(FindingGCContent, SeverityError, bc.Label, "GC fraction %.4f fails %s target %v", float64(gc)/float64(p.Length), p.GCMode, p.GC)
		}
	}

	for x := 0; x < len(clean); x++ {
		a := set[clean[x]]
		for y := x + 1; y < len(clean); y++ {
			b := set[clean[y]]
			if d := hamming(a.Sequence, b.Sequence); d < p.MinDistance {
				add(FindingHammingDistance, SeverityError, b.Label, "distance %d to %s, want at least %d", d, a.Label, p.MinDistance)
			}
		}
	}
	return findings
}
