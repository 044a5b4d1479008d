// Package barcodeio encodes and decodes barcode libraries as CSV
// (label,sequence rows) or FASTA (>label header, sequence line).
package barcodeio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/eykd/barcodegen/internal/domain"
)

// ErrMalformed is returned when an input file cannot be parsed.
var ErrMalformed = errors.New("malformed barcode file")

// Format identifies an on-disk representation.
type Format string

const (
	// CSV writes one label,sequence row per barcode without a header.
	CSV Format = "csv"
	// FASTA writes a >label header line followed by the sequence line.
	FASTA Format = "fasta"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, FASTA:
		return f, nil
	case "fa", "fna":
		return FASTA, nil
	}
	return "", fmt.Errorf("unknown format %q (want csv or fasta)", s)
}

// FormatFromPath guesses the format from the file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz"))) {
	case ".fa", ".fasta", ".fna":
		return FASTA
	}
	return CSV
}

// Encode writes set to w in format f.
func Encode(w io.Writer, f Format, set []domain.Barcode) error {
	if f == FASTA {
		return WriteFASTA(w, set)
	}
	return WriteCSV(w, set)
}

// Encode writes set to w in format f.
func (f Format) Encode(w io.Writer, set []domain.Barcode) error {
	return Encode(w, f, set)
}

// Decode reads a library from r in format f.
func (f Format) Decode(r io.Reader) ([]domain.Barcode, error) {
	return Decode(r, f)
}

// Decode reads a library from r in format f.
func Decode(r io.Reader, f Format) ([]domain.Barcode, error) {
	if f == FASTA {
		return ReadFASTA(r)
	}
	return ReadCSV(r)
}

// WriteCSV writes label,sequence rows terminated by CRLF.
func WriteCSV(w io.Writer, set []domain.Barcode) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	for _, bc := range set {
		if err := cw.Write([]string{bc.Label, bc.Sequence}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFASTA writes one two-line record per barcode.
func WriteFASTA(w io.Writer, set []domain.Barcode) error {
	for _, bc := range set {
		if _, err := fmt.Fprintf(w, ">%s\n%s\n", bc.Label, bc.Sequence); err != nil {
			return err
		}
	}
	return nil
}

// ReadCSV parses label,sequence rows. Sequences are upper-cased.
func ReadCSV(r io.Reader) ([]domain.Barcode, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var out []domain.Barcode
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		out = append(out, domain.Barcode{
			Label:    strings.TrimSpace(rec[0]),
			Sequence: strings.ToUpper(strings.TrimSpace(rec[1])),
		})
	}
}

// ReadFASTA parses FASTA records. The label is the first word of the header
// and wrapped sequence lines are joined.
func ReadFASTA(r io.Reader) ([]domain.Barcode, error) {
	sc := bufio.NewScanner(r)
	var (
		out  []domain.Barcode
		seq  []byte
		cur  string
		open bool
		line int
	)
	flush := func() {
		if open {
			out = append(out, domain.Barcode{Label: cur, Sequence: string(seq)})
		}
	}
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		if b[0] == '>' {
			flush()
			fields := strings.Fields(string(b[1:]))
			if len(fields) == 0 {
				return nil, fmt.Errorf("%w: empty header on line %d", ErrMalformed, line)
			}
			cur, seq, open = fields[0], seq[:0], true
			continue
		}
		if !open {
			return nil, fmt.Errorf("%w: sequence before first header on line %d", ErrMalformed, line)
		}
		seq = append(seq, bytes.ToUpper(b)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}
