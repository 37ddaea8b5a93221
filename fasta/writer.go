package fasta

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/xopen"
)

// wrapWidth is the line width FASTA output is wrapped to, matching the
// teacher's own FormatSeq(60) calls.
const wrapWidth = 60

// Writer appends Records to a single FASTA output file, creating parent
// directories implicitly via xopen and transparently gzip-compressing when
// the path ends in .gz.
type Writer struct {
	fh *xopen.Writer
}

// Create opens path for FASTA output, truncating any existing file.
func Create(path string) (*Writer, error) {
	fh, err := xopen.Wopen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating FASTA output %q", path)
	}
	return &Writer{fh: fh}, nil
}

// Write appends one record in wrapped FASTA format.
func (w *Writer) Write(rec Record) error {
	s, err := seq.NewSeq(seq.DNA, rec.Seq)
	if err != nil {
		return errors.Wrapf(err, "formatting sequence %q", rec.SeqName)
	}
	if _, err := fmt.Fprintf(w.fh, ">%s\n%s\n", rec.SeqName, s.FormatSeq(wrapWidth)); err != nil {
		return errors.Wrapf(err, "writing record %q", rec.SeqName)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	return w.fh.Close()
}
