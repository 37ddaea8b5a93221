// Package fasta streams FASTA records through the sorter pipeline, wrapping
// shenwei356/bio's reader/writer with the sequential Index numbering the
// rest of the pipeline keys its ordering on.
package fasta

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Record is one FASTA entry read from an input file, tagged with its
// 0-based position in the input stream. Index is what lets the sort
// pipeline reassemble worker output back into input order when the caller
// asks for it.
type Record struct {
	Index   uint64
	SeqName string
	Seq     []byte
}

// Reader streams Records from a single FASTA/FASTQ file, transparently
// handling gzip/xz/bz2 compression via the underlying fastx.Reader.
type Reader struct {
	inner *fastx.Reader
	index uint64
}

// Open opens path for streaming. The path "-" means read from stdin.
func Open(path string) (*Reader, error) {
	inner, err := fastx.NewDefaultReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening FASTA file %q", path)
	}
	return &Reader{inner: inner}, nil
}

// Read returns the next record, or io.EOF once the file is exhausted.
func (r *Reader) Read() (Record, error) {
	rec, err := r.inner.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, errors.Wrap(err, "reading FASTA record")
	}

	out := Record{
		Index:   r.index,
		SeqName: string(rec.Name),
		Seq:     append([]byte(nil), rec.Seq.Seq...),
	}
	r.index++
	return out, nil
}
