package seqsort

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nextstrain/nextclade-sort/fasta"
	"github.com/nextstrain/nextclade-sort/minimizer"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/xopen"
)

// nameToken is the literal placeholder in an --output template that gets
// substituted with a dataset's prefix name, per spec.md §6.
const nameToken = "{name}"

// NewSortWriter builds a SortWriter from the mutually exclusive
// --output/--output-dir flags plus an optional results TSV path. Exactly
// one of outputTemplate and outputDir must be set.
func NewSortWriter(outputTemplate, outputDir, resultsTSVPath string) (*SortWriter, error) {
	if outputTemplate != "" && outputDir != "" {
		return nil, errors.New("--output and --output-dir are mutually exclusive")
	}

	var tmpl string
	switch {
	case outputTemplate != "":
		if !strings.Contains(outputTemplate, nameToken) {
			return nil, errors.Errorf("--output must contain the literal %s token", nameToken)
		}
		tmpl = outputTemplate
	case outputDir != "":
		if err := ensureOutputDir(outputDir); err != nil {
			return nil, err
		}
		tmpl = filepath.Join(outputDir, nameToken+".fasta")
	default:
		return nil, errors.New("one of --output or --output-dir is required")
	}

	sw := &SortWriter{template: tmpl, openFiles: map[string]*fasta.Writer{}}

	if resultsTSVPath != "" {
		fh, err := xopen.Wopen(resultsTSVPath)
		if err != nil {
			return nil, errors.Wrapf(err, "creating results TSV %q", resultsTSVPath)
		}
		if _, err := fh.WriteString("index\tseqName\tdataset\tscore\tnumHits\n"); err != nil {
			return nil, errors.Wrap(err, "writing results TSV header")
		}
		sw.resultsTSV = fh
	}

	return sw, nil
}

func ensureOutputDir(dir string) error {
	existed, err := pathutil.DirExists(dir)
	if err != nil {
		return errors.Wrapf(err, "checking output directory %q", dir)
	}
	if !existed {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating output directory %q", dir)
		}
	}
	return nil
}

// SortWriter owns all FASTA output files and the optional results TSV.
// It is used exclusively by a single writer goroutine, per spec.md §5.
type SortWriter struct {
	template   string
	openFiles  map[string]*fasta.Writer
	resultsTSV *xopen.Writer
}

func (sw *SortWriter) pathFor(datasetName string) string {
	return strings.ReplaceAll(sw.template, nameToken, datasetName)
}

func (sw *SortWriter) fastaWriterFor(datasetName string) (*fasta.Writer, error) {
	if w, ok := sw.openFiles[datasetName]; ok {
		return w, nil
	}
	path := sw.pathFor(datasetName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory for %q", path)
	}
	w, err := fasta.Create(path)
	if err != nil {
		return nil, err
	}
	sw.openFiles[datasetName] = w
	return w, nil
}

// prefixNames expands a dataset name into every one of its path prefixes,
// e.g. "a/b/c" -> ["a", "a/b", "a/b/c"], per spec.md §4.5: a record matched
// to a nested dataset is also written to each of its ancestor datasets.
func prefixNames(name string) []string {
	parts := strings.Split(name, "/")
	prefixes := make([]string, len(parts))
	for i := range parts {
		prefixes[i] = strings.Join(parts[:i+1], "/")
	}
	return prefixes
}

// WriteMatches writes rec into the FASTA output for every path prefix of
// every dataset in datasets (zero, one, or many depending on --all-matches
// and global assignment), deduplicated across matches, and appends one
// results-TSV row per matched dataset, or a single row with blank numeric
// fields if datasets is empty.
func (sw *SortWriter) WriteMatches(rec fasta.Record, datasets []minimizer.DatasetResult) error {
	if len(datasets) == 0 {
		return sw.writeTSVRow(rec, "", -1, 0, false)
	}

	seen := map[string]bool{}
	var names []string
	for _, d := range datasets {
		for _, name := range prefixNames(d.Name) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	for _, name := range names {
		w, err := sw.fastaWriterFor(name)
		if err != nil {
			return err
		}
		if err := w.Write(rec); err != nil {
			return errors.Wrapf(err, "writing record %q to dataset %q", rec.SeqName, name)
		}
	}

	for _, d := range datasets {
		if err := sw.writeTSVRow(rec, d.Name, d.Score, d.NHits, true); err != nil {
			return err
		}
	}
	return nil
}

func (sw *SortWriter) writeTSVRow(rec fasta.Record, dataset string, score float64, nHits uint64, matched bool) error {
	if sw.resultsTSV == nil {
		return nil
	}
	var err error
	if !matched {
		_, err = fmt.Fprintf(sw.resultsTSV, "%d\t%s\t\t\t\n", rec.Index, rec.SeqName)
	} else {
		_, err = fmt.Fprintf(sw.resultsTSV, "%d\t%s\t%s\t%g\t%d\n", rec.Index, rec.SeqName, dataset, score, nHits)
	}
	if err != nil {
		return errors.Wrap(err, "writing results TSV row")
	}
	return nil
}

// Close flushes and closes every FASTA output file and the results TSV.
func (sw *SortWriter) Close() error {
	var firstErr error
	for _, w := range sw.openFiles {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if sw.resultsTSV != nil {
		if err := sw.resultsTSV.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
