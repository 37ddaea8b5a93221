// Package seqsort implements the sorter's concurrency pipeline: a producer
// streaming FASTA records into a bounded channel, a pool of workers running
// MinimizerSearch, and online or global (buffered two-pass) consumption of
// the results, followed by the SortWriter fan-out.
package seqsort

import (
	"io"
	"sync"

	"github.com/nextstrain/nextclade-sort/fasta"
	"github.com/nextstrain/nextclade-sort/minimizer"
	"github.com/pkg/errors"
)

// ChannelCapacity bounds every channel in the pipeline, enforcing the
// cooperative backpressure spec.md §5 calls for: neither producer nor
// workers may race ahead and allocate unbounded buffers.
const ChannelCapacity = 128

// SortedRecord is one FASTA record's minimizer search outcome, still
// carrying its input-order Index so a consumer can restore input order.
type SortedRecord struct {
	Index   uint64
	SeqName string
	Seq     []byte
	Result  minimizer.SearchResult
}

// Pipeline runs MinimizerSearch over a stream of FASTA records using a
// fixed worker pool. MinimizerIndex and SearchParams are shared read-only
// across all workers; no locking is needed.
type Pipeline struct {
	Index  *minimizer.Index
	Params minimizer.SearchParams
	Jobs   int
}

// New builds a Pipeline with at least one worker.
func New(idx *minimizer.Index, params minimizer.SearchParams, jobs int) *Pipeline {
	if jobs < 1 {
		jobs = 1
	}
	return &Pipeline{Index: idx, Params: params, Jobs: jobs}
}

// readAllRecords streams every record of every input file, in file order,
// through send, numbering records sequentially across all files combined.
func readAllRecords(paths []string, send func(fasta.Record) error) error {
	var index uint64
	for _, path := range paths {
		r, err := fasta.Open(path)
		if err != nil {
			return err
		}
		for {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			rec.Index = index
			index++
			if err := send(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunOnline streams every record through the worker pool and invokes emit
// once per record, in worker-completion order (non-deterministic), per
// spec.md §5. It blocks until every record has been processed.
func (p *Pipeline) RunOnline(paths []string, emit func(SortedRecord) error) error {
	recCh := make(chan fasta.Record, ChannelCapacity)
	outCh := make(chan SortedRecord, ChannelCapacity)

	var firstErr error
	var errOnce sync.Once
	reportErr := func(err error) {
		if err == nil {
			return
		}
		errOnce.Do(func() { firstErr = err })
	}

	var producerWg sync.WaitGroup
	producerWg.Add(1)
	go func() {
		defer producerWg.Done()
		defer close(recCh)
		reportErr(readAllRecords(paths, func(rec fasta.Record) error {
			recCh <- rec
			return nil
		}))
	}()

	var workerWg sync.WaitGroup
	for i := 0; i < p.Jobs; i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			for rec := range recCh {
				result := minimizer.Run(rec.Seq, p.Index, p.Params)
				outCh <- SortedRecord{Index: rec.Index, SeqName: rec.SeqName, Seq: rec.Seq, Result: result}
			}
		}()
	}

	go func() {
		workerWg.Wait()
		close(outCh)
	}()

	for sr := range outCh {
		reportErr(emit(sr))
	}

	producerWg.Wait()
	return firstErr
}

// RunGlobal buffers every record's SearchResult (never the sequence
// bytes), runs assign over the full set once every worker has finished,
// and then re-reads the FASTA files sequentially to invoke emit in
// original input order, per spec.md §5 and §9 ("global mode must not
// buffer FASTA bytes").
func (p *Pipeline) RunGlobal(
	paths []string,
	assign func([]SortedRecord) map[uint64]string,
	emit func(rec fasta.Record, assignedDataset string, result minimizer.SearchResult) error,
) error {
	var buffered []SortedRecord
	var mu sync.Mutex

	collect := func(sr SortedRecord) error {
		sr.Seq = nil // discard sequence bytes; only the result is kept
		mu.Lock()
		buffered = append(buffered, sr)
		mu.Unlock()
		return nil
	}

	if err := p.RunOnline(paths, collect); err != nil {
		return err
	}

	assignment := assign(buffered)
	resultByIndex := make(map[uint64]minimizer.SearchResult, len(buffered))
	for _, sr := range buffered {
		resultByIndex[sr.Index] = sr.Result
	}

	return readAllRecords(paths, func(rec fasta.Record) error {
		result, ok := resultByIndex[rec.Index]
		if !ok {
			return errors.Errorf("record %d (%s) was read in the second pass but never scored in the first", rec.Index, rec.SeqName)
		}
		return emit(rec, assignment[rec.Index], result)
	})
}
