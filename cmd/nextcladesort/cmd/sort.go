package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nextstrain/nextclade-sort/datasetindex"
	"github.com/nextstrain/nextclade-sort/fasta"
	"github.com/nextstrain/nextclade-sort/minimizer"
	"github.com/nextstrain/nextclade-sort/seqsort"
	"github.com/pkg/errors"
	"github.com/shenwei356/stable"
	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "sort FASTA sequences into Nextclade datasets",
	Long: `sort FASTA sequences into Nextclade datasets

Classifies each input sequence against a minimizer index, either writing
each record to the single best-matching dataset's FASTA file (the
default), or buffering every record's candidates and running a greedy
set-cover assignment across the whole input (--global).
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		checkArgs(cmd, args)

		idx := loadOrFetchIndex(cmd)
		params := idx.Params
		if cmd.Flags().Changed("min-score") {
			params.Cutoff = getFlagFloat64(cmd, "min-score")
		}
		minNumHits := getFlagInt(cmd, "min-num-hits")
		allMatches := getFlagBool(cmd, "all-matches")
		global := getFlagBool(cmd, "global")

		sw, err := seqsort.NewSortWriter(
			getFlagString(cmd, "output"),
			getFlagString(cmd, "output-dir"),
			getFlagString(cmd, "output-results-tsv"),
		)
		checkError(err)

		pipeline := seqsort.New(idx, params, opt.NumCPUs)
		stats := newStatsPrinter(opt.Verbose)

		selectMatches := func(result minimizer.SearchResult) []minimizer.DatasetResult {
			filtered := make([]minimizer.DatasetResult, 0, len(result.Datasets))
			for _, d := range result.Datasets {
				if d.NHits < uint64(minNumHits) {
					continue
				}
				filtered = append(filtered, d)
			}
			if !allMatches && len(filtered) > 1 {
				filtered = filtered[:1]
			}
			return filtered
		}

		if global {
			err = pipeline.RunGlobal(
				args,
				func(buffered []seqsort.SortedRecord) map[uint64]string {
					candidates := make([]seqsort.CandidateSet, len(buffered))
					for i, sr := range buffered {
						names := make([]string, 0, len(sr.Result.Datasets))
						for _, d := range selectMatches(sr.Result) {
							names = append(names, d.Name)
						}
						candidates[i] = seqsort.CandidateSet{RecordIndex: sr.Index, Datasets: names}
					}
					assignments := seqsort.GlobalAssignment(candidates)
					out := make(map[uint64]string, len(assignments))
					for _, a := range assignments {
						out[a.RecordIndex] = a.Dataset
					}
					return out
				},
				func(rec fasta.Record, assignedDataset string, result minimizer.SearchResult) error {
					var matches []minimizer.DatasetResult
					if assignedDataset != "" {
						for _, d := range result.Datasets {
							if d.Name == assignedDataset {
								matches = []minimizer.DatasetResult{d}
								break
							}
						}
					}
					stats.record(rec.SeqName, matches)
					return sw.WriteMatches(rec, matches)
				},
			)
		} else {
			err = pipeline.RunOnline(args, func(sr seqsort.SortedRecord) error {
				matches := selectMatches(sr.Result)
				stats.record(sr.SeqName, matches)
				return sw.WriteMatches(fasta.Record{Index: sr.Index, SeqName: sr.SeqName, Seq: sr.Seq}, matches)
			})
		}
		checkError(err)
		checkError(sw.Close())

		if opt.Verbose {
			stats.printSummary()
		}
	},
}

func loadOrFetchIndex(cmd *cobra.Command) *minimizer.Index {
	path := getFlagString(cmd, "minimizer-index")
	if path != "" {
		idx, err := minimizer.LoadIndexFromPath(path)
		checkError(err)
		return idx
	}

	idx, err := datasetindex.FetchMinimizerIndex(getFlagString(cmd, "server"))
	checkError(err)
	return idx
}

func checkArgs(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		checkError(errors.New("at least one input FASTA file is required"))
	}

	output := getFlagString(cmd, "output")
	outputDir := getFlagString(cmd, "output-dir")
	if output == "" && outputDir == "" {
		checkError(errors.New("one of --output or --output-dir is required"))
	}
	if output != "" && outputDir != "" {
		checkError(errors.New("--output and --output-dir are mutually exclusive"))
	}
	if output != "" && !strings.Contains(output, "{name}") {
		checkError(errors.New("--output must contain the literal {name} token"))
	}
}

// statsPrinter ports StatsPrinter from the original Rust CLI: a running
// per-sequence log line plus a final per-dataset summary table.
type statsPrinter struct {
	verbose    bool
	perDataset map[string]int
	undetected int
}

func newStatsPrinter(verbose bool) *statsPrinter {
	return &statsPrinter{verbose: verbose, perDataset: map[string]int{}}
}

func (s *statsPrinter) record(seqName string, matches []minimizer.DatasetResult) {
	if len(matches) == 0 {
		s.undetected++
		if s.verbose {
			log.Infof("%s\t-\t-\t-", seqName)
		}
		return
	}
	for _, m := range matches {
		s.perDataset[m.Name]++
		if s.verbose {
			log.Infof("%s\t%s\t%.3f\t%d", seqName, m.Name, m.Score, m.NHits)
		}
	}
}

func (s *statsPrinter) printSummary() {
	names := make([]string, 0, len(s.perDataset))
	for name := range s.perDataset {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := stable.New()
	tbl.HeaderWithFormat([]stable.Column{
		{Header: "dataset"},
		{Header: "num sequences", Align: stable.AlignRight},
	})
	for _, name := range names {
		tbl.AddRow([]interface{}{name, s.perDataset[name]})
	}
	tbl.AddRow([]interface{}{"undetected", s.undetected})

	style := &stable.TableStyle{
		Name:      "plain",
		HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
		DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
		Padding:   "",
	}
	fmt.Println("\nSuggested datasets:")
	fmt.Print(string(tbl.Render(style)))
}

func init() {
	RootCmd.AddCommand(sortCmd)

	sortCmd.Flags().StringP("minimizer-index", "m", "", "path to a local minimizer index JSON (fetched from --server if omitted)")
	sortCmd.Flags().StringP("server", "s", "https://data.clades.nextstrain.org", "dataset server base URL")
	sortCmd.Flags().StringP("output", "o", "", "output FASTA template, must contain the literal {name} token")
	sortCmd.Flags().String("output-dir", "", "output directory, one {name}.fasta file per matched dataset")
	sortCmd.Flags().String("output-results-tsv", "", "optional path to write the per-record results TSV")
	sortCmd.Flags().Bool("global", false, "buffer every record and run a global set-cover assignment instead of per-record best match")
	sortCmd.Flags().Bool("all-matches", false, "write every matching dataset instead of only the best one")
	sortCmd.Flags().Float64("min-score", 0, "override the minimizer index's default score cutoff")
	sortCmd.Flags().Int("min-num-hits", 0, "minimum number of minimizer hits required for a dataset to be considered a match")
}
