package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "nextcladesort",
	Short: "Sort genomic sequences into Nextclade datasets",
	Long: fmt.Sprintf(`nextcladesort - sort genomic sequences into Nextclade datasets

A command-line tool that classifies FASTA sequences against a minimizer
index, assigning each record to the reference dataset it most likely
belongs to.

Version: %s
`, Version),
}

// Execute adds all child commands to RootCmd and runs it. Called once from
// main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("jobs", "j", defaultJobs(), "number of worker threads")
	RootCmd.PersistentFlags().BoolP("verbose", "", false, "print verbose information")
}

func defaultJobs() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
