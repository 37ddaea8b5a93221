package cmd

import (
	"fmt"
	"os"

	logging "github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("nextclade-sort")

// Options holds the global persistent flags shared by every subcommand.
type Options struct {
	NumCPUs int
	Verbose bool
}

func getOptions(cmd *cobra.Command) *Options {
	return &Options{
		NumCPUs: getFlagPositiveInt(cmd, "jobs"),
		Verbose: getFlagBool(cmd, "verbose"),
	}
}

// checkError prints err to stderr and exits non-zero, matching spec.md §7's
// "non-zero exit with a message to stderr on error" policy.
func checkError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func getFlagString(cmd *cobra.Command, flag string) string {
	s, err := cmd.Flags().GetString(flag)
	checkError(err)
	return s
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	b, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return b
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	i, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return i
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	i := getFlagInt(cmd, flag)
	if i <= 0 {
		checkError(fmt.Errorf("flag --%s must be a positive integer, got %d", flag, i))
	}
	return i
}

func getFlagFloat64(cmd *cobra.Command, flag string) float64 {
	f, err := cmd.Flags().GetFloat64(flag)
	checkError(err)
	return f
}

func getFlagStringSlice(cmd *cobra.Command, flag string) []string {
	s, err := cmd.Flags().GetStringSlice(flag)
	checkError(err)
	return s
}
