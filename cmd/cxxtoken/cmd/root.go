package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cxxtoken",
	Short: "A lexical cursor for C and C++ source text",
	Long: `cxxtoken scans a C or C++ source file into its raw token
stream: identifiers, literals, comments, and punctuation, with no
macro expansion, #include resolution, or keyword classification.`,
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

func init() {
	rootCmd.SetVersionTemplate("cxxtoken version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	os.Exit(1)
}
