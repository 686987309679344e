// Package cmd wires the Cobra CLI described in SPEC_FULL.md §6: a root
// command that dispatches between REPL and file-run mode exactly the way
// spec.md §6 specifies, plus a `run` subcommand and a `version` subcommand,
// mirroring go-dws's cmd/dwscript/cmd package layout.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, overridable by build flags the way go-dws's is.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lox [script]",
	Short: "A tree-walking interpreter for the Lox scripting language",
	Long: `lox is a Go implementation of the Lox scripting language from the
Crafting Interpreters family: dynamically typed, class-based, with
closures, single inheritance, and a small built-in surface.

Run with no arguments to start an interactive REPL. Run with a single
file argument to execute a script.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runREPL()
		}
		return runFile(args[0])
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
