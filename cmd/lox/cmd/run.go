package cmd

import (
	"fmt"
	"os"

	"github.com/loxlang/golox/internal/loxerr"
	"github.com/loxlang/golox/pkg/lox"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Lox file or inline expression",
	Long: `Execute a Lox program from a file or inline code.

Examples:
  lox run script.lox
  lox run -e "print 1 + 2;"
  lox run --dump-ast script.lox`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(c *cobra.Command, args []string) error {
		switch {
		case evalExpr != "":
			return runSource(evalExpr, "<eval>")
		case len(args) == 1:
			return runFile(args[0])
		default:
			return fmt.Errorf("either provide a file path or use -e for inline code")
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST instead of executing")
}

// runFile implements spec.md §6's `PROGRAM <file>` surface: read the file,
// run it, exit 1 on any error, 0 otherwise. It backs both the bare root
// dispatch (`lox script.lox`) and the explicit `lox run script.lox`.
func runFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return runSource(string(content), path)
}

func runSource(source, label string) error {
	if verbose {
		fmt.Printf("Running: %s\n", label)
		fmt.Printf("Input length: %d bytes\n", len(source))
		fmt.Println("---")
	}

	if dumpAST {
		dump, errs := lox.DumpAST(source)
		if len(errs) > 0 {
			printErrors(errs)
			return fmt.Errorf("parsing failed with %d error(s)", len(errs))
		}
		fmt.Println(dump)
		return nil
	}

	engine := lox.New(lox.WithOutput(os.Stdout))
	result := engine.Eval(source)
	if !result.Success {
		printErrors(result.Errors)
		return fmt.Errorf("execution failed with %d error(s)", len(result.Errors))
	}

	if verbose {
		fmt.Println("---")
		fmt.Println("Execution finished with no errors")
	}
	return nil
}

func printErrors(errs []*loxerr.Error) {
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Format())
	}
}
