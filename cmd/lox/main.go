// Command lox is the CLI entry point: file mode or REPL mode over the
// lexer→parser→resolver→evaluator pipeline in internal/.
package main

import (
	"os"

	"github.com/loxlang/golox/cmd/lox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
