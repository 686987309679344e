package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/loxlang/golox/pkg/lox"
)

const replPrompt = "> "

// runREPL implements spec.md §6's interactive mode: prompt, read one line,
// run it, loop, until end-of-input. Per spec.md §6 and §7, each line is an
// independent execution request (a runtime error on one line does not
// abort the session), but the Engine keeps the token-id counter and the
// global environment alive across lines.
func runREPL() error {
	return runREPLOn(os.Stdin, os.Stdout)
}

func runREPLOn(in io.Reader, out io.Writer) error {
	engine := lox.New(lox.WithOutput(out))
	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(out, replPrompt)
		line, err := reader.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			result := engine.Eval(trimmed)
			if !result.Success {
				printErrors(result.Errors)
			}
		}
		if err != nil {
			// End-of-input (or a read error) terminates the loop, per
			// spec.md §6.
			return nil
		}
	}
}
