// Package repl provides the interactive roll prompt with line editing,
// history, and tab completion.
package repl

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/ewens/dicelang/pkg/dicelang"
	"github.com/ewens/dicelang/pkg/dicelang/errors"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
)

const PROMPT = ">> "

const ROLL_LOGO = `
█▀▄ █ █▀▀ █▀▀ █░░ ▄▀█ █▄░█ █▀▀
█▄▀ █ █▄▄ ██▄ █▄▄ █▀█ █░▀█ █▄█ `

// Options carries the session state the REPL starts from and mutates
// through its meta-commands.
type Options struct {
	Mode        dicelang.Mode
	Verbose     bool
	HistoryFile string
	Version     string
}

// completionWords lists dice operators and REPL commands for tab
// completion.
var completionWords = buildCompletionWords()

func buildCompletionWords() []string {
	words := []string{
		":help", ":mode", ":seed", ":verbose", ":quit",
		"exit", "quit",
		"normal", "average", "critical", "maximum",
	}
	for _, code := range operator.Codes() {
		if code == "m" || code == "p" {
			continue
		}
		words = append(words, code)
	}
	return words
}

// Start runs the read-roll-print loop until EOF or an exit command.
func Start(out io.Writer, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(filterCompletions)

	if opts.HistoryFile != "" {
		if f, err := os.Open(opts.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.HistoryFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Fprintf(out, "%s", ROLL_LOGO)
	fmt.Fprintln(out, "v", opts.Version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	for {
		input, err := line.Prompt(PROMPT)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" || trimmed == "quit" {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if strings.HasPrefix(trimmed, ":") {
			if quit := handleCommand(trimmed, &opts, out); quit {
				return
			}
			continue
		}

		line.AppendHistory(input)
		rollAndPrint(trimmed, opts, out)
	}
}

// rollAndPrint evaluates one expression and writes the result or a
// formatted error.
func rollAndPrint(expr string, opts Options, out io.Writer) {
	if opts.Verbose {
		result, err := dicelang.Verbose(expr, opts.Mode, 0)
		if err != nil {
			printError(out, err)
			return
		}
		fmt.Fprintln(out, result)
		return
	}
	result, err := dicelang.Basic(expr, opts.Mode, 0)
	if err != nil {
		printError(out, err)
		return
	}
	fmt.Fprintln(out, operator.FormatNumber(result))
}

// handleCommand handles REPL meta-commands that start with ':'.
// Returns true when the REPL should exit.
func handleCommand(cmd string, opts *Options, out io.Writer) bool {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?      Show this help")
		fmt.Fprintln(out, "  :mode [name]       Show or set the roll mode (normal, average, critical, maximum)")
		fmt.Fprintln(out, "  :seed N            Seed the random source for repeatable rolls")
		fmt.Fprintln(out, "  :verbose           Toggle per-die verbose output")
		fmt.Fprintln(out, "  :quit, exit, quit  Exit the REPL")
		return false

	case ":mode":
		if len(fields) < 2 {
			fmt.Fprintf(out, "Mode: %s\n", opts.Mode)
			return false
		}
		mode, err := dicelang.ModeFromString(fields[1])
		if err != nil {
			fmt.Fprintf(out, "Unknown mode %q (want normal, average, critical, or maximum)\n", fields[1])
			return false
		}
		opts.Mode = mode
		fmt.Fprintf(out, "Mode set to %s\n", mode)
		return false

	case ":seed":
		if len(fields) < 2 {
			fmt.Fprintln(out, "Usage: :seed N")
			return false
		}
		seed, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Fprintf(out, "Invalid seed %q\n", fields[1])
			return false
		}
		operator.SetSource(operator.NewSource(seed))
		fmt.Fprintf(out, "Seeded with %d\n", seed)
		return false

	case ":verbose":
		opts.Verbose = !opts.Verbose
		if opts.Verbose {
			fmt.Fprintln(out, "Verbose output ON")
		} else {
			fmt.Fprintln(out, "Verbose output OFF")
		}
		return false

	case ":quit", ":q":
		fmt.Fprintln(out, "Goodbye!")
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", fields[0])
		return false
	}
}

// filterCompletions returns completion suggestions based on the last
// word being typed.
func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	words := strings.Fields(line)
	lastWord := words[len(words)-1]

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, word)
		}
	}
	return matches
}

// printError renders parse errors with their caret pointer, then any
// hints attached to the error.
func printError(out io.Writer, err error) {
	fmt.Fprintln(out, err.Error())
	var de *errors.Error
	if stderrors.As(err, &de) && de.Expr != "" {
		for _, hint := range de.Hints {
			fmt.Fprintln(out, "  hint:", hint)
		}
	}
}
