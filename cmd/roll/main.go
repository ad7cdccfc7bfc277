package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ewens/dicelang/config"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
	"github.com/ewens/dicelang/pkg/dicelang/repl"
)

// Version is set at compile time via -ldflags
var Version = "1.0.0"

var (
	// Display flags
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	// Mode flags
	averageFlag      = flag.Bool("a", false, "Calculate the average of the given roll")
	averageLongFlag  = flag.Bool("average", false, "Calculate the average of the given roll")
	criticalFlag     = flag.Bool("c", false, "Roll the dice as a critical hit")
	criticalLongFlag = flag.Bool("critical", false, "Roll the dice as a critical hit")
	maximumFlag      = flag.Bool("m", false, "Calculate the maximum value that can be rolled")
	maximumLongFlag  = flag.Bool("maximum", false, "Calculate the maximum value that can be rolled")

	// Output flags
	numberFlag      = flag.Int("n", 0, "Roll each expression this many times")
	numberLongFlag  = flag.Int("number", 0, "Roll each expression this many times")
	verboseFlag     = flag.Bool("v", false, "Show the results of each individual die")
	verboseLongFlag = flag.Bool("verbose", false, "Show the results of each individual die")
	wrapFlag        = flag.Int("w", -1, "Wrap lines after this many characters, 0 for no wrapping")
	wrapLongFlag    = flag.Int("wrap", -1, "Wrap lines after this many characters, 0 for no wrapping")
	statsFlag       = flag.Bool("stats", false, "Roll repeatedly and report summary statistics")

	// Environment flags
	seedFlag     = flag.Int64("s", 0, "Seed the random source for repeatable rolls")
	seedLongFlag = flag.Int64("seed", 0, "Seed the random source for repeatable rolls")
	configFlag   = flag.String("config", "", "Path to a YAML config file")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}
	if *versionFlag || *versionLongFlag {
		fmt.Printf("roll version %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.Seed != 0 {
		operator.SetSource(operator.NewSource(opts.Seed))
	}

	if flag.NArg() == 0 {
		repl.Start(os.Stdout, repl.Options{
			Mode:        opts.Mode,
			Verbose:     opts.Verbose,
			HistoryFile: cfg.HistoryFile,
			Version:     Version,
		})
		return
	}

	if opts.Stats {
		if err := runStats(os.Stdout, flag.Args(), opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runRolls(os.Stdout, flag.Args(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildOptions merges config-file defaults with the parsed flags. Flags
// win wherever both are set.
func buildOptions(cfg *config.Config) (runOptions, error) {
	mode, err := resolveMode(cfg.Mode,
		*averageFlag || *averageLongFlag,
		*criticalFlag || *criticalLongFlag,
		*maximumFlag || *maximumLongFlag)
	if err != nil {
		return runOptions{}, err
	}

	opts := runOptions{
		Mode:    mode,
		Number:  cfg.Number,
		Wrap:    cfg.Wrap,
		Verbose: cfg.Verbose || *verboseFlag || *verboseLongFlag,
		Stats:   *statsFlag,
		Seed:    cfg.Seed,
	}
	if n := pickInt(*numberFlag, *numberLongFlag, 0); n != 0 {
		if n < 1 {
			return runOptions{}, fmt.Errorf("invalid number %d: must be at least 1", n)
		}
		opts.Number = n
	}
	if w := pickInt(*wrapFlag, *wrapLongFlag, -1); w != -1 {
		if w < 0 {
			return runOptions{}, fmt.Errorf("invalid wrap %d: must be 0 or positive", w)
		}
		opts.Wrap = w
	}
	if s := pickInt64(*seedFlag, *seedLongFlag, 0); s != 0 {
		opts.Seed = s
	}
	return opts, nil
}

// pickInt returns the first value that differs from unset.
func pickInt(short, long, unset int) int {
	if short != unset {
		return short
	}
	return long
}

func pickInt64(short, long, unset int64) int64 {
	if short != unset {
		return short
	}
	return long
}

func printHelp() {
	fmt.Printf(`roll - dice expression roller version %s

Perform one or many rolls, in a syntax that is an extension of D&D's.
The most basic roll is '1d20', a single die. More complex expressions
may add modifiers or other die rolls; all common arithmetic operations
are supported, so knock yourself out.

Usage:
  roll [options] <expression>...
  roll                  Start the interactive REPL

Mode Options (mutually exclusive):
  -a, --average         Calculate the average of the given roll
  -c, --critical        Roll the dice as a critical hit (roll twice as many)
  -m, --maximum         Calculate the maximum value that can be rolled

Output Options:
  -n, --number <N>      Roll each expression N times
  -v, --verbose         Show the results of each individual die
  -w, --wrap <N>        Wrap lines after N characters, 0 for no wrapping
  --stats               Roll repeatedly and report count, mean, min, and max

Environment Options:
  -s, --seed <N>        Seed the random source for repeatable rolls
  --config <path>       Path to a YAML config file

Display Options:
  -h, --help            Show this help message
  -V, --version         Show version information

Examples:
  roll 1d20+5               Roll a d20 and add 5
  roll -v 4d6h3             Roll 4d6, keep the highest 3, show each die
  roll -n 6 3d6             Roll 3d6 six times
  roll -a 2d8+3             Average of 2d8+3 (outputs: 12)
  roll -c 2d6               Critical: rolls 4d6
  roll --stats -n 1000 3d6  Distribution summary over 1000 rolls
  roll '2d[2, 4, 8]'        Roll two dice with faces 2, 4, and 8
  roll 4dF                  Roll four Fudge dice
`, Version)
}
